// Package spreadsheet lê e grava o catálogo no formato de planilha CSV
package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
	"github.com/hugohenrick/erp-ceramica/pkg/money"
	"github.com/shopspring/decimal"
)

// Colunas da planilha de catálogo
const (
	ColName     = "Name"
	ColBrand    = "Brand"
	ColCategory = "Category"
	ColFormat   = "Format"
	ColPrice    = "Price"
	ColStock    = "Stock"
	ColSold     = "Sold"
	ColSupplier = "Supplier"
)

// Header é o cabeçalho gravado na exportação
var Header = []string{ColName, ColBrand, ColCategory, ColFormat, ColPrice, ColStock, ColSold, ColSupplier}

// Nomes alternativos aceitos na importação (planilhas antigas em espanhol)
var aliases = map[string]string{
	"nombre":    ColName,
	"marca":     ColBrand,
	"categoría": ColCategory,
	"categoria": ColCategory,
	"formato":   ColFormat,
	"precio":    ColPrice,
	"vendidos":  ColSold,
	"proveedor": ColSupplier,
}

// ErrEmptyFile indica um arquivo sem cabeçalho
var ErrEmptyFile = errors.New("planilha vazia")

func canonical(column string) string {
	column = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
	for _, h := range Header {
		if strings.EqualFold(h, column) {
			return h
		}
	}
	if alias, ok := aliases[strings.ToLower(column)]; ok {
		return alias
	}
	return column
}

// detectDelimiter escolhe ';' quando o cabeçalho não usa vírgulas
func detectDelimiter(br *bufio.Reader) rune {
	first, _ := br.Peek(4096)
	if i := bytes.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

// Decode lê as linhas do catálogo. O cabeçalho precisa conter todas as colunas,
// em qualquer ordem. Linhas sem nome são ignoradas.
func Decode(r io.Reader) ([]catalog.Row, error) {
	br := bufio.NewReader(r)
	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperr.Validation("file", ErrEmptyFile.Error())
	}
	if err != nil {
		return nil, apperr.Validation("file", fmt.Sprintf("cabeçalho ilegível: %v", err))
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[canonical(col)] = i
	}
	var missing []string
	for _, col := range Header {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("file", "colunas ausentes: "+strings.Join(missing, ", "))
	}

	var rows []catalog.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperr.Validation("file", err.Error())
		}
		line, _ := reader.FieldPos(0)

		get := func(col string) string {
			if i := idx[col]; i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		if get(ColName) == "" {
			continue
		}

		row := catalog.Row{
			Line:     line,
			Name:     get(ColName),
			Brand:    get(ColBrand),
			Category: get(ColCategory),
			Format:   get(ColFormat),
			Supplier: get(ColSupplier),
		}
		for col, dst := range map[string]*decimal.Decimal{
			ColPrice: &row.Price,
			ColStock: &row.Stock,
			ColSold:  &row.Sold,
		} {
			v, err := money.Parse(get(col))
			if err != nil {
				return nil, apperr.Validation(fmt.Sprintf("linha %d, coluna %s", line, col), err.Error())
			}
			*dst = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Encode grava o cabeçalho e uma linha por produto
func Encode(w io.Writer, rows []catalog.Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("erro ao gravar cabeçalho: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Name,
			r.Brand,
			r.Category,
			r.Format,
			money.Normalize(r.Price).StringFixed(money.Scale),
			money.Normalize(r.Stock).StringFixed(money.Scale),
			money.Normalize(r.Sold).StringFixed(money.Scale),
			r.Supplier,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("erro ao gravar linha %s: %w", r.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
