package transaction

import "context"

// Manager executa uma função dentro de uma transação.
// Os repositórios usados dentro de fn devem receber o ctx repassado,
// que carrega a transação corrente. Se fn retornar erro, nada é gravado.
// Chamadas aninhadas reaproveitam a transação já aberta.
type Manager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
