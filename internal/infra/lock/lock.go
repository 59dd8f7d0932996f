package lock

import "context"

// Keyed é o mutex por chave usado na seção crítica de reserva.
// O release devolvido deve ser chamado sempre, inclusive em erro.
type Keyed interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
