package ports

import (
	"context"

	"github.com/jhoicas/timereg-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Ningún cambio es visible antes del Commit.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(repos repository.Repos) error) error
}
