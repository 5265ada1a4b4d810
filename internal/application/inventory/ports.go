package inventory

import (
	"context"

	"github.com/puntoventa/kardex-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD. Quien los recibe
// puede leer y escribir dentro de la transacción pero no confirmarla ni
// revertirla: esa autoridad es exclusiva del TxRunner que la abrió.
type TxRepos struct {
	Products  repository.ProductRepository
	Movements repository.MovementRepository
	Sales     repository.SaleRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Si fn retorna error se hace Rollback; si
// retorna nil se hace Commit. Garantiza atomicidad para el motor de kardex
// y para la composición de ventas.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
