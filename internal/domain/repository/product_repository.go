package repository

import (
	"github.com/shopspring/decimal"

	"github.com/puntoventa/kardex-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate debe bloquear la fila (SELECT FOR UPDATE) y solo puede usarse
// dentro de una transacción; es la lectura obligatoria antes de cualquier
// cálculo de stock para serializar escrituras concurrentes sobre el producto.
type ProductRepository interface {
	Create(product *entity.Product) (int64, error)
	GetByID(id int64) (*entity.Product, error)
	GetForUpdate(id int64) (*entity.Product, error)
	ExistsByName(name string, excludeID int64) (bool, error)
	Update(product *entity.Product) error
	UpdateStock(id int64, stock decimal.Decimal) error
	List(limit, offset int) ([]*entity.Product, error)
	Search(foldedName string, limit, offset int) ([]*entity.Product, error)
	Deactivate(id int64) error
}
