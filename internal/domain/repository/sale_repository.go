package repository

import "github.com/puntoventa/kardex-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas.
// CreateHeader y CreateLine se invocan siempre dentro de la transacción del
// orquestador de ventas; no abren ni confirman transacciones propias.
type SaleRepository interface {
	CreateHeader(sale *entity.Sale) (int64, error)
	CreateLine(line *entity.SaleLine) error
	GetByID(id int64) (*entity.Sale, error)
	ListLines(saleID int64) ([]*entity.SaleLine, error)
}
