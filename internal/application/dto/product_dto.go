package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/productos.
type CreateProductRequest struct {
	Name  string           `json:"productos_nombre"`
	Code  string           `json:"productos_codigo,omitempty"`
	Unit  string           `json:"productos_unidad,omitempty"` // UND por defecto
	Price *decimal.Decimal `json:"productos_precio"`
	Stock *decimal.Decimal `json:"productos_stock,omitempty"` // stock inicial, 0 por defecto
}

// UpdateProductRequest body para PUT /api/productos/:id (parcial).
// El stock no es actualizable por catálogo: solo lo muta el kardex.
type UpdateProductRequest struct {
	Name  *string          `json:"productos_nombre,omitempty"`
	Code  *string          `json:"productos_codigo,omitempty"`
	Unit  *string          `json:"productos_unidad,omitempty"`
	Price *decimal.Decimal `json:"productos_precio,omitempty"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID        int64           `json:"productos_id"`
	Name      string          `json:"productos_nombre"`
	Code      string          `json:"productos_codigo,omitempty"`
	Unit      string          `json:"productos_unidad"`
	Price     decimal.Decimal `json:"productos_precio"`
	Stock     decimal.Decimal `json:"productos_stock"`
	Active    bool            `json:"productos_estado"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
