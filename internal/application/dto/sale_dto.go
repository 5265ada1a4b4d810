package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta enviada por el punto de venta. El precio es
// obligatorio y se contrasta contra el registrado; nunca se confía en él.
type SaleItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// RegisterSaleRequest body para POST /api/ventas.
type RegisterSaleRequest struct {
	Items        []SaleItemRequest `json:"items"`
	CustomerName string            `json:"cliente_nombre,omitempty"`
	Observations string            `json:"observaciones,omitempty"`
}

// SaleResponse venta registrada con sus líneas.
type SaleResponse struct {
	ID           int64              `json:"ventas_id"`
	UserID       int64              `json:"usuarios_id"`
	Total        decimal.Decimal    `json:"ventas_total"`
	Date         time.Time          `json:"ventas_fecha"`
	CustomerName string             `json:"cliente_nombre,omitempty"`
	Observations string             `json:"observaciones,omitempty"`
	Lines        []SaleLineResponse `json:"detalle,omitempty"`
}

// SaleLineResponse línea persistida de una venta.
type SaleLineResponse struct {
	ProductID int64           `json:"productos_id"`
	Quantity  decimal.Decimal `json:"detalle_cantidad"`
	UnitPrice decimal.Decimal `json:"detalle_precio_unitario"`
	Subtotal  decimal.Decimal `json:"detalle_subtotal"`
}
