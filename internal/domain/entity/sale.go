package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta del punto de venta.
// Invariante: Total es exactamente la suma de los subtotales de sus líneas, y
// por cada línea existe un movimiento SALIDA con motivo "VENTA #<ID>".
type Sale struct {
	ID           int64
	UserID       int64
	Total        decimal.Decimal
	Date         time.Time
	CustomerName string // opcional, máx 200 caracteres
	Observations string // opcional, máx 500 caracteres
}

// SaleLine línea de detalle de una venta. UnitPrice es el precio autoritativo
// de la base de datos al momento de validar, nunca el enviado por el cliente.
type SaleLine struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal // Quantity * UnitPrice, redondeado a 2 decimales
}
