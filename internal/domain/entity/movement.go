package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de kardex.
const (
	MovementTypeEntrada = "ENTRADA" // entrada (incrementa stock)
	MovementTypeSalida  = "SALIDA"  // salida (decrementa stock)
)

// ValidMovementType indica si el tipo es ENTRADA o SALIDA.
func ValidMovementType(t string) bool {
	return t == MovementTypeEntrada || t == MovementTypeSalida
}

// Movement es un asiento del kardex: evento que afecta stock, nunca se borra
// físicamente (Active=false es soft delete). HistoricalStock es la foto del
// stock del producto inmediatamente después de aplicar este movimiento; solo
// cambia si el propio movimiento se edita o elimina.
type Movement struct {
	ID              int64
	ProductID       int64
	UserID          int64
	Type            string // ENTRADA o SALIDA
	Quantity        decimal.Decimal
	Motive          string // obligatorio, máx 50 caracteres
	Comment         string // opcional, máx 200 caracteres
	HistoricalStock decimal.Decimal
	Date            time.Time
	Active          bool
}
