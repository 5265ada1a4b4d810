package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida soportadas por el catálogo.
const (
	UnitUND = "UND" // unidad
	UnitKG  = "KG"  // kilogramo
	UnitLT  = "LT"  // litro
	UnitMTS = "MTS" // metros
)

// ValidUnit indica si la unidad de medida es parte del enum soportado.
func ValidUnit(u string) bool {
	switch u {
	case UnitUND, UnitKG, UnitLT, UnitMTS:
		return true
	}
	return false
}

// Product representa un producto del catálogo.
// Stock es un valor derivado: siempre igual a la suma neta de los movimientos
// activos (ENTRADA − SALIDA) del producto. Solo el motor de kardex lo escribe.
type Product struct {
	ID        int64
	Name      string
	Code      string // código interno opcional
	Unit      string // UND, KG, LT, MTS
	Price     decimal.Decimal
	Stock     decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
