package sales

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/domain"
)

// Límites de una venta.
const (
	MaxItems        = 100
	MaxCustomerLen  = 200
	MaxObservations = 500
)

var (
	minQuantity = decimal.New(1, -3)           // 0.001
	maxQuantity = decimal.New(999999999, -3)   // 999,999.999
	minPrice    = decimal.New(1, -2)           // 0.01
	maxPrice    = decimal.New(99999999, -2)    // 999,999.99
	maxTotal    = decimal.New(99999999999, -2) // 999,999,999.99

	// Tolerancia absoluta entre el precio enviado y el registrado (1 centavo).
	priceTolerance = decimal.New(1, -2)
)

// ValidateSale valida la forma de una venta multi-ítem. Función pura: límites,
// duplicados y rangos numéricos; nada de BD. El precio es obligatorio siempre:
// su ausencia nunca se interpreta como "usar el registrado".
func ValidateSale(in dto.RegisterSaleRequest) error {
	if len(in.Items) == 0 {
		return &domain.ValidationError{Field: "items", Message: "la venta debe contener al menos un producto"}
	}
	if len(in.Items) > MaxItems {
		return &domain.ValidationError{Field: "items", Message: fmt.Sprintf("la venta no puede contener más de %d productos", MaxItems)}
	}

	seen := make(map[int64]bool, len(in.Items))
	for i, item := range in.Items {
		pos := i + 1
		if item.ProductID <= 0 {
			return &domain.ValidationError{Field: "items", Message: fmt.Sprintf("el item #%d no tiene un ID de producto válido", pos)}
		}
		if seen[item.ProductID] {
			return &domain.BusinessRuleError{Message: fmt.Sprintf("el producto con ID %d está duplicado en la venta (item #%d)", item.ProductID, pos)}
		}
		seen[item.ProductID] = true

		if item.Quantity.LessThan(minQuantity) || item.Quantity.GreaterThan(maxQuantity) {
			return &domain.ValidationError{Field: "items", Message: fmt.Sprintf("la cantidad del item #%d debe estar entre %s y %s", pos, minQuantity, maxQuantity)}
		}
		if item.Price.LessThan(minPrice) || item.Price.GreaterThan(maxPrice) {
			return &domain.ValidationError{Field: "items", Message: fmt.Sprintf("el precio del item #%d debe estar entre %s y %s", pos, minPrice, maxPrice)}
		}
		if item.Quantity.Mul(item.Price).GreaterThan(maxTotal) {
			return &domain.ValidationError{Field: "items", Message: fmt.Sprintf("el subtotal del item #%d excede el límite permitido", pos)}
		}
	}

	if len(in.CustomerName) > MaxCustomerLen {
		return &domain.ValidationError{Field: "cliente_nombre", Message: "el nombre del cliente no puede exceder 200 caracteres"}
	}
	if len(in.Observations) > MaxObservations {
		return &domain.ValidationError{Field: "observaciones", Message: "las observaciones no pueden exceder 500 caracteres"}
	}
	return nil
}
