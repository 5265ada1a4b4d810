package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
// Cada tipo lleva los campos estructurados de su regla; la capa HTTP mapea
// por tipo (errors.As), nunca por texto del mensaje.

// ErrUnauthorized identidad del actor ausente o inválida.
var ErrUnauthorized = errors.New("no autorizado")

// ValidationError entrada malformada o fuera de rango. El caller puede corregir y reintentar.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("campo '%s': %s", e.Field, e.Message)
}

// NotFoundError la entidad referenciada no existe.
type NotFoundError struct {
	Resource string // "producto", "movimiento", "venta", "usuario"
	ID       int64
}

func (e *NotFoundError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("%s con ID %d no encontrado", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s no encontrado", e.Resource)
}

// BusinessRuleError acción prohibida por regla de negocio (producto inactivo, línea duplicada, etc.).
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string { return e.Message }

// InsufficientStockError la operación dejaría el stock en negativo.
// Lleva disponible y solicitado para que el cliente muestre el detalle.
type InsufficientStockError struct {
	Product   string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	if e.Product != "" {
		return fmt.Sprintf("stock insuficiente para '%s'. Disponible: %s, Solicitado: %s",
			e.Product, e.Available, e.Requested)
	}
	return fmt.Sprintf("stock insuficiente. Disponible: %s, Solicitado: %s", e.Available, e.Requested)
}

// PriceMismatchError el precio enviado no coincide con el registrado (posible manipulación del cliente).
type PriceMismatchError struct {
	Product   string
	Submitted decimal.Decimal
	Current   decimal.Decimal
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("el precio del producto '%s' no coincide con el registrado en el sistema", e.Product)
}

// InvalidTotalError el total de la venta está fuera de rango.
type InvalidTotalError struct {
	Total   decimal.Decimal
	Message string
}

func (e *InvalidTotalError) Error() string { return e.Message }
