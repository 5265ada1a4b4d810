package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/kardex.
type RegisterMovementRequest struct {
	ProductID int64           `json:"product_id"`
	Type      string          `json:"movement_type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Motive    string          `json:"motive"`
	Comment   string          `json:"comment,omitempty"`
}

// UpdateMovementRequest body para PUT /api/kardex/:id. Todos los campos son
// opcionales; solo los presentes se validan y se escriben.
type UpdateMovementRequest struct {
	Type     *string          `json:"movement_type,omitempty"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Motive   *string          `json:"motive,omitempty"`
	Comment  *string          `json:"comment,omitempty"`
}

// MovementResponse movimiento individual con nombres resueltos.
type MovementResponse struct {
	ID              int64           `json:"movimientos_id"`
	Date            time.Time       `json:"movimientos_fecha"`
	ProductID       int64           `json:"productos_id"`
	ProductName     string          `json:"productos_nombre"`
	ProductCode     string          `json:"productos_codigo,omitempty"`
	UserName        string          `json:"usuarios_nombre"`
	Type            string          `json:"movimientos_tipo"`
	Quantity        decimal.Decimal `json:"movimientos_cantidad"`
	HistoricalStock decimal.Decimal `json:"movimientos_stock_historico"`
	Motive          string          `json:"movimientos_motivo"`
	Comment         string          `json:"movimientos_comentario,omitempty"`
}
