package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/puntoventa/kardex-api/internal/domain/entity"
)

// MovementPatch actualización parcial de un movimiento: solo los campos no nil
// se escriben. La ausencia de un campo no es error.
type MovementPatch struct {
	Type     *string
	Quantity *decimal.Decimal
	Motive   *string
	Comment  *string
}

// TouchesStock indica si el parche cambia tipo o cantidad (obliga a revertir
// y reaplicar el efecto sobre el stock).
func (p MovementPatch) TouchesStock() bool {
	return p.Type != nil || p.Quantity != nil
}

// KardexEntry fila del historial de movimientos con nombres resueltos
// (modelo de lectura para el listado del kardex).
type KardexEntry struct {
	MovementID      int64           `db:"movement_id"`
	Date            time.Time       `db:"date"`
	ProductID       int64           `db:"product_id"`
	ProductName     string          `db:"product_name"`
	ProductCode     string          `db:"product_code"`
	UserName        string          `db:"user_name"`
	Type            string          `db:"type"`
	Quantity        decimal.Decimal `db:"quantity"`
	HistoricalStock decimal.Decimal `db:"historical_stock"`
	Motive          string          `db:"motive"`
	Comment         string          `db:"comment"`
}

// KardexFilter filtros opcionales del listado (cero = sin filtro).
type KardexFilter struct {
	ProductID int64
	Type      string
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia del kardex: bitácora
// append-only; la eliminación siempre es lógica (Active=false).
type MovementRepository interface {
	Create(movement *entity.Movement) (int64, error)
	GetByID(id int64) (*entity.Movement, error)
	GetKardexEntry(id int64) (*KardexEntry, error)
	Update(id int64, patch MovementPatch) error
	SoftDelete(id int64) error
	ListKardex(filter KardexFilter) ([]*KardexEntry, error)
	// RecomputeProductStock recalcula el stock del producto desde su historial
	// completo de movimientos activos (sum ENTRADA − sum SALIDA), lo persiste
	// en el maestro de productos y devuelve el valor resultante.
	RecomputeProductStock(productID int64) (decimal.Decimal, error)
}
