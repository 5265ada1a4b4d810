package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/puntoventa/kardex-api/internal/domain/entity"
	"github.com/puntoventa/kardex-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
// Las escrituras siempre llegan dentro de la transacción del orquestador
// de ventas; este adaptador nunca abre ni confirma transacciones.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// CreateHeader inserta la cabecera de la venta y devuelve su ID.
func (r *SaleRepo) CreateHeader(sale *entity.Sale) (int64, error) {
	query := `
		INSERT INTO ventas (usuarios_id, ventas_total, ventas_fecha, cliente_nombre, observaciones)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ventas_id`
	var id int64
	err := r.q.QueryRow(context.Background(), query,
		sale.UserID, sale.Total, sale.Date, sale.CustomerName, sale.Observations,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert venta: %w", err)
	}
	return id, nil
}

// CreateLine inserta una línea de detalle de la venta.
func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	query := `
		INSERT INTO ventas_detalle (ventas_id, productos_id, detalle_cantidad, detalle_precio_unitario, detalle_subtotal)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		line.SaleID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert detalle venta: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta. Devuelve (nil, nil) si no existe.
func (r *SaleRepo) GetByID(id int64) (*entity.Sale, error) {
	query := `
		SELECT ventas_id, usuarios_id, ventas_total, ventas_fecha, cliente_nombre, observaciones
		FROM ventas WHERE ventas_id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.UserID, &s.Total, &s.Date, &s.CustomerName, &s.Observations,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	return &s, nil
}

// ListLines lista las líneas de detalle de una venta en orden de inserción.
func (r *SaleRepo) ListLines(saleID int64) ([]*entity.SaleLine, error) {
	query := `
		SELECT detalle_id, ventas_id, productos_id, detalle_cantidad, detalle_precio_unitario, detalle_subtotal
		FROM ventas_detalle WHERE ventas_id = $1 ORDER BY detalle_id ASC`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list detalle venta: %w", err)
	}
	defer rows.Close()

	var lines []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan detalle venta: %w", err)
		}
		lines = append(lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar detalle venta: %w", err)
	}
	return lines, nil
}
