package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
	"github.com/puntoventa/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL.
// La tabla movimientos es la bitácora del kardex: nunca se borra físicamente.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// psql builder con placeholders $1, $2, ... de PostgreSQL.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// kardexSelect proyección del historial con nombres resueltos vía JOIN.
const kardexSelect = `
	SELECT m.movimientos_id AS movement_id,
	       m.movimientos_fecha AS date,
	       m.productos_id AS product_id,
	       p.productos_nombre AS product_name,
	       p.productos_codigo AS product_code,
	       u.usuarios_nombre AS user_name,
	       m.movimientos_tipo AS type,
	       m.movimientos_cantidad AS quantity,
	       m.movimientos_stock_historico AS historical_stock,
	       m.movimientos_motivo AS motive,
	       m.movimientos_comentario AS comment
	FROM movimientos m
	INNER JOIN productos p ON m.productos_id = p.productos_id
	INNER JOIN usuarios u ON m.usuarios_id = u.usuarios_id`

// Create inserta un movimiento y devuelve su ID.
func (r *MovementRepo) Create(movement *entity.Movement) (int64, error) {
	query := `
		INSERT INTO movimientos (productos_id, usuarios_id, movimientos_tipo, movimientos_cantidad, movimientos_motivo, movimientos_comentario, movimientos_stock_historico, movimientos_fecha, movimientos_activo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING movimientos_id`
	var id int64
	err := r.q.QueryRow(context.Background(), query,
		movement.ProductID, movement.UserID, movement.Type, movement.Quantity,
		movement.Motive, movement.Comment, movement.HistoricalStock,
		movement.Date, movement.Active,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert movimiento: %w", err)
	}
	return id, nil
}

// GetByID obtiene un movimiento por ID. Devuelve (nil, nil) si no existe.
func (r *MovementRepo) GetByID(id int64) (*entity.Movement, error) {
	query := `
		SELECT movimientos_id, productos_id, usuarios_id, movimientos_tipo, movimientos_cantidad, movimientos_motivo, movimientos_comentario, movimientos_stock_historico, movimientos_fecha, movimientos_activo
		FROM movimientos WHERE movimientos_id = $1`
	var m entity.Movement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.UserID, &m.Type, &m.Quantity,
		&m.Motive, &m.Comment, &m.HistoricalStock, &m.Date, &m.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return &m, nil
}

// GetKardexEntry obtiene un movimiento activo con nombres de producto y
// usuario resueltos. Devuelve (nil, nil) si no existe o está eliminado.
func (r *MovementRepo) GetKardexEntry(id int64) (*repository.KardexEntry, error) {
	query := kardexSelect + `
	WHERE m.movimientos_id = $1 AND m.movimientos_activo = TRUE`
	var entry repository.KardexEntry
	err := pgxscan.Get(context.Background(), r.q, &entry, query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entrada kardex: %w", err)
	}
	return &entry, nil
}

// Update aplica un parche parcial: solo los campos presentes se escriben.
func (r *MovementRepo) Update(id int64, patch repository.MovementPatch) error {
	builder := psql.Update("movimientos").Where(squirrel.Eq{"movimientos_id": id})
	if patch.Type != nil {
		builder = builder.Set("movimientos_tipo", *patch.Type)
	}
	if patch.Quantity != nil {
		builder = builder.Set("movimientos_cantidad", *patch.Quantity)
	}
	if patch.Motive != nil {
		builder = builder.Set("movimientos_motivo", *patch.Motive)
	}
	if patch.Comment != nil {
		builder = builder.Set("movimientos_comentario", *patch.Comment)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build update movimiento: %w", err)
	}
	cmd, err := r.q.Exec(context.Background(), query, args...)
	if err != nil {
		return fmt.Errorf("update movimiento: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "movimiento", ID: id}
	}
	return nil
}

// SoftDelete baja lógica del movimiento. La fila queda en la bitácora.
func (r *MovementRepo) SoftDelete(id int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE movimientos SET movimientos_activo = FALSE WHERE movimientos_id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete movimiento: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "movimiento", ID: id}
	}
	return nil
}

// ListKardex lista el historial de movimientos activos, más recientes primero,
// con filtros opcionales por producto y tipo.
func (r *MovementRepo) ListKardex(filter repository.KardexFilter) ([]*repository.KardexEntry, error) {
	builder := psql.Select(
		"m.movimientos_id AS movement_id",
		"m.movimientos_fecha AS date",
		"m.productos_id AS product_id",
		"p.productos_nombre AS product_name",
		"p.productos_codigo AS product_code",
		"u.usuarios_nombre AS user_name",
		"m.movimientos_tipo AS type",
		"m.movimientos_cantidad AS quantity",
		"m.movimientos_stock_historico AS historical_stock",
		"m.movimientos_motivo AS motive",
		"m.movimientos_comentario AS comment",
	).
		From("movimientos m").
		Join("productos p ON m.productos_id = p.productos_id").
		Join("usuarios u ON m.usuarios_id = u.usuarios_id").
		Where(squirrel.Eq{"m.movimientos_activo": true}).
		OrderBy("m.movimientos_fecha DESC", "m.movimientos_id DESC")

	if filter.ProductID > 0 {
		builder = builder.Where(squirrel.Eq{"m.productos_id": filter.ProductID})
	}
	if filter.Type != "" {
		builder = builder.Where(squirrel.Eq{"m.movimientos_tipo": filter.Type})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list kardex: %w", err)
	}
	var entries []*repository.KardexEntry
	if err := pgxscan.Select(context.Background(), r.q, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list kardex: %w", err)
	}
	return entries, nil
}

// RecomputeProductStock recalcula el stock del producto desde su bitácora de
// movimientos activos (sum ENTRADA − sum SALIDA) y lo persiste en el maestro.
// Los movimientos eliminados no cuentan.
func (r *MovementRepo) RecomputeProductStock(productID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN movimientos_tipo = 'ENTRADA' THEN movimientos_cantidad
			     ELSE -movimientos_cantidad END
		), 0)
		FROM movimientos
		WHERE productos_id = $1 AND movimientos_activo = TRUE`
	var stock decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&stock); err != nil {
		return decimal.Zero, fmt.Errorf("recalcular stock: %w", err)
	}
	_, err := r.q.Exec(context.Background(),
		`UPDATE productos SET productos_stock = $2, updated_at = now() WHERE productos_id = $1`,
		productID, stock,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("persistir stock recalculado: %w", err)
	}
	return stock, nil
}
