package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
	"github.com/puntoventa/kardex-api/internal/domain/repository"
	"github.com/puntoventa/kardex-api/pkg/normalize"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `productos_id, productos_nombre, productos_codigo, productos_unidad, productos_precio, productos_stock, productos_activo, created_at, updated_at`

// Create persiste un nuevo producto y devuelve su ID. name_search guarda el
// nombre normalizado (minúsculas, sin acentos) para la búsqueda.
func (r *ProductRepo) Create(product *entity.Product) (int64, error) {
	query := `
		INSERT INTO productos (productos_nombre, productos_codigo, productos_unidad, productos_precio, productos_stock, name_search, productos_activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING productos_id`
	var id int64
	err := r.q.QueryRow(context.Background(), query,
		product.Name, product.Code, product.Unit, product.Price, product.Stock,
		normalize.Fold(product.Name), product.Active, product.CreatedAt, product.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, &domain.BusinessRuleError{Message: "ya existe un producto con ese nombre"}
		}
		return 0, fmt.Errorf("insert producto: %w", err)
	}
	return id, nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE productos_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get producto")
}

// GetForUpdate obtiene un producto bloqueando su fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción: serializa las escrituras
// concurrentes de stock sobre el mismo producto.
func (r *ProductRepo) GetForUpdate(id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE productos_id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "lock producto")
}

// ExistsByName verifica si ya existe otro producto activo con el mismo nombre
// normalizado. excludeID permite omitir el propio producto en actualizaciones.
func (r *ProductRepo) ExistsByName(name string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM productos
			WHERE name_search = $1 AND productos_activo = TRUE AND productos_id <> $2
		)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, normalize.Fold(name), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists producto por nombre: %w", err)
	}
	return exists, nil
}

// Update actualiza los datos maestros de un producto. No toca el stock:
// ese campo solo se modifica vía movimientos del kardex.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE productos
		SET productos_nombre = $2, productos_codigo = $3, productos_unidad = $4,
		    productos_precio = $5, name_search = $6, updated_at = $7
		WHERE productos_id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Code, product.Unit,
		product.Price, normalize.Fold(product.Name), product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.BusinessRuleError{Message: "ya existe un producto con ese nombre"}
		}
		return fmt.Errorf("update producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: product.ID}
	}
	return nil
}

// UpdateStock persiste el stock de un producto (usado por el motor de kardex,
// siempre dentro de una transacción con la fila bloqueada).
func (r *ProductRepo) UpdateStock(id int64, stock decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE productos SET productos_stock = $2, updated_at = now() WHERE productos_id = $1`,
		id, stock,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return nil
}

// List lista productos activos con paginación, los más recientes primero.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM productos WHERE productos_activo = TRUE
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// Search busca productos activos por nombre normalizado (subcadena, sin
// distinguir mayúsculas ni acentos). foldedName debe llegar ya normalizado.
func (r *ProductRepo) Search(foldedName string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM productos
		WHERE productos_activo = TRUE AND name_search LIKE '%' || $1 || '%'
		ORDER BY productos_nombre ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, foldedName, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search productos: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// Deactivate baja lógica del producto. Su historial de movimientos permanece.
func (r *ProductRepo) Deactivate(id int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE productos SET productos_activo = FALSE, updated_at = now() WHERE productos_id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deactivate producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Code, &p.Unit, &p.Price, &p.Stock,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (r *ProductRepo) scanMany(rows pgx.Rows) ([]*entity.Product, error) {
	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Code, &p.Unit, &p.Price, &p.Stock,
			&p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar productos: %w", err)
	}
	return products, nil
}
