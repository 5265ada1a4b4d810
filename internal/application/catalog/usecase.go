package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/application/inventory"
	"github.com/puntoventa/kardex-api/internal/application/ports"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
	"github.com/puntoventa/kardex-api/internal/domain/repository"
	"github.com/puntoventa/kardex-api/pkg/normalize"
)

// StockLedger es la porción del motor de kardex que el catálogo necesita para
// asentar el stock inicial como ENTRADA dentro de la transacción de creación.
type StockLedger interface {
	RegisterMovementInTx(r inventory.TxRepos, in dto.RegisterMovementRequest, userID int64) (int64, error)
}

// ProductUseCase gestión del catálogo de productos. El stock nunca se escribe
// por esta vía: el alta con stock inicial genera un movimiento ENTRADA en la
// misma transacción, y la edición de producto no toca el stock.
type ProductUseCase struct {
	txRunner    inventory.TxRunner
	ledger      StockLedger
	productRepo repository.ProductRepository
	audit       ports.AuditLogger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, ledger StockLedger, productRepo repository.ProductRepository, audit ports.AuditLogger) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, ledger: ledger, productRepo: productRepo, audit: audit}
}

// Create crea un producto. Si trae stock inicial > 0, registra una ENTRADA
// "Stock inicial" en la misma transacción para que el stock siga siendo la
// suma de su kardex desde el primer día.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, userID int64) (int64, error) {
	if err := ValidateProduct(in); err != nil {
		return 0, err
	}
	name := strings.TrimSpace(in.Name)
	exists, err := uc.productRepo.ExistsByName(name, 0)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, &domain.BusinessRuleError{Message: fmt.Sprintf("ya existe un producto con el nombre '%s'", name)}
	}

	unit := in.Unit
	if unit == "" {
		unit = entity.UnitUND
	}
	now := time.Now()
	product := &entity.Product{
		Name:      name,
		Code:      strings.TrimSpace(in.Code),
		Unit:      unit,
		Price:     *in.Price,
		Stock:     decimal.Zero,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var productID int64
	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		var err error
		productID, err = r.Products.Create(product)
		if err != nil {
			return err
		}
		if in.Stock != nil && in.Stock.GreaterThan(decimal.Zero) {
			_, err = uc.ledger.RegisterMovementInTx(r, dto.RegisterMovementRequest{
				ProductID: productID,
				Type:      entity.MovementTypeEntrada,
				Quantity:  *in.Stock,
				Motive:    "Stock inicial",
				Comment:   "Carga inicial de inventario",
			}, userID)
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	uc.audit.Success("producto_creado", map[string]any{
		"producto_id": productID,
		"nombre":      name,
		"precio":      in.Price.String(),
	})
	return productID, nil
}

// Update actualiza nombre, código, unidad o precio de un producto.
func (uc *ProductUseCase) Update(ctx context.Context, productID int64, in dto.UpdateProductRequest) error {
	if productID <= 0 {
		return &domain.ValidationError{Field: "id", Message: "ID de producto inválido"}
	}
	if err := ValidateProductPatch(in); err != nil {
		return err
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return &domain.NotFoundError{Resource: "producto", ID: productID}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		exists, err := uc.productRepo.ExistsByName(name, productID)
		if err != nil {
			return err
		}
		if exists {
			return &domain.BusinessRuleError{Message: fmt.Sprintf("ya existe otro producto con el nombre '%s'", name)}
		}
		product.Name = name
	}
	if in.Code != nil {
		product.Code = strings.TrimSpace(*in.Code)
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return err
	}
	uc.audit.Success("producto_actualizado", map[string]any{"producto_id": productID})
	return nil
}

// Get devuelve un producto por ID.
func (uc *ProductUseCase) Get(ctx context.Context, productID int64) (*dto.ProductResponse, error) {
	if productID <= 0 {
		return nil, &domain.ValidationError{Field: "id", Message: "ID de producto inválido"}
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: productID}
	}
	return toProductResponse(product), nil
}

// List devuelve los productos activos paginados.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// Search busca productos por nombre, insensible a mayúsculas y tildes.
func (uc *ProductUseCase) Search(ctx context.Context, query string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return uc.List(ctx, page)
	}
	page.DefaultPage()
	products, err := uc.productRepo.Search(normalize.Fold(query), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// Deactivate desactiva un producto (soft delete). Un producto inactivo no
// admite movimientos ni ventas, pero su historial de kardex se conserva.
func (uc *ProductUseCase) Deactivate(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return &domain.ValidationError{Field: "id", Message: "ID de producto inválido"}
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return &domain.NotFoundError{Resource: "producto", ID: productID}
	}
	if !product.Active {
		return &domain.BusinessRuleError{Message: "el producto ya está inactivo"}
	}
	if err := uc.productRepo.Deactivate(productID); err != nil {
		return err
	}
	uc.audit.Success("producto_desactivado", map[string]any{"producto_id": productID})
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Code:      p.Code,
		Unit:      p.Unit,
		Price:     p.Price,
		Stock:     p.Stock,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductResponses(products []*entity.Product) []*dto.ProductResponse {
	out := make([]*dto.ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}
