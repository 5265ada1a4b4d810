package sales

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
)

// Comentario fijo de los movimientos generados por el punto de venta.
const posMovementComment = "Salida automática por punto de venta"

// StockLedger es la porción del motor de kardex que el orquestador de ventas
// necesita: registrar una salida dentro de la transacción que él mismo abrió.
// La implementa inventory.StockLedgerService.
type StockLedger interface {
	RegisterMovementInTx(r inventory.TxRepos, in dto.RegisterMovementRequest, userID int64) (int64, error)
}

// RegisterSaleUseCase orquesta una venta del punto de venta en dos fases:
// pre-validación de cada línea contra datos vivos (sin transacción abierta) y
// fase atómica (cabecera + detalles + una SALIDA por línea, en una sola
// transacción compartida con el motor de kardex).
type RegisterSaleUseCase struct {
	txRunner    inventory.TxRunner
	ledger      StockLedger
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	audit       ports.AuditLogger
}

// NewRegisterSaleUseCase construye el caso de uso.
func NewRegisterSaleUseCase(
	txRunner inventory.TxRunner,
	ledger StockLedger,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	audit ports.AuditLogger,
) *RegisterSaleUseCase {
	return &RegisterSaleUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		audit:       audit,
	}
}

// línea validada con el precio autoritativo de la BD.
type validatedLine struct {
	productID   int64
	productName string
	quantity    decimal.Decimal
	unitPrice   decimal.Decimal
	subtotal    decimal.Decimal
}

// RegisterSale registra una venta completa. Devuelve el ID de la venta.
//
// Fase 1 (sin transacción): por cada línea verifica existencia, estado activo,
// precio dentro de la tolerancia y stock suficiente, y recalcula el subtotal
// con el precio registrado, nunca con el enviado. Así no se abren
// transacciones condenadas a fallar.
//
// Fase 2 (atómica): una transacción para cabecera, detalles y una SALIDA por
// línea delegada al motor de kardex en modo transacción compartida. Cualquier
// error (incluido stock insuficiente si el stock cambió entre fases, que el
// bloqueo de fila detecta) revierte todo y se propaga.
func (uc *RegisterSaleUseCase) RegisterSale(ctx context.Context, in dto.RegisterSaleRequest, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, domain.ErrUnauthorized
	}
	if err := ValidateSale(in); err != nil {
		return 0, err
	}

	lines := make([]validatedLine, 0, len(in.Items))
	total := decimal.Zero
	for i, item := range in.Items {
		pos := i + 1
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return 0, err
		}
		if product == nil {
			return 0, &domain.NotFoundError{Resource: "producto", ID: item.ProductID}
		}
		if !product.Active {
			return 0, &domain.BusinessRuleError{
				Message: fmt.Sprintf("el producto '%s' está inactivo y no puede venderse (item #%d)", product.Name, pos),
			}
		}
		if item.Price.Sub(product.Price).Abs().GreaterThan(priceTolerance) {
			uc.audit.Warning("intento_precio_manipulado", map[string]any{
				"producto_id":    product.ID,
				"precio_real":    product.Price.String(),
				"precio_enviado": item.Price.String(),
				"usuario_id":     userID,
			})
			return 0, &domain.PriceMismatchError{
				Product:   product.Name,
				Submitted: item.Price,
				Current:   product.Price,
			}
		}
		if product.Stock.LessThan(item.Quantity) {
			return 0, &domain.InsufficientStockError{
				Product:   product.Name,
				Available: product.Stock,
				Requested: item.Quantity,
			}
		}

		subtotal := product.Price.Mul(item.Quantity).Round(2)
		total = total.Add(subtotal)
		lines = append(lines, validatedLine{
			productID:   product.ID,
			productName: product.Name,
			quantity:    item.Quantity,
			unitPrice:   product.Price,
			subtotal:    subtotal,
		})
	}

	if !total.GreaterThan(decimal.Zero) {
		return 0, &domain.InvalidTotalError{Total: total, Message: "el total de la venta debe ser mayor a 0"}
	}
	if total.GreaterThan(maxTotal) {
		return 0, &domain.InvalidTotalError{Total: total, Message: "el total de la venta excede el límite permitido"}
	}

	var saleID int64
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		sale := &entity.Sale{
			UserID:       userID,
			Total:        total,
			Date:         time.Now(),
			CustomerName: strings.TrimSpace(in.CustomerName),
			Observations: strings.TrimSpace(in.Observations),
		}
		var err error
		saleID, err = r.Sales.CreateHeader(sale)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := r.Sales.CreateLine(&entity.SaleLine{
				SaleID:    saleID,
				ProductID: line.productID,
				Quantity:  line.quantity,
				UnitPrice: line.unitPrice,
				Subtotal:  line.subtotal,
			}); err != nil {
				return err
			}
			// Salida automática por línea, en la transacción compartida: el
			// motor de kardex no hace commit ni rollback aquí.
			if _, err := uc.ledger.RegisterMovementInTx(r, dto.RegisterMovementRequest{
				ProductID: line.productID,
				Type:      entity.MovementTypeSalida,
				Quantity:  line.quantity,
				Motive:    fmt.Sprintf("VENTA #%d", saleID),
				Comment:   posMovementComment,
			}, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.audit.Failure("venta_fallida", err, map[string]any{
			"usuario_id":      userID,
			"total_intentado": total.String(),
			"items":           len(lines),
		})
		return 0, err
	}

	productNames := make([]string, len(lines))
	for i, line := range lines {
		productNames[i] = line.productName
	}
	uc.audit.Success("venta_registrada", map[string]any{
		"venta_id":   saleID,
		"usuario_id": userID,
		"total":      total.String(),
		"items":      len(lines),
		"productos":  productNames,
	})
	return saleID, nil
}

// GetSale devuelve una venta con sus líneas.
func (uc *RegisterSaleUseCase) GetSale(ctx context.Context, saleID int64) (*dto.SaleResponse, error) {
	if saleID <= 0 {
		return nil, &domain.ValidationError{Field: "id", Message: "ID de venta inválido"}
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, &domain.NotFoundError{Resource: "venta", ID: saleID}
	}
	lines, err := uc.saleRepo.ListLines(saleID)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleResponse{
		ID:           sale.ID,
		UserID:       sale.UserID,
		Total:        sale.Total,
		Date:         sale.Date,
		CustomerName: sale.CustomerName,
		Observations: sale.Observations,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return resp, nil
}
