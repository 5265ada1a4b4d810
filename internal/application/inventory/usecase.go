package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/application/ports"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
	"github.com/puntoventa/kardex-api/internal/domain/repository"
)

// StockLedgerService registra, edita y elimina (soft delete) movimientos del
// kardex de forma transaccional. Es el único dueño de la ruta de escritura del
// stock: ningún otro caso de uso escribe productos_stock directamente.
//
// RegisterMovement abre su propia transacción; RegisterMovementInTx participa
// en la transacción de un caller (punto de venta) sin autoridad de commit.
type StockLedgerService struct {
	txRunner     TxRunner
	movementRepo repository.MovementRepository
	audit        ports.AuditLogger
}

// NewStockLedgerService construye el servicio.
func NewStockLedgerService(txRunner TxRunner, movementRepo repository.MovementRepository, audit ports.AuditLogger) *StockLedgerService {
	return &StockLedgerService{txRunner: txRunner, movementRepo: movementRepo, audit: audit}
}

// RegisterMovement valida y registra un movimiento dentro de una transacción
// propia. Devuelve el ID del movimiento creado.
func (s *StockLedgerService) RegisterMovement(ctx context.Context, in dto.RegisterMovementRequest, userID int64) (int64, error) {
	if err := ValidateMovement(in); err != nil {
		return 0, err
	}
	var id int64
	err := s.txRunner.Run(ctx, func(r TxRepos) error {
		var err error
		id, err = s.RegisterMovementInTx(r, in, userID)
		return err
	})
	if err != nil {
		s.audit.Failure("movimiento_rechazado", err, map[string]any{
			"producto_id": in.ProductID,
			"tipo":        in.Type,
			"usuario_id":  userID,
		})
		return 0, err
	}
	return id, nil
}

// RegisterMovementInTx ejecuta la lógica de un movimiento usando los
// repositorios de la transacción del caller (transacción compartida). No hace
// Begin, Commit ni Rollback: cualquier error se propaga intacto y el dueño de
// la transacción decide revertir.
//
// Bloquea la fila del producto (SELECT FOR UPDATE) antes del cálculo de stock
// para que dos escrituras concurrentes sobre el mismo producto se serialicen y
// el invariante de stock nunca negativo se sostenga bajo concurrencia.
func (s *StockLedgerService) RegisterMovementInTx(r TxRepos, in dto.RegisterMovementRequest, userID int64) (int64, error) {
	product, err := r.Products.GetForUpdate(in.ProductID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, &domain.NotFoundError{Resource: "producto", ID: in.ProductID}
	}
	if !product.Active {
		return 0, &domain.BusinessRuleError{Message: "no se pueden realizar movimientos en un producto inactivo"}
	}

	var newStock decimal.Decimal
	switch in.Type {
	case entity.MovementTypeEntrada:
		newStock = product.Stock.Add(in.Quantity)
	case entity.MovementTypeSalida:
		if product.Stock.LessThan(in.Quantity) {
			s.audit.Warning("intento_stock_negativo", map[string]any{
				"producto":     product.Name,
				"stock_actual": product.Stock.String(),
				"solicitado":   in.Quantity.String(),
				"usuario_id":   userID,
			})
			return 0, &domain.InsufficientStockError{
				Product:   product.Name,
				Available: product.Stock,
				Requested: in.Quantity,
			}
		}
		newStock = product.Stock.Sub(in.Quantity)
	default:
		return 0, &domain.ValidationError{Field: "movement_type", Message: "debe ser 'ENTRADA' o 'SALIDA'"}
	}

	// Actualiza el maestro de productos y guarda el asiento con la foto del
	// stock resultante (stock histórico) en la misma transacción.
	if err := r.Products.UpdateStock(product.ID, newStock); err != nil {
		return 0, err
	}
	mov := &entity.Movement{
		ProductID:       product.ID,
		UserID:          userID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		Motive:          strings.TrimSpace(in.Motive),
		Comment:         strings.TrimSpace(in.Comment),
		HistoricalStock: newStock,
		Date:            time.Now(),
		Active:          true,
	}
	id, err := r.Movements.Create(mov)
	if err != nil {
		return 0, err
	}

	s.audit.Success("movimiento_registrado", map[string]any{
		"id_movimiento": id,
		"tipo":          in.Type,
		"producto":      product.Name,
		"usuario_id":    userID,
		"stock_nuevo":   newStock.String(),
	})
	return id, nil
}

// UpdateMovement actualiza un movimiento existente. Si el parche toca tipo o
// cantidad, revierte el efecto del movimiento original sobre el stock y aplica
// el nuevo antes de validar que no quede negativo; luego recalcula el stock
// del producto desde el historial completo para garantizar el invariante de
// suma del kardex incluso ante ediciones concurrentes. Todo o nada.
func (s *StockLedgerService) UpdateMovement(ctx context.Context, movementID int64, in dto.UpdateMovementRequest) error {
	if movementID <= 0 {
		return &domain.ValidationError{Field: "id", Message: "ID de movimiento inválido"}
	}
	if err := ValidateMovementPatch(in); err != nil {
		return err
	}

	// Verificar existencia antes de abrir la transacción.
	current, err := s.movementRepo.GetByID(movementID)
	if err != nil {
		return err
	}
	if current == nil {
		return &domain.NotFoundError{Resource: "movimiento", ID: movementID}
	}

	err = s.txRunner.Run(ctx, func(r TxRepos) error {
		patch := repository.MovementPatch{
			Type:     in.Type,
			Quantity: in.Quantity,
			Motive:   in.Motive,
			Comment:  in.Comment,
		}
		if patch.TouchesStock() {
			product, err := r.Products.GetForUpdate(current.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return &domain.NotFoundError{Resource: "producto", ID: current.ProductID}
			}

			newType := current.Type
			if in.Type != nil {
				newType = *in.Type
			}
			newQty := current.Quantity
			if in.Quantity != nil {
				newQty = *in.Quantity
			}

			// Revertir el movimiento actual y aplicar el nuevo sobre el
			// stock vigente.
			temp := product.Stock
			if current.Type == entity.MovementTypeEntrada {
				temp = temp.Sub(current.Quantity)
			} else {
				temp = temp.Add(current.Quantity)
			}
			var newStock decimal.Decimal
			if newType == entity.MovementTypeEntrada {
				newStock = temp.Add(newQty)
			} else {
				newStock = temp.Sub(newQty)
			}
			if newStock.IsNegative() {
				return &domain.InsufficientStockError{
					Product:   product.Name,
					Available: temp,
					Requested: newQty,
				}
			}
		}

		if err := r.Movements.Update(movementID, patch); err != nil {
			return err
		}
		if patch.TouchesStock() {
			if _, err := r.Movements.RecomputeProductStock(current.ProductID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.audit.Failure("movimiento_actualizacion_fallida", err, map[string]any{
			"movimiento_id": movementID,
		})
		return err
	}

	s.audit.Success("movimiento_actualizado", map[string]any{
		"movimiento_id": movementID,
		"producto_id":   current.ProductID,
	})
	return nil
}

// SoftDeleteMovement marca un movimiento como inactivo y revierte su efecto
// sobre el stock (resta si era ENTRADA, suma si era SALIDA). Falla si la
// reversión dejaría el stock negativo. Transaccional, todo o nada.
func (s *StockLedgerService) SoftDeleteMovement(ctx context.Context, movementID int64) error {
	if movementID <= 0 {
		return &domain.ValidationError{Field: "id", Message: "ID de movimiento inválido"}
	}
	current, err := s.movementRepo.GetByID(movementID)
	if err != nil {
		return err
	}
	if current == nil {
		return &domain.NotFoundError{Resource: "movimiento", ID: movementID}
	}
	if !current.Active {
		return &domain.BusinessRuleError{Message: "el movimiento ya está eliminado"}
	}

	err = s.txRunner.Run(ctx, func(r TxRepos) error {
		product, err := r.Products.GetForUpdate(current.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.NotFoundError{Resource: "producto", ID: current.ProductID}
		}

		var newStock decimal.Decimal
		if current.Type == entity.MovementTypeEntrada {
			newStock = product.Stock.Sub(current.Quantity)
		} else {
			newStock = product.Stock.Add(current.Quantity)
		}
		if newStock.IsNegative() {
			return &domain.InsufficientStockError{
				Product:   product.Name,
				Available: product.Stock,
				Requested: current.Quantity,
			}
		}

		if err := r.Movements.SoftDelete(movementID); err != nil {
			return err
		}
		_, err = r.Movements.RecomputeProductStock(current.ProductID)
		return err
	})
	if err != nil {
		s.audit.Failure("movimiento_eliminacion_fallida", err, map[string]any{
			"movimiento_id": movementID,
		})
		return err
	}

	s.audit.Success("movimiento_eliminado", map[string]any{
		"movimiento_id": movementID,
		"producto_id":   current.ProductID,
		"tipo":          current.Type,
		"cantidad":      current.Quantity.String(),
	})
	return nil
}

// ListKardex devuelve el historial de movimientos activos con nombres de
// producto y usuario resueltos, más reciente primero.
func (s *StockLedgerService) ListKardex(ctx context.Context, filter repository.KardexFilter) ([]*repository.KardexEntry, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.movementRepo.ListKardex(filter)
}

// GetMovement devuelve un movimiento por ID con nombres resueltos.
func (s *StockLedgerService) GetMovement(ctx context.Context, movementID int64) (*repository.KardexEntry, error) {
	if movementID <= 0 {
		return nil, &domain.ValidationError{Field: "id", Message: "ID de movimiento inválido. Debe ser un número positivo"}
	}
	entry, err := s.movementRepo.GetKardexEntry(movementID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, &domain.NotFoundError{Resource: "movimiento", ID: movementID}
	}
	return entry, nil
}
