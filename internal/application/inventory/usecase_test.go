package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puntoventa/kardex-api/internal/application/apptest"
	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/application/inventory"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
	"github.com/puntoventa/kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testUserID int64 = 7

func newLedger(t *testing.T) (*inventory.StockLedgerService, *apptest.Store, *apptest.AuditRecorder) {
	t.Helper()
	store := apptest.NewStore()
	audit := &apptest.AuditRecorder{}
	svc := inventory.NewStockLedgerService(apptest.NewTxRunner(store), store.MovementRepo(), audit)
	return svc, store, audit
}

func seedProduct(store *apptest.Store, name string, stock int64) int64 {
	return store.SeedProduct(entity.Product{
		Name:   name,
		Unit:   entity.UnitUND,
		Price:  decimal.NewFromFloat(10.50),
		Stock:  decimal.NewFromInt(stock),
		Active: true,
	})
}

func entrada(productID, qty int64) dto.RegisterMovementRequest {
	return dto.RegisterMovementRequest{
		ProductID: productID,
		Type:      entity.MovementTypeEntrada,
		Quantity:  decimal.NewFromInt(qty),
		Motive:    "Compra a proveedor",
	}
}

func salida(productID, qty int64) dto.RegisterMovementRequest {
	return dto.RegisterMovementRequest{
		ProductID: productID,
		Type:      entity.MovementTypeSalida,
		Quantity:  decimal.NewFromInt(qty),
		Motive:    "Merma por vencimiento",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

// Una ENTRADA suma al stock y el asiento guarda la foto del stock resultante.
func TestRegisterMovement_EntradaSumaStock(t *testing.T) {
	svc, store, audit := newLedger(t)
	productID := seedProduct(store, "Arroz Diana 500g", 10)

	id, err := svc.RegisterMovement(context.Background(), entrada(productID, 5), testUserID)
	require.NoError(t, err)
	require.Positive(t, id)

	product := store.Product(productID)
	assert.True(t, product.Stock.Equal(decimal.NewFromInt(15)), "stock esperado 15, fue %s", product.Stock)

	mov := store.Movement(id)
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementTypeEntrada, mov.Type)
	assert.True(t, mov.HistoricalStock.Equal(decimal.NewFromInt(15)))
	assert.True(t, mov.Active)
	assert.Equal(t, testUserID, mov.UserID)
	assert.True(t, audit.Has("success", "movimiento_registrado"))
}

// Una SALIDA resta del stock.
func TestRegisterMovement_SalidaRestaStock(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Aceite Premier 1L", 10)

	id, err := svc.RegisterMovement(context.Background(), salida(productID, 4), testUserID)
	require.NoError(t, err)

	assert.True(t, store.Product(productID).Stock.Equal(decimal.NewFromInt(6)))
	assert.True(t, store.Movement(id).HistoricalStock.Equal(decimal.NewFromInt(6)))
}

// SALIDA mayor al disponible: se rechaza con el detalle de disponible y
// solicitado, no se escribe nada y queda el evento de advertencia.
func TestRegisterMovement_SalidaStockInsuficiente(t *testing.T) {
	svc, store, audit := newLedger(t)
	productID := seedProduct(store, "Azúcar Manuelita 1kg", 3)

	_, err := svc.RegisterMovement(context.Background(), salida(productID, 5), testUserID)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(3)))
	assert.True(t, stockErr.Requested.Equal(decimal.NewFromInt(5)))

	assert.True(t, store.Product(productID).Stock.Equal(decimal.NewFromInt(3)), "el stock no debe cambiar")
	assert.Empty(t, store.Movements(), "no debe quedar ningún asiento")
	assert.True(t, audit.Has("warning", "intento_stock_negativo"))
}

// Sacar exactamente el stock disponible es válido: queda en cero.
func TestRegisterMovement_SalidaExacta(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Sal Refisal 500g", 5)

	_, err := svc.RegisterMovement(context.Background(), salida(productID, 5), testUserID)
	require.NoError(t, err)
	assert.True(t, store.Product(productID).Stock.IsZero())
}

func TestRegisterMovement_ProductoNoExiste(t *testing.T) {
	svc, _, _ := newLedger(t)
	_, err := svc.RegisterMovement(context.Background(), entrada(999, 5), testUserID)
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "producto", nfErr.Resource)
}

func TestRegisterMovement_ProductoInactivo(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := store.SeedProduct(entity.Product{
		Name:   "Producto descontinuado",
		Unit:   entity.UnitUND,
		Price:  decimal.NewFromInt(5),
		Stock:  decimal.NewFromInt(10),
		Active: false,
	})

	_, err := svc.RegisterMovement(context.Background(), entrada(productID, 5), testUserID)
	var bErr *domain.BusinessRuleError
	require.ErrorAs(t, err, &bErr)
}

// Dos movimientos consecutivos: el stock histórico refleja el acumulado.
func TestRegisterMovement_HistoricoAcumulado(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Café Sello Rojo 250g", 0)

	id1, err := svc.RegisterMovement(context.Background(), entrada(productID, 10), testUserID)
	require.NoError(t, err)
	id2, err := svc.RegisterMovement(context.Background(), entrada(productID, 5), testUserID)
	require.NoError(t, err)

	assert.True(t, store.Movement(id1).HistoricalStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, store.Movement(id2).HistoricalStock.Equal(decimal.NewFromInt(15)))
	assert.True(t, store.Product(productID).Stock.Equal(decimal.NewFromInt(15)))
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateMovement
// ──────────────────────────────────────────────────────────────────────────────

// Cambiar la cantidad de una ENTRADA revierte la original, aplica la nueva y
// el stock final es la suma del historial corregido.
func TestUpdateMovement_CambioCantidad(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Lenteja La Abuela 500g", 0)

	id, err := svc.RegisterMovement(context.Background(), entrada(productID, 10), testUserID)
	require.NoError(t, err)

	newQty := decimal.NewFromInt(4)
	err = svc.UpdateMovement(context.Background(), id, dto.UpdateMovementRequest{Quantity: &newQty})
	require.NoError(t, err)

	assert.True(t, store.Product(productID).Stock.Equal(decimal.NewFromInt(4)))
	assert.True(t, store.Movement(id).Quantity.Equal(newQty))
}

// Cambiar una ENTRADA a SALIDA cuando el stock restante no alcanza debe
// fallar y dejar todo intacto.
func TestUpdateMovement_EntradaASalidaSinStock(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Harina Haz de Oros 1kg", 0)

	id, err := svc.RegisterMovement(context.Background(), entrada(productID, 10), testUserID)
	require.NoError(t, err)

	// Revertir la ENTRADA deja el stock en 0; aplicar SALIDA 10 lo dejaría en -10.
	tipo := entity.MovementTypeSalida
	err = svc.UpdateMovement(context.Background(), id, dto.UpdateMovementRequest{Type: &tipo})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, store.Product(productID).Stock.Equal(decimal.NewFromInt(10)), "rollback: stock intacto")
	assert.Equal(t, entity.MovementTypeEntrada, store.Movement(id).Type, "rollback: tipo intacto")
}

// Un parche que no toca tipo ni cantidad no debe recalcular el stock.
func TestUpdateMovement_SoloMotivoNoTocaStock(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Panela El Trapiche", 0)

	id, err := svc.RegisterMovement(context.Background(), entrada(productID, 8), testUserID)
	require.NoError(t, err)

	motivo := "Ajuste de inventario"
	require.NoError(t, svc.UpdateMovement(context.Background(), id, dto.UpdateMovementRequest{Motive: &motivo}))

	assert.True(t, store.Product(productID).Stock.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, motivo, store.Movement(id).Motive)
}

func TestUpdateMovement_NoExiste(t *testing.T) {
	svc, _, _ := newLedger(t)
	motivo := "Ajuste"
	err := svc.UpdateMovement(context.Background(), 404, dto.UpdateMovementRequest{Motive: &motivo})
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

// ──────────────────────────────────────────────────────────────────────────────
// SoftDeleteMovement
// ──────────────────────────────────────────────────────────────────────────────

// Eliminar una ENTRADA revierte su efecto: el stock vuelve a la suma del
// historial sin ese asiento, y el asiento queda inactivo pero no desaparece.
func TestSoftDeleteMovement_RevierteEntrada(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Frijol Cargamanto 500g", 0)

	id1, err := svc.RegisterMovement(context.Background(), entrada(productID, 10), testUserID)
	require.NoError(t, err)
	_, err = svc.RegisterMovement(context.Background(), entrada(productID, 5), testUserID)
	require.NoError(t, err)

	require.NoError(t, svc.SoftDeleteMovement(context.Background(), id1))

	assert.True(t, store.Product(productID).Stock.Equal(decimal.NewFromInt(5)))
	mov := store.Movement(id1)
	require.NotNil(t, mov, "el asiento permanece en la bitácora")
	assert.False(t, mov.Active)
}

// Eliminar la ENTRADA que sostiene el stock consumido dejaría el stock
// negativo: se rechaza.
func TestSoftDeleteMovement_ReversionDejariaNegativo(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Pasta Doria 500g", 0)

	idEntrada, err := svc.RegisterMovement(context.Background(), entrada(productID, 10), testUserID)
	require.NoError(t, err)
	_, err = svc.RegisterMovement(context.Background(), salida(productID, 8), testUserID)
	require.NoError(t, err)

	err = svc.SoftDeleteMovement(context.Background(), idEntrada)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, store.Movement(idEntrada).Active, "el asiento sigue activo")
	assert.True(t, store.Product(productID).Stock.Equal(decimal.NewFromInt(2)))
}

// Eliminar dos veces es una violación de regla, no un not found.
func TestSoftDeleteMovement_DobleEliminacion(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Chocolate Corona 250g", 0)

	id, err := svc.RegisterMovement(context.Background(), entrada(productID, 3), testUserID)
	require.NoError(t, err)
	require.NoError(t, svc.SoftDeleteMovement(context.Background(), id))

	err = svc.SoftDeleteMovement(context.Background(), id)
	var bErr *domain.BusinessRuleError
	require.ErrorAs(t, err, &bErr)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListKardex_FiltraEliminadosYPorTipo(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Galletas Festival", 0)

	_, err := svc.RegisterMovement(context.Background(), entrada(productID, 10), testUserID)
	require.NoError(t, err)
	idSalida, err := svc.RegisterMovement(context.Background(), salida(productID, 2), testUserID)
	require.NoError(t, err)
	require.NoError(t, svc.SoftDeleteMovement(context.Background(), idSalida))

	// El asiento eliminado no aparece en el historial.
	entries, err := svc.ListKardex(context.Background(), repository.KardexFilter{ProductID: productID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.MovementTypeEntrada, entries[0].Type)
	assert.Equal(t, "Galletas Festival", entries[0].ProductName)

	soloSalidas, err := svc.ListKardex(context.Background(), repository.KardexFilter{Type: entity.MovementTypeSalida})
	require.NoError(t, err)
	assert.Empty(t, soloSalidas)
}

func TestGetMovement_EliminadoEsNotFound(t *testing.T) {
	svc, store, _ := newLedger(t)
	productID := seedProduct(store, "Avena Quaker 400g", 0)

	id, err := svc.RegisterMovement(context.Background(), entrada(productID, 3), testUserID)
	require.NoError(t, err)
	require.NoError(t, svc.SoftDeleteMovement(context.Background(), id))

	_, err = svc.GetMovement(context.Background(), id)
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}
