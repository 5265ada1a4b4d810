package sales_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puntoventa/kardex-api/internal/application/apptest"
	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/application/inventory"
	"github.com/puntoventa/kardex-api/internal/application/sales"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
)

const testUserID int64 = 3

// newSaleUC arma el orquestador de ventas con el motor de kardex real y los
// repos en memoria: la composición completa, igual que en main.
func newSaleUC(t *testing.T) (*sales.RegisterSaleUseCase, *apptest.Store, *apptest.AuditRecorder) {
	t.Helper()
	store := apptest.NewStore()
	audit := &apptest.AuditRecorder{}
	runner := apptest.NewTxRunner(store)
	ledger := inventory.NewStockLedgerService(runner, store.MovementRepo(), audit)
	uc := sales.NewRegisterSaleUseCase(runner, ledger, store.ProductRepo(), store.SaleRepo(), audit)
	return uc, store, audit
}

func seed(store *apptest.Store, name string, price float64, stock int64) int64 {
	return store.SeedProduct(entity.Product{
		Name:   name,
		Unit:   entity.UnitUND,
		Price:  decimal.NewFromFloat(price),
		Stock:  decimal.NewFromInt(stock),
		Active: true,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Venta feliz
// ──────────────────────────────────────────────────────────────────────────────

// Venta de dos líneas: cabecera, detalle y una SALIDA por línea con el motivo
// "VENTA #<id>"; el total sale de los precios registrados, no de los enviados.
func TestRegisterSale_DosLineas(t *testing.T) {
	uc, store, audit := newSaleUC(t)
	arrozID := seed(store, "Arroz Diana 500g", 10.00, 10)
	aceiteID := seed(store, "Aceite Premier 1L", 5.00, 8)

	saleID, err := uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: arrozID, Quantity: decimal.NewFromInt(2), Price: decimal.NewFromFloat(10.00)},
			{ProductID: aceiteID, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromFloat(5.00)},
		},
		CustomerName: "Cliente de mostrador",
	}, testUserID)
	require.NoError(t, err)
	require.Positive(t, saleID)

	sale := store.Sale(saleID)
	require.NotNil(t, sale)
	assert.True(t, sale.Total.Equal(decimal.NewFromFloat(25.00)), "total esperado 25.00, fue %s", sale.Total)
	assert.Equal(t, testUserID, sale.UserID)

	lines := store.SaleLines(saleID)
	require.Len(t, lines, 2)

	// Stock descontado y una SALIDA por línea con motivo y comentario fijos.
	assert.True(t, store.Product(arrozID).Stock.Equal(decimal.NewFromInt(8)))
	assert.True(t, store.Product(aceiteID).Stock.Equal(decimal.NewFromInt(7)))

	movs := store.Movements()
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeSalida, m.Type)
		assert.Equal(t, fmt.Sprintf("VENTA #%d", saleID), m.Motive)
		assert.Equal(t, "Salida automática por punto de venta", m.Comment)
	}
	assert.True(t, audit.Has("success", "venta_registrada"))
}

// El subtotal se calcula siempre con el precio registrado: un precio enviado
// dentro de la tolerancia no altera el total.
func TestRegisterSale_PrecioAutoritativo(t *testing.T) {
	uc, store, _ := newSaleUC(t)
	id := seed(store, "Azúcar Manuelita 1kg", 4.00, 10)

	saleID, err := uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			// 4.005 está dentro de la tolerancia de 0.01 pero no es el precio real
			{ProductID: id, Quantity: decimal.NewFromInt(3), Price: decimal.NewFromFloat(4.005)},
		},
	}, testUserID)
	require.NoError(t, err)
	assert.True(t, store.Sale(saleID).Total.Equal(decimal.NewFromFloat(12.00)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazos
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterSale_SinUsuario(t *testing.T) {
	uc, store, _ := newSaleUC(t)
	id := seed(store, "Sal Refisal 500g", 1.00, 10)

	_, err := uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: id, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)}},
	}, 0)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

// Precio fuera de la tolerancia: se rechaza como manipulación y queda el
// evento de advertencia con ambos precios.
func TestRegisterSale_PrecioManipulado(t *testing.T) {
	uc, store, audit := newSaleUC(t)
	id := seed(store, "Café Sello Rojo 250g", 12.00, 10)

	_, err := uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: id, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromFloat(1.00)}},
	}, testUserID)

	var priceErr *domain.PriceMismatchError
	require.ErrorAs(t, err, &priceErr)
	assert.True(t, priceErr.Current.Equal(decimal.NewFromFloat(12.00)))
	assert.True(t, audit.Has("warning", "intento_precio_manipulado"))
	assert.Zero(t, store.SaleCount())
}

// La segunda línea sin stock rechaza la venta completa antes de abrir la
// transacción: ni cabecera, ni líneas, ni movimientos.
func TestRegisterSale_StockInsuficienteEnSegundaLinea(t *testing.T) {
	uc, store, _ := newSaleUC(t)
	conStockID := seed(store, "Pasta Doria 500g", 3.00, 10)
	sinStockID := seed(store, "Atún Van Camps", 8.00, 1)

	_, err := uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: conStockID, Quantity: decimal.NewFromInt(2), Price: decimal.NewFromFloat(3.00)},
			{ProductID: sinStockID, Quantity: decimal.NewFromInt(5), Price: decimal.NewFromFloat(8.00)},
		},
	}, testUserID)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Zero(t, store.SaleCount())
	assert.Empty(t, store.Movements())
	assert.True(t, store.Product(conStockID).Stock.Equal(decimal.NewFromInt(10)), "primera línea sin efecto")
}

func TestRegisterSale_ProductoInactivo(t *testing.T) {
	uc, store, _ := newSaleUC(t)
	id := store.SeedProduct(entity.Product{
		Name:   "Producto retirado",
		Unit:   entity.UnitUND,
		Price:  decimal.NewFromInt(5),
		Stock:  decimal.NewFromInt(10),
		Active: false,
	})

	_, err := uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: id, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(5)}},
	}, testUserID)
	var bErr *domain.BusinessRuleError
	require.ErrorAs(t, err, &bErr)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad
// ──────────────────────────────────────────────────────────────────────────────

// Si la persistencia falla a mitad de la transacción (línea 2), el rollback
// deja todo como estaba: stock, ventas y movimientos.
func TestRegisterSale_RollbackTotal(t *testing.T) {
	uc, store, audit := newSaleUC(t)
	aID := seed(store, "Leche Alquería 1L", 2.00, 10)
	bID := seed(store, "Pan Bimbo Grande", 4.00, 10)
	store.FailSaleLine = 2

	_, err := uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: aID, Quantity: decimal.NewFromInt(3), Price: decimal.NewFromFloat(2.00)},
			{ProductID: bID, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromFloat(4.00)},
		},
	}, testUserID)

	require.ErrorIs(t, err, apptest.ErrLineInjected)
	assert.Zero(t, store.SaleCount(), "la cabecera no debe sobrevivir al rollback")
	assert.Empty(t, store.Movements(), "ninguna SALIDA debe sobrevivir al rollback")
	assert.True(t, store.Product(aID).Stock.Equal(decimal.NewFromInt(10)), "stock de la línea 1 restaurado")
	assert.True(t, audit.Has("failure", "venta_fallida"))
}

// ──────────────────────────────────────────────────────────────────────────────
// GetSale
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSale_ConDetalle(t *testing.T) {
	uc, store, _ := newSaleUC(t)
	id := seed(store, "Arroz Diana 500g", 10.00, 10)

	saleID, err := uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: id, Quantity: decimal.NewFromInt(2), Price: decimal.NewFromFloat(10.00)}},
	}, testUserID)
	require.NoError(t, err)

	sale, err := uc.GetSale(context.Background(), saleID)
	require.NoError(t, err)
	require.Len(t, sale.Lines, 1)
	assert.True(t, sale.Lines[0].Subtotal.Equal(decimal.NewFromFloat(20.00)))
}

func TestGetSale_NoExiste(t *testing.T) {
	uc, _, _ := newSaleUC(t)
	_, err := uc.GetSale(context.Background(), 404)
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}
