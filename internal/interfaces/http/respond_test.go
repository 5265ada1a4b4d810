package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/pkg/logger"
)

// appConError arma una app con una ruta que siempre responde el error dado.
func appConError(err error) *fiber.App {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return respondError(c, log, err)
	})
	return app
}

func doGet(t *testing.T, app *fiber.App) (*http.Response, dto.Envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env dto.Envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return resp, env
}

// El mapeo error→status es por tipo de error, nunca por texto del mensaje.
func TestRespondError_MapeoDeTipos(t *testing.T) {
	d := decimal.NewFromInt(1)
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validación → 400", &domain.ValidationError{Field: "x", Message: "inválido"}, http.StatusBadRequest},
		{"total inválido → 400", &domain.InvalidTotalError{Total: d, Message: "fuera de rango"}, http.StatusBadRequest},
		{"no autorizado → 401", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"regla de negocio → 403", &domain.BusinessRuleError{Message: "prohibido"}, http.StatusForbidden},
		{"precio manipulado → 403", &domain.PriceMismatchError{Product: "Arroz", Submitted: d, Current: d}, http.StatusForbidden},
		{"no encontrado → 404", &domain.NotFoundError{Resource: "producto", ID: 9}, http.StatusNotFound},
		{"stock insuficiente → 409", &domain.InsufficientStockError{Product: "Arroz", Available: d, Requested: d}, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := doGet(t, appConError(tc.err))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, dto.TipoError, env.Tipo)
			require.NotEmpty(t, env.Mensajes)
		})
	}
}

// Un error no clasificado jamás filtra su detalle al cliente.
func TestRespondError_InternoGenerico(t *testing.T) {
	resp, env := doGet(t, appConError(assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Len(t, env.Mensajes, 1)
	assert.Equal(t, "Error interno del servidor", env.Mensajes[0])
	assert.NotContains(t, env.Mensajes[0], assert.AnError.Error())
}

// Los errores envueltos (fmt.Errorf %w en los repos) también se clasifican.
func TestRespondError_ErrorEnvuelto(t *testing.T) {
	wrapped := newWrapped(&domain.NotFoundError{Resource: "venta", ID: 3})
	resp, _ := doGet(t, appConError(wrapped))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type wrappedErr struct{ inner error }

func newWrapped(inner error) error  { return &wrappedErr{inner: inner} }
func (w *wrappedErr) Error() string { return "wrap: " + w.inner.Error() }
func (w *wrappedErr) Unwrap() error { return w.inner }
