package audit

import (
	"github.com/google/uuid"

	"github.com/puntoventa/kardex-api/internal/application/ports"
	"github.com/puntoventa/kardex-api/pkg/logger"
)

var _ ports.AuditLogger = (*Auditor)(nil)

// Auditor registra eventos de negocio (ventas, movimientos, intentos
// rechazados) como log estructurado. Cada evento lleva un ID propio para
// poder correlacionarlo después.
type Auditor struct {
	log *logger.Logger
}

// NewAuditor construye el auditor sobre el logger de la app.
func NewAuditor(log *logger.Logger) *Auditor {
	return &Auditor{log: log}
}

// Success registra un evento de negocio completado.
func (a *Auditor) Success(event string, fields map[string]any) {
	a.log.Info().
		Str("audit_id", uuid.NewString()).
		Str("evento", event).
		Fields(fields).
		Msg("auditoría")
}

// Warning registra un intento rechazado por reglas de negocio
// (stock insuficiente, precio manipulado).
func (a *Auditor) Warning(event string, fields map[string]any) {
	a.log.Warn().
		Str("audit_id", uuid.NewString()).
		Str("evento", event).
		Fields(fields).
		Msg("auditoría")
}

// Failure registra una operación de negocio que terminó en error.
func (a *Auditor) Failure(event string, err error, fields map[string]any) {
	a.log.Error().
		Str("audit_id", uuid.NewString()).
		Str("evento", event).
		Err(err).
		Fields(fields).
		Msg("auditoría")
}
