package apptest

import (
	"sync"

	"github.com/puntoventa/kardex-api/internal/application/ports"
)

// AuditEvent evento capturado por el AuditRecorder.
type AuditEvent struct {
	Kind   string // "success", "warning", "failure"
	Name   string
	Err    error
	Fields map[string]any
}

// AuditRecorder implementa ports.AuditLogger guardando los eventos para que
// los tests puedan afirmar sobre ellos.
type AuditRecorder struct {
	mu     sync.Mutex
	Events []AuditEvent
}

var _ ports.AuditLogger = (*AuditRecorder)(nil)

func (a *AuditRecorder) Success(event string, fields map[string]any) {
	a.record(AuditEvent{Kind: "success", Name: event, Fields: fields})
}

func (a *AuditRecorder) Warning(event string, fields map[string]any) {
	a.record(AuditEvent{Kind: "warning", Name: event, Fields: fields})
}

func (a *AuditRecorder) Failure(event string, err error, fields map[string]any) {
	a.record(AuditEvent{Kind: "failure", Name: event, Err: err, Fields: fields})
}

func (a *AuditRecorder) record(e AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Events = append(a.Events, e)
}

// Has indica si se registró un evento con ese kind y nombre.
func (a *AuditRecorder) Has(kind, name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.Events {
		if e.Kind == kind && e.Name == name {
			return true
		}
	}
	return false
}
