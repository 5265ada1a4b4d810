package ports

// AuditLogger colaborador externo de auditoría. Los casos de uso registran
// éxitos, rechazos por regla de negocio y fallas; nunca silencian un error
// por loguearlo. La implementación vive en infraestructura (zerolog).
type AuditLogger interface {
	Success(event string, fields map[string]any)
	Warning(event string, fields map[string]any)
	Failure(event string, err error, fields map[string]any)
}
