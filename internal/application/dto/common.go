package dto

// Tipos de respuesta del sobre uniforme de la API. TipoWarning forma parte
// del contrato con el frontend aunque hoy ningún endpoint lo emite.
const (
	TipoSuccess = 1
	TipoWarning = 2
	TipoError   = 3
)

// Envelope estructura uniforme de todas las respuestas: { tipo, mensajes[], data }.
type Envelope struct {
	Tipo     int      `json:"tipo"`
	Mensajes []string `json:"mensajes"`
	Data     any      `json:"data"`
}

// Success construye un sobre exitoso.
func Success(data any, mensajes ...string) Envelope {
	if len(mensajes) == 0 {
		mensajes = []string{"Operación exitosa"}
	}
	return Envelope{Tipo: TipoSuccess, Mensajes: mensajes, Data: data}
}

// Error construye un sobre de error.
func Error(mensajes ...string) Envelope {
	if len(mensajes) == 0 {
		mensajes = []string{"Error en la operación"}
	}
	return Envelope{Tipo: TipoError, Mensajes: mensajes, Data: nil}
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
