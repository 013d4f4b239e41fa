package dto

import "time"

// DateLayout formato de fechas en la API (el front pinta fechas planas, sin hora).
const DateLayout = "2006-01-02"

// FormatDate serializa una fecha al formato de la API.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDatePtr serializa una fecha opcional; nil -> cadena vacía (préstamo aún abierto).
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ErrorResponse cuerpo de error HTTP. El front solo consume "error";
// "code" es para clientes programáticos.
type ErrorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// MetaResponse respuesta de GET /api/meta.
type MetaResponse struct {
	NeedBootstrapAdmin bool `json:"needBootstrapAdmin"`
}
