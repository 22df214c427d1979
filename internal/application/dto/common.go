package dto

import "math"

// Límites de paginación.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest paginación por offset para listados (page es 1-based).
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// DefaultPage aplica valores por defecto, recorta el límite y acota la página
// para que el offset no desborde.
func (p *PageRequest) DefaultPage() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Page > math.MaxInt/p.Limit {
		p.Page = math.MaxInt / p.Limit
	}
}

// Offset devuelve el desplazamiento correspondiente a la página (llamar después de DefaultPage).
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Count int `json:"count"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
