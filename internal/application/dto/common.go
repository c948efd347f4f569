package dto

// ErrorResponse error uniforme del API: {error_code, message, details}.
// Nunca se filtra un stack trace al caller; el detalle interno va al log.
type ErrorResponse struct {
	Code    string         `json:"error_code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// PageResponse metadatos de paginación. Count es el tamaño de la página
// devuelta, no el total de filas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}
