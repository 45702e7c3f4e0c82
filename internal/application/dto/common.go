package dto

// ErrorResponse cuerpo de error HTTP. El cliente remoto solo lee Message.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AckResponse confirmación genérica de escritura.
type AckResponse struct {
	OK bool `json:"ok"`
}
