package dto

// TokenRequest credenciales de cliente de servicio (flujo de órdenes, consola de operación).
type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenResponse token emitido.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"` // segundos
	Role      string `json:"role"`
}
