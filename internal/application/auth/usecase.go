package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// Roles reconocidos por la API.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator" // bodega: ajustes, umbrales, alertas
	RoleWorkflow = "workflow" // servicios de órdenes: reservas y salidas
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase emite tokens para clientes de servicio (client credentials).
type AuthUseCase struct {
	clients map[string]config.ServiceClient
	jwtCfg  JWTConfig
	log     zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth. Rechaza roles desconocidos.
func NewAuthUseCase(clients []config.ServiceClient, jwtCfg JWTConfig, log zerolog.Logger) (*AuthUseCase, error) {
	byID := make(map[string]config.ServiceClient, len(clients))
	for _, c := range clients {
		if !ValidRole(c.Role) {
			return nil, fmt.Errorf("auth: rol desconocido %q para cliente %s", c.Role, c.ID)
		}
		byID[c.ID] = c
	}
	return &AuthUseCase{clients: byID, jwtCfg: jwtCfg, log: log.With().Str("component", "auth").Logger()}, nil
}

// ValidRole indica si role es uno de los roles de la API.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOperator, RoleWorkflow:
		return true
	}
	return false
}

// IssueToken verifica client_id/client_secret con bcrypt y firma un JWT con el rol del cliente.
func (uc *AuthUseCase) IssueToken(_ context.Context, in dto.TokenRequest) (*dto.TokenResponse, error) {
	if in.ClientID == "" || in.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id y client_secret requeridos", domain.ErrInvalidInput)
	}
	client, ok := uc.clients[in.ClientID]
	if !ok {
		uc.log.Warn().Str("client_id", in.ClientID).Msg("cliente desconocido")
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(in.ClientSecret)); err != nil {
		uc.log.Warn().Str("client_id", in.ClientID).Msg("credenciales inválidas")
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, client.ID, client.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		Role:      client.Role,
	}, nil
}
