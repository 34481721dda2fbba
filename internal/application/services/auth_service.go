package services

import (
	"fmt"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/infrastructure/security"
	"github.com/TavolaMedia/menustack-go/pkg/config"
)

// EditorNonceAction is the action every editor mutation nonce is bound to.
const EditorNonceAction = "menustack_editor"

// AuthResult is the outcome of a login attempt.
type AuthResult struct {
	Success bool
	Token   string
	Role    string
	Error   string
}

// TokenInfo describes a validated token.
type TokenInfo struct {
	Valid     bool
	Role      string
	ExpiresAt int64
}

// AuthService authenticates editors and issues the tokens and nonces that
// protect mutation endpoints.
type AuthService struct {
	jwtSecret     string
	nonceSecret   string
	nonceLifetime time.Duration
	tokenLifetime time.Duration
}

// NewAuthService creates a new auth application service. Missing secrets are
// replaced with ephemeral random keys, which invalidates outstanding tokens
// on restart.
func NewAuthService() (*AuthService, error) {
	jwtSecret := config.JWTSecret
	if jwtSecret == "" {
		generated, err := security.GenerateSecureKey(64)
		if err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		jwtSecret = generated
	}

	nonceSecret := config.NonceSecret
	if nonceSecret == "" {
		generated, err := security.GenerateSecureKey(64)
		if err != nil {
			return nil, fmt.Errorf("failed to generate nonce secret: %w", err)
		}
		nonceSecret = generated
	}

	return &AuthService{
		jwtSecret:     jwtSecret,
		nonceSecret:   nonceSecret,
		nonceLifetime: config.NonceLifetime,
		tokenLifetime: config.TokenLifetime,
	}, nil
}

// Authenticate verifies a password against the admin hash first, then the
// editor hash, and issues a role token on success.
func (s *AuthService) Authenticate(password string) AuthResult {
	role := ""
	switch {
	case config.AdminPasswordHash != "" && security.VerifyPassword(config.AdminPasswordHash, password):
		role = security.RoleAdmin
	case config.EditorPasswordHash != "" && security.VerifyPassword(config.EditorPasswordHash, password):
		role = security.RoleEditor
	default:
		return AuthResult{Success: false, Error: "invalid credentials"}
	}

	token, err := security.GenerateEditorToken(role, s.jwtSecret, s.tokenLifetime)
	if err != nil {
		return AuthResult{Success: false, Error: "failed to issue token"}
	}

	return AuthResult{Success: true, Token: token, Role: role}
}

// GetTokenInfo validates a token and reports its role and expiry.
func (s *AuthService) GetTokenInfo(token string) *TokenInfo {
	claims, err := security.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return &TokenInfo{Valid: false}
	}

	info := &TokenInfo{Valid: true, Role: security.RoleFromClaims(claims)}
	if exp, ok := claims["exp"].(float64); ok {
		info.ExpiresAt = int64(exp)
	}
	return info
}

// IssueNonce mints an editor-action nonce.
func (s *AuthService) IssueNonce() string {
	return security.CreateNonce(s.nonceSecret, EditorNonceAction, time.Now())
}

// VerifyNonce checks an editor-action nonce against the configured lifetime.
func (s *AuthService) VerifyNonce(nonce string) error {
	return security.VerifyNonce(s.nonceSecret, EditorNonceAction, nonce, s.nonceLifetime, time.Now())
}
