// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/application/services"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

// PostLogin handles POST /api/v1/auth/login - admin/editor authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	h.logger.Auth().Debug("Received login request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var loginReq struct {
		Password string `json:"password" form:"password" binding:"required"`
	}

	if err := c.ShouldBind(&loginReq); err != nil {
		h.logger.Auth().Error("Login request binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := h.authService.Authenticate(loginReq.Password)

	if !result.Success {
		h.logger.Auth().Warn("Login attempt failed", "error", result.Error, "duration", time.Since(start))
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	// Set role-specific HTTP-only cookie
	cookieName := "admin_auth"
	if result.Role == "editor" {
		cookieName = "editor_auth"
	}

	c.SetCookie(
		cookieName,   // name (admin_auth or editor_auth)
		result.Token, // value
		86400,        // maxAge (24 hours in seconds)
		"/",          // path
		"",           // domain (empty for current domain)
		false,        // secure (set to true in production)
		true,         // httpOnly
	)

	h.logger.Auth().Info("Login successful", "role", result.Role, "duration", time.Since(start))
	h.logger.LogAuthOperation("login", result.Role, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"role":    result.Role,
		"token":   result.Token,
		"nonce":   h.authService.IssueNonce(),
		"message": "Login successful",
	})
}

// PostLogout handles POST /api/v1/auth/logout - clears authentication cookies
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	h.logger.Auth().Debug("Received logout request", "method", c.Request.Method, "path", c.Request.URL.Path)

	// Clear both admin and editor auth cookies by setting them to expired
	c.SetCookie("admin_auth", "", -1, "/", "", false, true)
	c.SetCookie("editor_auth", "", -1, "/", "", false, true)

	h.logger.Auth().Info("Logout completed")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}

// GetAuthStatus handles GET /api/v1/auth/status - checks current authentication status
func (h *AuthHandlers) GetAuthStatus(c *gin.Context) {
	start := time.Now()
	h.logger.Auth().Debug("Received auth status request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var tokenInfo *services.TokenInfo
	var authenticated bool
	var authMethod string

	if token := bearerToken(c); token != "" {
		tokenInfo = h.authService.GetTokenInfo(token)
		if tokenInfo.Valid {
			authenticated = true
			authMethod = "bearer"
		}
	}

	// If no bearer token, check cookies
	if !authenticated {
		for _, cookieName := range []string{"admin_auth", "editor_auth"} {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie == "" {
				continue
			}
			tokenInfo = h.authService.GetTokenInfo(cookie)
			if tokenInfo.Valid {
				authenticated = true
				authMethod = "cookie"
				break
			}
		}
	}

	response := gin.H{
		"authenticated": authenticated,
		"method":        authMethod,
	}

	if authenticated && tokenInfo != nil {
		response["role"] = tokenInfo.Role
		response["expiresAt"] = tokenInfo.ExpiresAt
	}

	h.logger.Auth().Info("Auth status check completed", "authenticated", authenticated, "method", authMethod, "duration", time.Since(start))

	c.JSON(http.StatusOK, response)
}

// GetNonce handles GET /api/v1/auth/nonce - issues a fresh editor-action nonce
func (h *AuthHandlers) GetNonce(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"nonce":   h.authService.IssueNonce(),
	})
}

// AuthMiddleware provides authentication middleware functions
func (h *AuthHandlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := h.requestRole(c)
		if !ok {
			h.logger.Auth().Warn("Unauthorized access attempt", "path", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		c.Set("role", role)
		c.Next()
	}
}

// AdminOnlyMiddleware provides admin-only authentication middleware
func (h *AuthHandlers) AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := h.requestRole(c)
		if !ok || role != "admin" {
			h.logger.Auth().Warn("Unauthorized admin access attempt", "path", c.Request.URL.Path)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Set("role", role)
		c.Next()
	}
}

// requestRole resolves the authenticated role from the bearer header or the
// auth cookies.
func (h *AuthHandlers) requestRole(c *gin.Context) (string, bool) {
	if token := bearerToken(c); token != "" {
		if info := h.authService.GetTokenInfo(token); info.Valid {
			return info.Role, true
		}
	}

	for _, cookieName := range []string{"admin_auth", "editor_auth"} {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			continue
		}
		if info := h.authService.GetTokenInfo(cookie); info.Valid {
			return info.Role, true
		}
	}

	return "", false
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

// LoginRequest represents the structure for login requests
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response structure for login requests
type LoginResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role,omitempty"`
	Token   string `json:"token,omitempty"`
	Nonce   string `json:"nonce,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
