package middelware

import (
	"fmt"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"
	ContextClaims = "jwt_claims"
)

// JWTManager issues and checks the HS256 tokens carried by staff, managers and the payment gateway
type JWTManager struct {
	Config *models.Config
	Logger logger.Logger
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *models.Config, log logger.Logger) *JWTManager {
	return &JWTManager{
		Config: cfg,
		Logger: log,
		now:    time.Now,
	}
}

// GenerateToken signs a token for userID acting with role
func (j *JWTManager) GenerateToken(userID string, role models.Role) (string, error) {
	now := j.now()
	claims := models.JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			Issuer:    j.Config.AppName,
			Audience:  jwt.ClaimStrings{j.Config.AppName},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.Config.JWTExpiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.Config.JWTSecret))
	if err != nil {
		j.Logger.Errorf("Failed to sign JWT token: %v", err)
		return "", err
	}

	j.Logger.Debugf("Generated JWT token for %s (%s)", userID, role)
	return tokenString, nil
}

// ValidateToken parses the token and returns its claims
func (j *JWTManager) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.Config.JWTSecret), nil
	},
		jwt.WithIssuer(j.Config.AppName),
		jwt.WithAudience(j.Config.AppName),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("token carries no role")
	}
	return claims, nil
}

func abortWith(c *gin.Context, code int, message, errType, details string) {
	c.JSON(code, models.APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		Error: &models.APIError{
			Type:    errType,
			Details: details,
		},
	})
	c.Abort()
}

// AuthMiddleware requires a valid "Bearer <token>" header
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			j.Logger.Debug("Missing Authorization header")
			abortWith(c, http.StatusUnauthorized, "Missing Authorization header",
				models.ErrorTypeAuthentication, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortWith(c, http.StatusUnauthorized, "Invalid Authorization header format",
				models.ErrorTypeAuthentication, "Authorization header must be in format: Bearer <token>")
			return
		}

		claims, err := j.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			j.Logger.Warnf("Token validation failed: %v", err)
			abortWith(c, http.StatusUnauthorized, "Invalid or expired token",
				models.ErrorTypeAuthentication, err.Error())
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)

		j.Logger.Debugf("User authenticated: %s (%s)", claims.UserID, claims.Role)
		c.Next()
	}
}

// RequireRole lets the request through when the token role is one of roles.
// A manager passes every staff check.
func (j *JWTManager) RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextClaims)
		if !exists {
			abortWith(c, http.StatusUnauthorized, "Authentication required",
				models.ErrorTypeAuthentication, "User not authenticated")
			return
		}
		claims := value.(*models.JWTClaims)

		if !hasRole(claims.Role, roles) {
			j.Logger.Warnf("User %s with role %s denied, requires %v", claims.UserID, claims.Role, roles)
			abortWith(c, http.StatusForbidden, "Insufficient permissions",
				models.ErrorTypeAuthorization, fmt.Sprintf("Required role: %v", roles))
			return
		}

		c.Next()
	}
}

func hasRole(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
		if role == models.RoleManager && r == models.RoleStaff {
			return true
		}
	}
	return false
}

// Actor is the user id from the token, or fallback for anonymous customer calls
func Actor(c *gin.Context, fallback string) string {
	if id := c.GetString(ContextUserID); id != "" {
		return id
	}
	return fallback
}
