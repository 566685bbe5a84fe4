package middelware

import (
	"bytes"
	"encoding/json"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	config  *models.Config
	manager *JWTManager
	now     time.Time
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.config = &models.Config{
		AppName:      "movehub",
		JWTSecret:    "test-secret",
		JWTExpiresIn: time.Hour,
		CORSOrigins:  []string{"https://movehub.vn", "*.movehub.dev"},
	}
	s.now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	s.manager = NewJWTManager(s.config, logger.NewLogger("error", "json"))
	s.manager.now = func() time.Time { return s.now }
}

func (s *AuthMiddlewareTestSuite) token(userID string, role models.Role) string {
	tok, err := s.manager.GenerateToken(userID, role)
	s.Require().NoError(err)
	return tok
}

func (s *AuthMiddlewareTestSuite) router(roles ...models.Role) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{s.manager.AuthMiddleware()}
	if len(roles) > 0 {
		chain = append(chain, s.manager.RequireRole(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user": Actor(c, "anonymous"),
			"role": c.MustGet(ContextRole),
		})
	})
	r.GET("/protected", chain...)
	return r
}

func (s *AuthMiddlewareTestSuite) do(r *gin.Engine, header string) (*httptest.ResponseRecorder, models.APIResponse) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body models.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func (s *AuthMiddlewareTestSuite) TestGenerateAndValidateToken() {
	claims, err := s.manager.ValidateToken(s.token("staff-7", models.RoleStaff))

	s.Require().NoError(err)
	s.Equal("staff-7", claims.UserID)
	s.Equal(models.RoleStaff, claims.Role)
	s.Equal("movehub", claims.Issuer)
	s.Equal(s.now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func (s *AuthMiddlewareTestSuite) TestValidateTokenRejects() {
	valid := s.token("staff-7", models.RoleStaff)

	s.Run("expired", func() {
		s.now = s.now.Add(2 * time.Hour)
		defer func() { s.now = s.now.Add(-2 * time.Hour) }()
		_, err := s.manager.ValidateToken(valid)
		s.ErrorIs(err, jwt.ErrTokenExpired)
	})

	s.Run("wrong secret", func() {
		other := NewJWTManager(&models.Config{AppName: "movehub", JWTSecret: "other", JWTExpiresIn: time.Hour}, s.manager.Logger)
		other.now = s.manager.now
		tok, err := other.GenerateToken("x", models.RoleStaff)
		s.Require().NoError(err)
		_, err = s.manager.ValidateToken(tok)
		s.Error(err)
	})

	s.Run("wrong algorithm", func() {
		claims := models.JWTClaims{UserID: "x", Role: models.RoleStaff, RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "movehub",
			Audience:  jwt.ClaimStrings{"movehub"},
			ExpiresAt: jwt.NewNumericDate(s.now.Add(time.Hour)),
		}}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
		s.Require().NoError(err)
		_, err = s.manager.ValidateToken(tok)
		s.Error(err)
	})

	s.Run("missing role", func() {
		tok, err := s.manager.GenerateToken("x", "")
		s.Require().NoError(err)
		_, err = s.manager.ValidateToken(tok)
		s.EqualError(err, "token carries no role")
	})
}

func (s *AuthMiddlewareTestSuite) TestAuthMiddleware() {
	r := s.router()

	cases := []struct {
		name    string
		header  string
		code    int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Missing Authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Invalid Authorization header format"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "Invalid Authorization header format"},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid token", "Bearer " + s.token("staff-7", models.RoleStaff), http.StatusOK, ""},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			w, body := s.do(r, tc.header)
			s.Equal(tc.code, w.Code)
			if tc.code != http.StatusOK {
				s.Equal(tc.message, body.Message)
				s.Require().NotNil(body.Error)
				s.Equal(models.ErrorTypeAuthentication, body.Error.Type)
			} else {
				s.Contains(w.Body.String(), `"user":"staff-7"`)
			}
		})
	}
}

func (s *AuthMiddlewareTestSuite) TestRequireRole() {
	r := s.router(models.RoleStaff)

	w, _ := s.do(r, "Bearer "+s.token("staff-7", models.RoleStaff))
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(r, "Bearer "+s.token("boss", models.RoleManager))
	s.Equal(http.StatusOK, w.Code, "managers pass staff checks")

	w, body := s.do(r, "Bearer "+s.token("gateway", models.RolePayment))
	s.Equal(http.StatusForbidden, w.Code)
	s.Require().NotNil(body.Error)
	s.Equal(models.ErrorTypeAuthorization, body.Error.Type)

	payment := s.router(models.RolePayment)
	w, _ = s.do(payment, "Bearer "+s.token("boss", models.RoleManager))
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestRequireRoleWithoutAuth() {
	r := gin.New()
	r.GET("/protected", s.manager.RequireRole(models.RoleStaff), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	s.Equal(http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func TestActorFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, "customer", Actor(c, "customer"))

	c.Set(ContextUserID, "staff-7")
	assert.Equal(t, "staff-7", Actor(c, "customer"))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewCORSMiddleware(&models.Config{CORSOrigins: []string{"https://movehub.vn", "*.movehub.dev"}})
	r := gin.New()
	r.Use(m.CORS())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		origin  string
		allowed bool
	}{
		{"https://movehub.vn", true},
		{"https://admin.movehub.dev", true},
		{"https://movehub.dev", true},
		{"https://evil.example", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", tc.origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if tc.allowed {
			assert.Equal(t, tc.origin, w.Header().Get("Access-Control-Allow-Origin"), tc.origin)
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), tc.origin)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "https://movehub.vn")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStructuredLoggerAndRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	m := NewLoggingMiddleware(logger.NewLoggerWithOutput("info", "json", &buf), "/api/health")

	r := gin.New()
	r.Use(m.StructuredLogger(), m.Recovery())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, buf.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.ErrorTypeInternal, body.Error.Type)
	assert.Contains(t, buf.String(), "Panic recovered: boom")
	assert.Contains(t, buf.String(), `"path":"/api/boom"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
