package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/cashsplit/backend/internal/application/adapter"
)

type stubTokenService struct {
	adapter.TokenService
	claims map[string]*adapter.TokenClaims
}

func (s *stubTokenService) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	if token == "expired" {
		return nil, fmt.Errorf("failed to parse token: %w", jwt.ErrTokenExpired)
	}
	if c, ok := s.claims[token]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("failed to parse token: %w", jwt.ErrTokenMalformed)
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	tokens := &stubTokenService{claims: map[string]*adapter.TokenClaims{
		"good": {UserID: userID, Email: "alice@example.com"},
	}}

	engine := gin.New()
	engine.GET("/me", NewAuthMiddleware(tokens).Authenticate(), func(c *gin.Context) {
		id, _ := GetUserIDFromContext(c)
		email, _ := GetUserEmailFromContext(c)
		c.String(http.StatusOK, id.String()+" "+email)
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"valid token", "Bearer good", http.StatusOK, userID.String() + " alice@example.com"},
		{"missing header", "", http.StatusUnauthorized, "AUTH-030003"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "AUTH-030001"},
		{"empty token", "Bearer  ", http.StatusUnauthorized, "AUTH-030003"},
		{"expired token", "Bearer expired", http.StatusUnauthorized, "AUTH-030002"},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, "AUTH-030001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
