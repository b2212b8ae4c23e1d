package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/plumekit/plume-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func signToken(t *testing.T, secret string, userID uint) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func requestContext(authHeader string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	var httpErr *echo.HTTPError
	assert.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuthMiddlewareAcceptsValidToken(t *testing.T) {
	c := requestContext("Bearer " + signToken(t, "s3cret", 7))

	var claims *models.JwtCustomClaims
	handler := JWTAuthMiddleware("s3cret")(func(c echo.Context) error {
		claims, _ = c.Get("user").(*models.JwtCustomClaims)
		return nil
	})

	assert.NoError(t, handler(c))
	assert.NotNil(t, claims)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	handler := JWTAuthMiddleware("s3cret")(func(echo.Context) error { return nil })
	assertUnauthorized(t, handler(requestContext("")))
}

func TestJWTAuthMiddlewareMalformedHeader(t *testing.T) {
	handler := JWTAuthMiddleware("s3cret")(func(echo.Context) error { return nil })
	assertUnauthorized(t, handler(requestContext("Token abc")))
}

func TestJWTAuthMiddlewareWrongSecret(t *testing.T) {
	c := requestContext("Bearer " + signToken(t, "other-secret", 7))
	handler := JWTAuthMiddleware("s3cret")(func(echo.Context) error { return nil })
	assertUnauthorized(t, handler(c))
}

func TestParseTokenRoundTrip(t *testing.T) {
	claims, err := ParseToken(signToken(t, "s3cret", 42), "s3cret")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}
