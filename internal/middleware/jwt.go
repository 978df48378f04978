package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and username claims into the request
// context.  The provided secret must match the one used when issuing
// tokens.  Handlers behind this middleware read the authenticated user via
// c.Get("user_id") and c.Get("username").
//
// A missing or malformed Authorization header yields 401; a header that is
// present but carries an invalid or expired token yields 403.  Clients
// rely on the distinction to decide between "log in" and "log in again".
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token required"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 only; any other signing method is rejected
			// before the key is even handed over.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid token claims"})
			}

			// Numeric JSON claims decode as float64; normalize the subject
			// to int64 so handlers don't repeat the conversion.
			sub, ok := claims["sub"].(float64)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid token claims"})
			}
			c.Set("user_id", int64(sub))
			if name, ok := claims["username"].(string); ok {
				c.Set("username", name)
			}
			return next(c)
		}
	}
}
