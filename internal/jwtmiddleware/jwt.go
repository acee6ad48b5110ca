package jwtmiddleware

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTMiddleware parses the bearer token and copies the sub/role claims
// into the echo context as user_id and role.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		ContextKey:    "user",
		SigningKey:    secret,
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return
			}
			if sub, ok := claims["sub"].(string); ok {
				c.Set("user_id", sub)
			}
			if role, ok := claims["role"].(string); ok {
				c.Set("role", role)
			}
		},
	})
}
