package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleModerator дает доступ к эндпоинтам модерации.
const RoleModerator = "moderator"

// Claims представляет клеймы access-токена, выдаваемого внешним
// провайдером идентификации. Мы токены только проверяем, не выпускаем.
type Claims struct {
	UserID               uuid.UUID `json:"user_id"`
	Roles                []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims           // Issuer, Subject, ExpiresAt, IssuedAt, ID (JTI)
}

// HasRole проверяет наличие роли в клеймах.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
