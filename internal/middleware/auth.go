package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Yodaime/cash-flow-keeper/internal/apierror"
	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ClaimsKey = "claims"
	PerfilKey = "perfil"
)

// JWTClaims are the custom claims embedded in every token.
type JWTClaims struct {
	UserID        string  `json:"user_id"`
	Email         string  `json:"email"`
	Papel         string  `json:"papel"`
	OrganizacaoID *string `json:"organizacao_id"`
	Tipo          string  `json:"tipo"` // access | refresh
	jwt.RegisteredClaims
}

// PerfilResolver loads the caller's current profile, usually from cache.
type PerfilResolver interface {
	Resolver(ctx context.Context, id uuid.UUID) (cache.Perfil, error)
}

// JWTAuth validates the Bearer token on every protected route. Refresh tokens
// are only accepted by /v1/auth/refresh.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticação necessária"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido ou expirado"))
			return
		}
		if claims.Tipo == service.TokenRefresh {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Refresh token não autoriza requisições"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// CarregarPerfil resolves the token's user into a profile. Role and tenant
// come from the profile, not from the token, so demotions and deactivations
// apply once the cache entry is refreshed.
func CarregarPerfil(perfis PerfilResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticação necessária"))
			return
		}
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token mal formado"))
			return
		}

		p, err := perfis.Resolver(c.Request.Context(), id)
		switch {
		case errors.Is(err, service.ErrNaoEncontrado):
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Usuário não encontrado"))
			return
		case err != nil:
			log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("falha ao carregar perfil")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.Interno)
			return
		}
		if !p.Ativo {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Usuário inativo"))
			return
		}

		c.Set(PerfilKey, p)
		c.Next()
	}
}

// RequireRole rejects requests whose role ranks below min.
func RequireRole(min permissao.Papel) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPerfil(c)
		if !ok || !permissao.Papel(p.Papel).AoMenos(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permissão insuficiente"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

// GetPerfil returns the profile set by CarregarPerfil.
func GetPerfil(c *gin.Context) (cache.Perfil, bool) {
	v, ok := c.Get(PerfilKey)
	if !ok {
		return cache.Perfil{}, false
	}
	p, ok := v.(cache.Perfil)
	return p, ok
}
