package usecase

import (
	"errors"
	"fmt"

	authdomain "github.com/vivekshiftai/shiftAIOT-sub009/internal/auth/domain"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthUsecase validates bearer tokens issued by the external auth provider.
type AuthUsecase interface {
	ValidateToken(tokenString string) (*authdomain.Identity, error)
}

type authUsecase struct {
	jwtSecret []byte
}

func NewAuthUsecase(jwtSecret string) AuthUsecase {
	return &authUsecase{jwtSecret: []byte(jwtSecret)}
}

type tokenClaims struct {
	OrganizationID string   `json:"org"`
	Permissions    []string `json:"perms"`
	jwt.RegisteredClaims
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.Identity, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return u.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.OrganizationID == "" {
		return nil, ErrInvalidToken
	}

	return &authdomain.Identity{
		UserID:         claims.Subject,
		OrganizationID: claims.OrganizationID,
		Permissions:    claims.Permissions,
	}, nil
}
