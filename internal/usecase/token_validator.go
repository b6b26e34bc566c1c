package usecase

import (
	"slot-reservation-engine/internal/domain/user"
	"slot-reservation-engine/internal/pkg/jwt"
)

// TokenValidator turns a bearer token issued by the identity service into a principal.
type TokenValidator interface {
	ValidateToken(tokenString string) (user.Principal, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (user.Principal, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return user.Principal{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return user.Principal{}, err
	}

	return user.Principal{
		ID:    claims.UserID,
		Role:  role,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
