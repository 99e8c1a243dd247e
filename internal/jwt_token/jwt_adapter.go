package jwttoken

import (
	"tonetags/internal/platform/middleware"
)

func ToMiddlewareClaims(claims *Claims) (*middleware.JWTClaims, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{
		UserID: userID,
		JTI:    claims.ID,
	}, nil
}

type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims)
}
