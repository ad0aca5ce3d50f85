package jwttoken

import (
	authmw "memento/pkg/platform/middleware/auth"
)

// JWTServiceAdapter satisfies authmw.JWTValidator, which keeps the middleware
// package free of jwt imports.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{AccountID: claims.AccountID, JTI: claims.ID}, nil
}
