package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
)

// Claims represents the owner access token. Tokens are issued by the account
// service; this module only validates them. Issue exists for tests and the
// demo seed.
type Claims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// clockSkew tolerates small clock differences with the issuing service.
const clockSkew = 30 * time.Second

// JWTService signs and checks HS256 owner tokens for one issuer/audience pair.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

func (s *JWTService) Issue(accountID id.AccountID, expiresIn time.Duration) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID: accountID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return newToken.SignedString(s.signingKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	// Tokens minted by other services may only carry the subject.
	if claims.AccountID == "" {
		claims.AccountID = claims.Subject
	}
	if claims.AccountID == "" || (claims.Subject != "" && claims.Subject != claims.AccountID) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token subject does not match account")
	}
	return claims, nil
}
