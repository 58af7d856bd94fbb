package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"
)

var ErrInvalidClaims = errors.New("invalid token claims")

type Service interface {
	GenerateAccessToken(id identity.Identity) (token string, expiresAt int64, err error)
	GenerateSSEToken(id identity.Identity) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (identity.Identity, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(id identity.Identity) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(identityClaims(id, TokenTypeAccess, expiresAt))
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for event stream connections,
// which cannot send an Authorization header.
func (j *JWTService) GenerateSSEToken(id identity.Identity) (token string, expiresIn int, err error) {
	expiresIn = 300
	expiresAt := j.now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(identityClaims(id, TokenTypeSSE, expiresAt))
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the caller it was issued to
func (j *JWTService) ValidateSSEToken(tokenString string) (identity.Identity, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return identity.Identity{}, err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return identity.Identity{}, err
	}
	return IdentityFromClaims(claims, TokenTypeSSE)
}

// IdentityFromClaims resolves the caller from verified claims of the given token type.
func IdentityFromClaims(claims map[string]interface{}, tokenType string) (identity.Identity, error) {
	if t, _ := claims["type"].(string); t != tokenType {
		return identity.Identity{}, ErrInvalidClaims
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return identity.Identity{}, ErrInvalidClaims
	}

	rawRole, _ := claims["role"].(string)
	role, err := identity.ParseRole(rawRole)
	if err != nil {
		return identity.Identity{}, err
	}

	employeeID, _ := claims["employee_id"].(string)

	return identity.Identity{UserID: userID, EmployeeID: employeeID, Role: role}, nil
}

func identityClaims(id identity.Identity, tokenType string, expiresAt int64) map[string]interface{} {
	claims := map[string]interface{}{
		"user_id": id.UserID,
		"role":    string(id.Role),
		"type":    tokenType,
		"exp":     expiresAt,
	}
	if id.EmployeeID != "" {
		claims["employee_id"] = id.EmployeeID
	}
	return claims
}
