package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// CustomerID accepts the customer id claim as a JSON number or string
type CustomerID string

// UnmarshalJSON implements json.Unmarshaler
func (id *CustomerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = CustomerID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = CustomerID(n.String())
	return nil
}

// Claims is the storefront identity token
type Claims struct {
	CustomerID CustomerID `json:"customer_id"`
	Email      string     `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 storefront tokens
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier; nil when no secret is configured
func NewTokenVerifier(secret string) *TokenVerifier {
	if strings.TrimSpace(secret) == "" {
		return nil
	}
	return &TokenVerifier{secret: []byte(secret)}
}

// Issue signs a token for the identity, used by the storefront proxy and tests
func (v *TokenVerifier) Issue(identity entity.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		CustomerID: CustomerID(strconv.FormatUint(identity.CustomerID, 10)),
		Email:      identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify parses the token and resolves the identity it carries
func (v *TokenVerifier) Verify(tokenString string) (entity.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return entity.Identity{}, ErrExpiredToken
		}
		return entity.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return entity.Identity{}, ErrInvalidToken
	}

	identity, err := entity.NewIdentity(string(claims.CustomerID), claims.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotAuthenticated) {
			return entity.Identity{}, ErrInvalidToken
		}
		return entity.Identity{}, err
	}
	return identity, nil
}
