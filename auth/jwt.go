package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 24 * time.Hour

// ErrInvalidToken is returned for any token the verifier rejects, so
// handlers can map every failure mode to a single 401.
var ErrInvalidToken = errors.New("invalid token")

// Verifier issues and validates account tokens. With only a secret set it
// signs and checks HS256 tokens locally; when a JWKS URL is configured,
// validation instead accepts tokens from that external issuer.
type Verifier struct {
	secret []byte
	jwks   keyfunc.Keyfunc
}

// NewVerifier builds a Verifier. jwksURL is optional; when set, the JWKS
// is fetched eagerly so a bad URL fails at startup rather than on the
// first login.
func NewVerifier(secret, jwksURL string) (*Verifier, error) {
	v := &Verifier{secret: []byte(secret)}
	if jwksURL != "" {
		jwks, err := keyfunc.NewDefault([]string{jwksURL})
		if err != nil {
			return nil, fmt.Errorf("load JWKS from %s: %w", jwksURL, err)
		}
		v.jwks = jwks
	}
	return v, nil
}

// IssueToken signs a token carrying the username as subject. Only the
// local HS256 mode can issue; JWKS mode delegates issuing to the external
// provider.
func (v *Verifier) IssueToken(username string) (string, error) {
	if len(v.secret) == 0 {
		return "", errors.New("no signing secret configured")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	})
	return token.SignedString(v.secret)
}

// ValidateToken checks a token and returns its claims.
func (v *Verifier) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	var token *jwt.Token
	var err error
	if v.jwks != nil {
		token, err = jwt.Parse(tokenString, v.jwks.Keyfunc,
			jwt.WithValidMethods([]string{"RS256", "ES256", "EdDSA"}))
	} else {
		token, err = jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			return v.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UsernameFromClaims returns the account name from claims ("sub" or
// "username").
func UsernameFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if name, ok := claims["username"].(string); ok && name != "" {
		return name
	}
	return ""
}
