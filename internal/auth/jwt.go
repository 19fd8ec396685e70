package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/backoffice/internal/domain"
)

// sessionClaims are the claims the console reads from an OIDC-style access
// token.
type sessionClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username,omitempty"`
	Name              string `json:"name,omitempty"`
}

// JWTManager turns a session token into a domain.Identity. With a secret it
// verifies HS256 signatures and the issuer; without one it only decodes the
// claims and checks expiry, leaving verification to the API.
type JWTManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager. An empty secret disables
// signature verification.
func NewJWTManager(secret string, issuer string) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Identity parses tokenString and returns the identity it carries.
// Returns domain.ErrUnauthorized for an empty, invalid or expired token.
func (m *JWTManager) Identity(tokenString string) (domain.Identity, error) {
	if tokenString == "" {
		return domain.Identity{}, fmt.Errorf("token is empty: %w", domain.ErrUnauthorized)
	}

	claims, err := m.parse(tokenString)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	username := claims.PreferredUsername
	if username == "" {
		username = claims.Subject
	}
	if username == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has neither subject nor preferred_username", domain.ErrUnauthorized)
	}

	return domain.Identity{
		UserID:      claims.Subject,
		Username:    username,
		DisplayName: claims.Name,
	}, nil
}

func (m *JWTManager) parse(tokenString string) (*sessionClaims, error) {
	if len(m.secret) == 0 {
		claims := &sessionClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, fmt.Errorf("parse token: %w", err)
		}
		if claims.ExpiresAt != nil && !claims.ExpiresAt.After(m.now()) {
			return nil, fmt.Errorf("token expired at %s", claims.ExpiresAt.Time.Format(time.RFC3339))
		}
		return claims, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if m.issuer != "" && claims.Issuer != m.issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}

	return claims, nil
}

// IssueToken creates a signed HS256 token for local development against a
// backend that shares the secret. A zero UserID gets a fresh UUID.
func (m *JWTManager) IssueToken(id domain.Identity, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("issue token: no signing secret configured")
	}
	if id.UserID == "" {
		id.UserID = uuid.New().String()
	}

	now := m.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		PreferredUsername: id.Username,
		Name:              id.DisplayName,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
