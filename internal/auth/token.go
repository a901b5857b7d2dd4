package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/mediccare/platform/internal/domain"
)

// DefaultTokenTTL is the absolute lifetime of an access token.
const DefaultTokenTTL = 24 * time.Hour

// VerificationKind classifies why a token was rejected.
type VerificationKind string

const (
	VerificationExpired      VerificationKind = "EXPIRED"
	VerificationBadSignature VerificationKind = "BAD_SIGNATURE"
	VerificationMalformed    VerificationKind = "MALFORMED"
)

// VerificationError is returned by Verify for every rejected token.
type VerificationError struct {
	Kind VerificationKind
	Err  error
}

func (e *VerificationError) Error() string {
	switch e.Kind {
	case VerificationExpired:
		return "token expired"
	case VerificationBadSignature:
		return "token signature invalid"
	default:
		if e.Err != nil {
			return fmt.Sprintf("token malformed: %v", e.Err)
		}
		return "token malformed"
	}
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// TokenManager mints and verifies HS256 bearer tokens. The secret is fixed at
// construction and never changes, so a manager is safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes JWT payload: sub, role, iat, exp.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Mint builds and signs a token for subject.
func (tm *TokenManager) Mint(subject string, role domain.Role) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates signature and expiry and returns the carried identity.
func (tm *TokenManager) Verify(tokenStr string) (*domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, &VerificationError{Kind: VerificationMalformed, Err: errors.New("invalid token claims")}
	}
	if claims.Subject == "" {
		return nil, &VerificationError{Kind: VerificationMalformed, Err: errors.New("missing subject")}
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, &VerificationError{Kind: VerificationMalformed, Err: err}
	}
	return &domain.Identity{Subject: claims.Subject, Role: role}, nil
}

// Malformed input is checked first: jwt reports some decoding failures with
// more than one sentinel.
func classify(err error) *VerificationError {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &VerificationError{Kind: VerificationMalformed, Err: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &VerificationError{Kind: VerificationExpired, Err: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return &VerificationError{Kind: VerificationBadSignature, Err: err}
	default:
		return &VerificationError{Kind: VerificationMalformed, Err: err}
	}
}
