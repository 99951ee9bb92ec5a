// Package credential mints and validates the signed, time-boxed session
// credentials issued after full two-factor authentication. Credentials are
// stateless: no server-side session table, no revocation list.
package credential

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
)

// Roles carried in a credential.
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// Claims bind a voter handle and role to the standard JWT claims.
type Claims struct {
	VoterHandle string `json:"voter_handle,omitempty"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles credential creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewService(signingKey string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     "securevote",
		audience:   "securevote-api",
	}
}

// Issue mints a credential for the given handle and role. Admin credentials
// carry no voter handle.
func (s *Service) Issue(handle id.VoterHandle, role string, ttl time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		VoterHandle: handle.String(),
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", derrors.Wrap(err, derrors.CodeInternal, "failed to sign credential")
	}
	return signed, nil
}

// Validate parses and verifies a credential. Expiry and signature failures
// both come back as unauthorized; callers get no further detail.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, derrors.New(derrors.CodeUnauthorized, "credential has expired")
		}
		return nil, derrors.New(derrors.CodeUnauthorized, "invalid credential")
	}
	if !parsed.Valid {
		return nil, derrors.New(derrors.CodeUnauthorized, "invalid credential")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, derrors.New(derrors.CodeUnauthorized, "invalid credential claims")
	}
	if claims.Role != RoleVoter && claims.Role != RoleAdmin {
		return nil, derrors.New(derrors.CodeUnauthorized, "invalid credential role")
	}
	return claims, nil
}
