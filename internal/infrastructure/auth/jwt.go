package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/erp/posprint/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

const (
	tokenTypeAccess = "access"
	defaultTokenTTL = 15 * time.Minute
)

// Claims mirror the access tokens of the ERP identity service
type Claims struct {
	jwt.RegisteredClaims
	TenantID    string   `json:"tenant_id"`
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Permissions []string `json:"permissions,omitempty"`
	TokenType   string   `json:"token_type"`
}

// Validate runs after the registered claims pass; jwt calls it while
// parsing
func (c *Claims) Validate() error {
	switch {
	case c.TokenType != tokenTypeAccess:
		return ErrInvalidTokenType
	case c.TenantID == "":
		return ErrMissingTenantID
	case c.UserID == "":
		return ErrMissingUserID
	}
	return nil
}

func (c *Claims) TenantUUID() (uuid.UUID, error) { return uuid.Parse(c.TenantID) }

func (c *Claims) UserUUID() (uuid.UUID, error) { return uuid.Parse(c.UserID) }

// HasAnyPermission reports whether the claims grant at least one of
// permissions
func (c *Claims) HasAnyPermission(permissions ...string) bool {
	return slices.ContainsFunc(permissions, func(p string) bool {
		return slices.Contains(c.Permissions, p)
	})
}

// JWTService verifies HS256 access tokens. Minting exists for the CLI and
// tests; the print API never hands tokens out.
type JWTService struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		parser: jwt.NewParser(opts...),
	}
}

// GenerateTokenInput describes a token to mint. A zero TTL means fifteen
// minutes.
type GenerateTokenInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	Username    string
	Permissions []string
	TTL         time.Duration
}

// GenerateAccessToken signs a token and returns it with its expiry
func (s *JWTService) GenerateAccessToken(in GenerateTokenInput) (string, time.Time, error) {
	if in.TTL <= 0 {
		in.TTL = defaultTokenTTL
	}
	issued := time.Now()
	expires := issued.Add(in.TTL)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   in.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		TenantID:    in.TenantID.String(),
		UserID:      in.UserID.String(),
		Username:    in.Username,
		Permissions: in.Permissions,
		TokenType:   tokenTypeAccess,
	}).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// ValidateAccessToken returns the claims of a valid token. Failures are
// reduced to the package's sentinel errors.
func (s *JWTService) ValidateAccessToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

func classify(err error) error {
	for _, known := range []struct{ cause, result error }{
		{jwt.ErrTokenExpired, ErrExpiredToken},
		{jwt.ErrTokenNotValidYet, ErrTokenNotYetValid},
		{ErrInvalidTokenType, ErrInvalidTokenType},
		{ErrMissingTenantID, ErrMissingTenantID},
		{ErrMissingUserID, ErrMissingUserID},
	} {
		if errors.Is(err, known.cause) {
			return known.result
		}
	}
	return ErrInvalidToken
}
