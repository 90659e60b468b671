package authjwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authdomain "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/domain"
	"github.com/Black-And-White-Club/tournament-uploader/config"
)

const issuer = "tournament-uploader"

// apiClaims is the token body: registered claims plus the uploader role.
type apiClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Option adjusts a provider built by NewProvider.
type Option func(*provider)

// WithAudience stamps aud on issued tokens and requires it on validation.
func WithAudience(aud string) Option {
	return func(p *provider) { p.audience = aud }
}

// WithLeeway tolerates clock skew when checking exp and iat.
func WithLeeway(d time.Duration) Option {
	return func(p *provider) { p.leeway = d }
}

type provider struct {
	secret   []byte
	audience string
	leeway   time.Duration
}

// NewProvider creates an HS256 provider for secret.
func NewProvider(secret string, opts ...Option) Provider {
	p := &provider{secret: []byte(secret)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewProviderFromConfig creates the provider the API and the token command share.
func NewProviderFromConfig(cfg config.JWTConfig) Provider {
	return NewProvider(cfg.Secret, WithAudience(cfg.Audience), WithLeeway(cfg.Leeway))
}

func (p *provider) GenerateToken(domainClaims *authdomain.Claims, ttl time.Duration) (string, error) {
	if !domainClaims.Role.IsValid() {
		return "", ErrInvalidRole
	}

	now := time.Now()
	registered := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    issuer,
		Subject:   domainClaims.Subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	if p.audience != "" {
		registered.Audience = jwt.ClaimStrings{p.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &apiClaims{RegisteredClaims: registered, Role: string(domainClaims.Role)})
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (p *provider) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(p.leeway),
	}
	if p.audience != "" {
		opts = append(opts, jwt.WithAudience(p.audience))
	}
	return opts
}

func (p *provider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	claims := &apiClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, p.parserOptions()...)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return nil, ErrWrongAudience
	default:
		return nil, ErrInvalidToken
	}

	role := authdomain.Role(claims.Role)
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	out := &authdomain.Claims{Subject: claims.Subject, Role: role}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
