package authjwt

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	authdomain "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/domain"
	"github.com/Black-And-White-Club/tournament-uploader/config"
)

func testSecret() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return "test-secret-at-least-32-chars-long!!"
}

func TestProvider_GenerateAndValidateToken(t *testing.T) {
	p := NewProvider(testSecret())
	claims := &authdomain.Claims{Subject: "results-bot", Role: authdomain.RoleUploader}

	tests := []struct {
		name        string
		token       func(t *testing.T) string
		validator   Provider
		expectedErr error
		verify      func(t *testing.T, validated *authdomain.Claims)
	}{
		{
			name: "success",
			token: func(t *testing.T) string {
				token, err := p.GenerateToken(claims, time.Hour)
				require.NoError(t, err)
				return token
			},
			verify: func(t *testing.T, validated *authdomain.Claims) {
				require.Equal(t, "results-bot", validated.Subject)
				require.Equal(t, authdomain.RoleUploader, validated.Role)
				require.False(t, validated.IsExpired())
				require.WithinDuration(t, time.Now(), validated.IssuedAt, time.Minute)
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				token, err := p.GenerateToken(claims, -time.Hour)
				require.NoError(t, err)
				return token
			},
			expectedErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			token: func(t *testing.T) string {
				token, err := p.GenerateToken(claims, time.Hour)
				require.NoError(t, err)
				return token
			},
			validator:   NewProvider("wrong-secret"),
			expectedErr: ErrInvalidSignature,
		},
		{
			name:        "malformed token",
			token:       func(*testing.T) string { return "not.a.jwt" },
			expectedErr: ErrInvalidToken,
		},
		{
			name: "foreign issuer",
			token: func(t *testing.T) string {
				return signRaw(t, jwt.MapClaims{"iss": "someone-else", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()})
			},
			expectedErr: ErrInvalidToken,
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				return signRaw(t, jwt.MapClaims{"iss": issuer, "role": "admin"})
			},
			expectedErr: ErrInvalidToken,
		},
		{
			name: "unknown role",
			token: func(t *testing.T) string {
				return signRaw(t, jwt.MapClaims{"iss": issuer, "role": "root", "exp": time.Now().Add(time.Hour).Unix()})
			},
			expectedErr: ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := p
			if tt.validator != nil {
				validator = tt.validator
			}

			validated, err := validator.ValidateToken(tt.token(t))
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			if tt.verify != nil {
				tt.verify(t, validated)
			}
		})
	}
}

func TestProvider_Options(t *testing.T) {
	claims := &authdomain.Claims{Subject: "results-bot", Role: authdomain.RoleUploader}
	scoped := NewProvider(testSecret(), WithAudience("tournament-api"))
	unscoped := NewProvider(testSecret())

	tests := []struct {
		name        string
		issuer      Provider
		validator   Provider
		ttl         time.Duration
		expectedErr error
	}{
		{name: "matching audience", issuer: scoped, validator: scoped, ttl: time.Hour},
		{name: "other audience", issuer: NewProvider(testSecret(), WithAudience("admin-api")), validator: scoped, ttl: time.Hour, expectedErr: ErrWrongAudience},
		{name: "audience required", issuer: unscoped, validator: scoped, ttl: time.Hour, expectedErr: ErrWrongAudience},
		{name: "audience ignored when unset", issuer: scoped, validator: unscoped, ttl: time.Hour},
		{name: "leeway covers skew", issuer: unscoped, validator: NewProvider(testSecret(), WithLeeway(time.Minute)), ttl: -10 * time.Second},
		{name: "no leeway", issuer: unscoped, validator: unscoped, ttl: -10 * time.Second, expectedErr: ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.issuer.GenerateToken(claims, tt.ttl)
			require.NoError(t, err)

			validated, err := tt.validator.ValidateToken(token)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "results-bot", validated.Subject)
		})
	}
}

func TestProvider_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"iss": issuer, "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret()))
	require.NoError(t, err)

	_, err = NewProvider(testSecret()).ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestNewProviderFromConfig(t *testing.T) {
	cfg := config.Default().JWT
	cfg.Secret = testSecret()
	p := NewProviderFromConfig(cfg)

	token, err := p.GenerateToken(&authdomain.Claims{Subject: "ops", Role: authdomain.RoleAdmin}, time.Minute)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &apiClaims{})
	require.NoError(t, err)
	aud, err := parsed.Claims.GetAudience()
	require.NoError(t, err)
	require.Equal(t, jwt.ClaimStrings{cfg.Audience}, aud)

	_, err = NewProvider(testSecret(), WithAudience("elsewhere")).ValidateToken(token)
	require.ErrorIs(t, err, ErrWrongAudience)
}

func TestProvider_GenerateTokenRejectsUnknownRole(t *testing.T) {
	_, err := NewProvider(testSecret()).GenerateToken(&authdomain.Claims{Subject: "x", Role: "root"}, time.Hour)
	require.ErrorIs(t, err, ErrInvalidRole)
}

func signRaw(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret()))
	require.NoError(t, err)
	return token
}
