package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tasknest/internal/utils/apierrors"
)

// Token type claims distinguish access tokens from refresh tokens so one can
// never be presented where the other is expected.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ErrInvalidToken is the single failure surfaced by Verify. Expired, tampered,
// malformed and wrong-type tokens all collapse into it so the response does
// not leak why verification failed.
var ErrInvalidToken = apierrors.New(apierrors.LayerInfrastructure, apierrors.TypeUnauthorized,
	"INVALID_TOKEN", "token is invalid or expired", nil)

// TokenPair carries a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 signed JWTs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager creates a token manager signing with secret.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssuePair mints an access and refresh token for userID.
func (m *TokenManager) IssuePair(userID uuid.UUID) (*TokenPair, error) {
	access, err := m.sign(userID, tokenTypeAccess, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(userID, tokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

// VerifyAccess validates an access token and returns the subject user id.
func (m *TokenManager) VerifyAccess(token string) (uuid.UUID, error) {
	return m.verify(token, tokenTypeAccess)
}

// Refresh validates a refresh token and mints a fresh pair for its subject.
// The new pair includes a new refresh token, rotating the old one out.
func (m *TokenManager) Refresh(refreshToken string) (*TokenPair, error) {
	userID, err := m.verify(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return m.IssuePair(userID)
}

func (m *TokenManager) sign(userID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := m.now().UTC()
	c := claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", apierrors.New(apierrors.LayerInfrastructure, apierrors.TypeInternal,
			"TOKEN_SIGN_FAILED", "failed to sign token", err)
	}
	return signed, nil
}

func (m *TokenManager) verify(token, wantType string) (uuid.UUID, error) {
	// A JWT has exactly three dot-separated segments. Reject anything else
	// before handing it to the parser.
	if strings.Count(token, ".") != 2 {
		return uuid.Nil, ErrInvalidToken
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	if c.TokenType != wantType {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
