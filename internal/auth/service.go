// Package auth guards the mutating routes. A single administrator logs in
// with a password checked against a bcrypt hash from the configuration and
// receives a short lived HS256 token.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL = time.Hour
	issuer         = "tourplanner"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginDisabled      = errors.New("login disabled: no admin password configured")
	ErrTokenInvalid       = errors.New("token invalid")
)

var (
	compareHashFn     = bcrypt.CompareHashAndPassword
	parseWithClaimsFn = jwt.ParseWithClaims
	nowFn             = time.Now
)

type Service struct {
	secret       []byte
	adminUser    string
	passwordHash []byte
}

func NewService(secret, adminUser, adminPasswordHash string) *Service {
	return &Service{
		secret:       []byte(secret),
		adminUser:    adminUser,
		passwordHash: []byte(adminPasswordHash),
	}
}

func (s *Service) Login(_ context.Context, req LoginRequest) (TokenResponse, error) {
	if len(s.passwordHash) == 0 {
		return TokenResponse{}, ErrLoginDisabled
	}
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.adminUser)) == 1
	passErr := compareHashFn(s.passwordHash, []byte(req.Password))
	if !userOK || passErr != nil {
		return TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.signToken(req.Username, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

func (s *Service) signToken(username string, ttl time.Duration) (string, error) {
	now := nowFn()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	return parseClaims(token, s.secret)
}

func parseClaims(token string, secret []byte) (*Claims, error) {
	parsed, err := parseWithClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
