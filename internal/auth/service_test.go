package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, password string) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return NewService("test-secret", "admin", string(hash))
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestService(t, "s3cret")

	tokens, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3cret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken == "" || tokens.TokenType != "Bearer" || tokens.ExpiresIn != int64(accessTokenTTL.Seconds()) {
		t.Fatalf("unexpected tokens %+v", tokens)
	}

	username, err := svc.ValidateAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if username != "admin" {
		t.Fatalf("expected admin, got %q", username)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestService(t, "s3cret")

	cases := []LoginRequest{
		{Username: "admin", Password: "wrong"},
		{Username: "someone", Password: "s3cret"},
	}
	for _, req := range cases {
		if _, err := svc.Login(context.Background(), req); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%+v: expected invalid credentials, got %v", req, err)
		}
	}
}

func TestLoginDisabledWithoutHash(t *testing.T) {
	svc := NewService("test-secret", "admin", "")
	if _, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "x"}); !errors.Is(err, ErrLoginDisabled) {
		t.Fatalf("expected login disabled, got %v", err)
	}
}

func TestValidateAccessTokenRejects(t *testing.T) {
	svc := newTestService(t, "s3cret")

	if _, err := svc.ValidateAccessToken("invalid-token"); err == nil {
		t.Fatalf("expected error for garbage token")
	}

	other := NewService("other-secret", "admin", "")
	foreign, err := other.signToken("admin", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ValidateAccessToken(foreign); err == nil {
		t.Fatalf("expected error for token signed with another secret")
	}

	expired, err := svc.signToken("admin", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ValidateAccessToken(expired); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	svc := newTestService(t, "s3cret")
	claims := Claims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ValidateAccessToken(token); err == nil {
		t.Fatalf("expected none algorithm to be rejected")
	}
}

func TestParseTokenInvalid(t *testing.T) {
	oldParse := parseWithClaimsFn
	parseWithClaimsFn = func(_ string, _ jwt.Claims, _ jwt.Keyfunc, _ ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Valid: false, Claims: &Claims{}}, nil
	}
	defer func() { parseWithClaimsFn = oldParse }()

	svc := NewService("test-secret", "admin", "")
	if _, err := svc.parseToken("token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected token invalid, got %v", err)
	}
}

func TestSignTokenUsesClock(t *testing.T) {
	oldNow := nowFn
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	nowFn = func() time.Time { return fixed }
	defer func() { nowFn = oldNow }()

	svc := NewService("test-secret", "admin", "")
	token, err := svc.signToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, &Claims{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	claims := parsed.Claims.(*Claims)
	if !claims.IssuedAt.Time.Equal(fixed) || !claims.ExpiresAt.Time.Equal(fixed.Add(time.Hour)) {
		t.Fatalf("unexpected times %v %v", claims.IssuedAt, claims.ExpiresAt)
	}
}
