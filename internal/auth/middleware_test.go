package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestJWTMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/private", JWTMiddleware("secret"), func(c *fiber.Ctx) error {
		if c.Locals(LocalUsername) != "admin" {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		return c.SendStatus(http.StatusOK)
	})

	// missing token
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for bad token")
	}

	svc := NewService("secret", "admin", "")
	token, _ := svc.signToken("admin", accessTokenTTL)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok, got %d", resp.StatusCode)
	}
}

func TestParseBearer(t *testing.T) {
	if parseBearer("bad") != "" {
		t.Fatalf("expected empty token")
	}
	if parseBearer("Bearer token") != "token" {
		t.Fatalf("expected token")
	}
	if parseBearer("bearer token") != "token" {
		t.Fatalf("expected case-insensitive scheme")
	}
}
