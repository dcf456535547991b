package auth_test

import (
	"testing"
	"time"

	"wineshop/internal/core/auth"
)

func TestIssueAndParse(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "wineshop", TTL: time.Hour}

	token, err := j.Issue(42, "alice", "MANAGER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, err := j.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UserID != 42 || c.Subject != "alice" || c.Scope != "MANAGER" {
		t.Fatalf("claims mismatch: %+v", c)
	}
	if c.ID == "" {
		t.Fatal("expected non-empty jti")
	}
	if until := time.Until(c.ExpiresAt.Time); until < 59*time.Minute || until > 61*time.Minute {
		t.Fatalf("unexpected expiry window: %v", until)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	j1 := &auth.JWTer{Secret: []byte("secret-a"), Issuer: "wineshop", TTL: time.Hour}
	j2 := &auth.JWTer{Secret: []byte("secret-b"), Issuer: "wineshop", TTL: time.Hour}

	token, err := j1.Issue(1, "bob", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := j2.Parse(token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	j1 := &auth.JWTer{Secret: []byte("shared"), Issuer: "other-app", TTL: time.Hour}
	j2 := &auth.JWTer{Secret: []byte("shared"), Issuer: "wineshop", TTL: time.Hour}

	token, err := j1.Issue(1, "bob", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := j2.Parse(token); err == nil {
		t.Fatal("expected issuer error")
	}
}
