package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)

	tok, err := ti.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if tok == "" {
		t.Fatal("empty token")
	}

	uid, err := ti.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if uid != "user-42" {
		t.Fatalf("subject = %q, want user-42", uid)
	}
}

func TestVerify_Expired(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Minute)

	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ti.now = func() time.Time { return issuedAt }
	tok, err := ti.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	ti.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := ti.Verify(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := ti.Verify(tok); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("Verify(%q) = %v, want ErrTokenMalformed", tok, err)
		}
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	verifier := NewTokenIssuer("secret-b", time.Hour)

	tok, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(tok); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("err = %v, want ErrTokenMalformed", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)

	tok, err := ti.Issue("")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ti.Verify(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestNewTokenIssuer_DefaultTTL(t *testing.T) {
	ti := NewTokenIssuer("s", 0)
	if ti.ttl != DefaultTokenTTL {
		t.Fatalf("ttl = %v, want %v", ti.ttl, DefaultTokenTTL)
	}
}

func TestPassword_HashAndCheck(t *testing.T) {
	digest, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if strings.Contains(digest, "secret1") {
		t.Fatal("digest leaks plaintext")
	}
	if !CheckPassword("secret1", digest) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("wrong", digest) {
		t.Fatal("wrong password accepted")
	}
	if CheckPassword("secret1", "not-a-digest") {
		t.Fatal("garbage digest accepted")
	}
}
