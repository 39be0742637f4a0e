package service

import (
	"errors"
	"testing"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	token, sess, err := IssueSessionToken("alice")
	if err != nil {
		t.Fatalf("выдача токена: %v", err)
	}
	if sess.ID == "" || sess.Name != "alice" {
		t.Fatalf("плохая сессия: %+v", sess)
	}

	parsed, err := ParseSessionToken(token)
	if err != nil {
		t.Fatalf("разбор токена: %v", err)
	}
	if parsed.ID != sess.ID || parsed.Name != "alice" {
		t.Fatalf("сессия не совпала: %+v против %+v", parsed, sess)
	}
}

func TestSessionTokenTampered(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	token, _, err := IssueSessionToken("alice")
	if err != nil {
		t.Fatalf("выдача токена: %v", err)
	}

	// портим подпись
	tampered := token[:len(token)-2] + "xx"
	if _, err := ParseSessionToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("испорченный токен прошел проверку: %v", err)
	}
}

func TestSessionTokenGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	if _, err := ParseSessionToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("мусор прошел проверку: %v", err)
	}
}
