package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestRedirectURL(t *testing.T) {
	tests := map[string]string{
		"urn:ietf:wg:oauth:2.0:oob":       "http://localhost:6789/oauth2callback",
		"http://localhost":                "http://localhost:6789",
		"http://127.0.0.1:8080/callback":  "http://127.0.0.1:6789/callback",
		"http://localhost:6789/cb":        "http://localhost:6789/cb",
		"https://example.com/oauth/reply": "https://example.com/oauth/reply",
	}
	for in, want := range tests {
		if got := redirectURL(in); got != want {
			t.Errorf("redirectURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTokenRoundTripAndReset(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := TokenPath()
	if err != nil {
		t.Fatalf("TokenPath failed: %v", err)
	}
	if want := filepath.Join(home, ".config", "tasker", TokenFile); path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}

	tok := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := saveToken(path, tok); err != nil {
		t.Fatalf("saveToken failed: %v", err)
	}

	got, err := tokenFromFile(path)
	if err != nil {
		t.Fatalf("tokenFromFile failed: %v", err)
	}
	if got.AccessToken != "access" || got.RefreshToken != "refresh" || !got.Expiry.Equal(tok.Expiry) {
		t.Errorf("unexpected token %+v", got)
	}

	if err := ResetToken(); err != nil {
		t.Fatalf("ResetToken failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected token file to be gone, got %v", err)
	}
	if err := ResetToken(); err != nil {
		t.Errorf("ResetToken on missing file should succeed, got %v", err)
	}
}

func TestGetConfigMissingSecrets(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := GetConfig(scopes); err == nil {
		t.Fatal("expected an error without credentials.json")
	}
}
