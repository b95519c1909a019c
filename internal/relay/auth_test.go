package relay

import (
	"encoding/base64"
	"errors"
	"testing"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestAuthenticator_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{name: "both set", username: "user", password: "pass", want: true},
		{name: "empty username", username: "", password: "pass", want: false},
		{name: "empty password", username: "user", password: "", want: false},
		{name: "both empty", username: "", password: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			auth := NewAuthenticator(tt.username, tt.password)
			if got := auth.Enabled(); got != tt.want {
				t.Errorf("Enabled(): got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthenticator_VerifyPlain(t *testing.T) {
	t.Parallel()

	auth := NewAuthenticator("testuser", "testpass")

	tests := []struct {
		name    string
		encoded string
		want    error
	}{
		{name: "success", encoded: b64("\x00testuser\x00testpass"), want: nil},
		{name: "with authzid", encoded: b64("admin\x00testuser\x00testpass"), want: nil},
		{name: "wrong password", encoded: b64("\x00testuser\x00wrongpass"), want: ErrAuthFailed},
		{name: "wrong username", encoded: b64("\x00wronguser\x00testpass"), want: ErrAuthFailed},
		{name: "invalid base64", encoded: "not-valid-base64!!!", want: ErrAuthSyntax},
		{name: "one separator", encoded: b64("testuser\x00testpass"), want: ErrAuthSyntax},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := auth.VerifyPlain(tt.encoded); !errors.Is(err, tt.want) {
				t.Errorf("VerifyPlain: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAuthenticator_VerifyLogin(t *testing.T) {
	t.Parallel()

	auth := NewAuthenticator("testuser", "testpass")

	tests := []struct {
		name string
		user string
		pass string
		want error
	}{
		{name: "success", user: b64("testuser"), pass: b64("testpass"), want: nil},
		{name: "wrong password", user: b64("testuser"), pass: b64("wrongpass"), want: ErrAuthFailed},
		{name: "invalid base64 user", user: "invalid!!!", pass: b64("testpass"), want: ErrAuthSyntax},
		{name: "invalid base64 pass", user: b64("testuser"), pass: "invalid!!!", want: ErrAuthSyntax},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := auth.VerifyLogin(tt.user, tt.pass); !errors.Is(err, tt.want) {
				t.Errorf("VerifyLogin: got %v, want %v", err, tt.want)
			}
		})
	}
}
