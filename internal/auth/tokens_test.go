package auth

import (
	"testing"
	"time"

	"github.com/campushire/platform/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		VerificationTTLHours:    24,
		OTPTTLMinutes:           10,
		PasswordResetTTLMinutes: 15,
	}
}

func TestIssuerExpiryWindows(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewIssuerAt(testAuthConfig(), func() time.Time { return base })

	cases := []struct {
		kind TokenKind
		want time.Duration
	}{
		{TokenKindVerification, 24 * time.Hour},
		{TokenKindOTP, 10 * time.Minute},
		{TokenKindReset, 15 * time.Minute},
	}
	for _, tc := range cases {
		_, expiresAt, err := issuer.Issue(tc.kind)
		if err != nil {
			t.Fatalf("Issue(%s) error: %v", tc.kind, err)
		}
		if got := expiresAt.Sub(base); got != tc.want {
			t.Fatalf("Issue(%s) expiry: got %v want %v", tc.kind, got, tc.want)
		}
	}
}

func TestIssuerTokenFormats(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testAuthConfig())

	link, _, err := issuer.Issue(TokenKindVerification)
	if err != nil {
		t.Fatalf("Issue(verification) error: %v", err)
	}
	// 32 bytes of entropy encode to 43 unpadded base64url characters.
	if len(link) != 43 {
		t.Fatalf("verification token length: got %d want 43", len(link))
	}

	otp, _, err := issuer.Issue(TokenKindOTP)
	if err != nil {
		t.Fatalf("Issue(otp) error: %v", err)
	}
	if len(otp) != 6 {
		t.Fatalf("otp length: got %d want 6", len(otp))
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			t.Fatalf("otp contains non-digit: %q", otp)
		}
	}
}

func TestIssuerTokensAreUnique(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testAuthConfig())
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		value, _, err := issuer.Issue(TokenKindReset)
		if err != nil {
			t.Fatalf("Issue error: %v", err)
		}
		if seen[value] {
			t.Fatalf("duplicate token after %d issues", i)
		}
		seen[value] = true
	}
}

func TestIssuerUnknownKind(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testAuthConfig())
	if _, _, err := issuer.Issue(TokenKind("bogus")); err == nil {
		t.Fatalf("expected error for unknown token kind")
	}
}
