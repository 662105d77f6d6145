package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"time"

	"github.com/campushire/platform/internal/config"
)

// TokenKind selects the single-use token format and expiry window.
type TokenKind string

const (
	// TokenKindVerification is the URL-safe email verification link token.
	TokenKindVerification TokenKind = "verification"
	// TokenKindOTP is the 6-digit numeric verification code.
	TokenKindOTP TokenKind = "otp"
	// TokenKindReset is the password reset token. It grants the most
	// sensitive capability and gets the shortest life.
	TokenKindReset TokenKind = "reset"
)

const tokenEntropyBytes = 32

// Issuer generates single-use proof-of-possession tokens. Expiry is checked
// at validation time by the store, not here; the Issuer only stamps it.
type Issuer struct {
	verificationTTL time.Duration
	otpTTL          time.Duration
	resetTTL        time.Duration
	now             func() time.Time
}

// NewIssuer builds an Issuer from auth configuration.
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return NewIssuerAt(cfg, time.Now)
}

// NewIssuerAt builds an Issuer on an explicit clock.
func NewIssuerAt(cfg config.AuthConfig, now func() time.Time) *Issuer {
	return &Issuer{
		verificationTTL: cfg.VerificationTTL(),
		otpTTL:          cfg.OTPTTL(),
		resetTTL:        cfg.PasswordResetTTL(),
		now:             now,
	}
}

// Issue returns a fresh token value and its expiry for the given kind.
func (i *Issuer) Issue(kind TokenKind) (string, time.Time, error) {
	switch kind {
	case TokenKindVerification:
		value, err := randomToken()
		return value, i.now().Add(i.verificationTTL), err
	case TokenKindOTP:
		value, err := randomOTP()
		return value, i.now().Add(i.otpTTL), err
	case TokenKindReset:
		value, err := randomToken()
		return value, i.now().Add(i.resetTTL), err
	default:
		return "", time.Time{}, fmt.Errorf("unknown token kind %q", kind)
	}
}

// Now reports the issuer's current time; the store compares slot expiry
// against this same clock so tests can pin it.
func (i *Issuer) Now() time.Time {
	return i.now()
}

func randomToken() (string, error) {
	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
