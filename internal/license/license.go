// Package license verifies offline license tokens.
//
// A license is an EdDSA-signed JWT carrying the plan name and expiry. The
// verifier holds the issuer's Ed25519 public key; it never talks to the
// network and never panics, it reports a status.
package license

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Status is the outcome of a license check
type Status struct {
	Valid     bool      `json:"valid"`
	Plan      string    `json:"plan,omitempty"`
	Customer  string    `json:"customer,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Verifier checks license tokens against a fixed public key
type Verifier struct {
	publicKey ed25519.PublicKey
}

// NewVerifier creates a verifier from a PEM-encoded Ed25519 public key
func NewVerifier(pemKey []byte) (*Verifier, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, fmt.Errorf("license: no PEM block in public key")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("license: cannot parse public key: %w", err)
	}

	key, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("license: public key is not Ed25519")
	}

	return &Verifier{publicKey: key}, nil
}

type claims struct {
	Plan     string `json:"plan"`
	Customer string `json:"customer,omitempty"`
	jwt.RegisteredClaims
}

// Check verifies a license token and returns its status. A missing, expired
// or tampered token yields Valid=false with a reason, never an error.
func (v *Verifier) Check(token string) Status {
	if token == "" {
		return Status{Reason: "no license token supplied"}
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))
	if err != nil {
		return Status{Reason: fmt.Sprintf("invalid license: %v", err)}
	}

	status := Status{
		Valid:    true,
		Plan:     c.Plan,
		Customer: c.Customer,
	}
	if c.ExpiresAt != nil {
		status.ExpiresAt = c.ExpiresAt.Time
	}
	return status
}
