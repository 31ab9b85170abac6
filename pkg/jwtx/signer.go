package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MinHS256SecretLen is the shortest shared secret we accept.
const MinHS256SecretLen = 32

// Signer is our interface for anything that can sign session tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256Signer signs with a shared secret.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 creates an HS256 signer. The secret must be at least
// MinHS256SecretLen bytes.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) < MinHS256SecretLen {
		return nil, errors.New("jwtx: HS256 secret too short")
	}
	return &HS256Signer{secret: secret}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verifier returns the matching verifier for tokens this signer produced.
func (s *HS256Signer) Verifier(opts VerifyOptions) Verifier {
	return newVerifier(jwt.SigningMethodHS256, s.secret, opts)
}
