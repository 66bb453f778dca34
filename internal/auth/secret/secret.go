// Package secret holds the process-wide token signing key.
//
// A Key is built once at startup from configuration and never changes
// afterwards. Every instance of a horizontally scaled deployment must be
// given the same secret, otherwise tokens minted by one instance are
// rejected by the others.
package secret

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/AnthoniusHendriyanto/eventhub-auth/pkg/constant"
)

// MinProductionLength is the shortest secret accepted when ENV=production.
const MinProductionLength = 32

var (
	ErrEmptySecret    = errors.New("signing secret is empty")
	ErrWeakSecret     = errors.New("signing secret is too short for production")
	ErrDefaultSecret  = errors.New("signing secret is a known default value")
	knownInsecureKeys = []string{
		"4c03abc78244a1e8691a3f8121f04ca8",
		"secret",
		"secretKey",
		"changeme",
	}
)

// Key is an immutable HMAC signing secret.
type Key struct {
	b []byte
}

// New validates raw for the given environment and returns a Key holding a
// private copy of it.
func New(raw, env string) (Key, error) {
	if strings.TrimSpace(raw) == "" {
		return Key{}, ErrEmptySecret
	}

	if env == constant.EnvProduction {
		for _, k := range knownInsecureKeys {
			if subtle.ConstantTimeCompare([]byte(raw), []byte(k)) == 1 {
				return Key{}, ErrDefaultSecret
			}
		}
		if len(raw) < MinProductionLength {
			return Key{}, fmt.Errorf("%w: need at least %d bytes", ErrWeakSecret, MinProductionLength)
		}
	}

	return Key{b: []byte(raw)}, nil
}

// MustNew is New for tests and fixed fixtures; it panics on error.
func MustNew(raw string) Key {
	k, err := New(raw, constant.EnvDevelopment)
	if err != nil {
		panic(err)
	}
	return k
}

// Bytes returns a copy of the key material.
func (k Key) Bytes() []byte {
	out := make([]byte, len(k.b))
	copy(out, k.b)
	return out
}

// IsZero reports whether the key was never initialised.
func (k Key) IsZero() bool {
	return len(k.b) == 0
}

// String never prints the key.
func (k Key) String() string {
	return "[REDACTED]"
}
