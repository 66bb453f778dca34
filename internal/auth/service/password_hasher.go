package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/AnthoniusHendriyanto/eventhub-auth/pkg/constant"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"

	argon2Prefix = "$argon2id$"
)

// ErrMalformedHash means a stored hash could not be parsed. It says nothing
// about whether the password was right.
var ErrMalformedHash = errors.New("malformed password hash")

// PasswordHasher produces salted, self-describing hashes and checks
// passwords against them in constant time. Verify returns (false, nil) on a
// plain mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

type HasherConfig struct {
	Algorithm      string
	BcryptCost     int
	Argon2Time     uint32
	Argon2MemoryKB uint32
	Argon2Threads  uint8
}

// NewPasswordHasher hashes new passwords with cfg.Algorithm and verifies
// hashes of either supported algorithm, so the algorithm can be switched
// without invalidating existing accounts.
func NewPasswordHasher(cfg HasherConfig) (*MultiHasher, error) {
	b := NewBcryptHasher(cfg.BcryptCost)
	a := NewArgon2Hasher(cfg.Argon2Time, cfg.Argon2MemoryKB, cfg.Argon2Threads)

	m := &MultiHasher{bcrypt: b, argon2: a}
	switch cfg.Algorithm {
	case "", AlgorithmBcrypt:
		m.primary = b
	case AlgorithmArgon2id:
		m.primary = a
	default:
		return nil, fmt.Errorf("unsupported password algorithm: %s (use bcrypt or argon2id)", cfg.Algorithm)
	}
	return m, nil
}

type MultiHasher struct {
	primary PasswordHasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func (m *MultiHasher) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

func (m *MultiHasher) Verify(password, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, argon2Prefix):
		return m.argon2.Verify(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return m.bcrypt.Verify(password, encodedHash)
	default:
		return false, ErrMalformedHash
	}
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher falls back to cost 10 when cost is outside bcrypt's range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 10
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Verify rejects passwords longer than bcrypt's 72-byte input, which would
// otherwise match any hash of their first 72 bytes. The comparison still
// runs on the truncated input so the rejection costs the same as a mismatch.
func (h *BcryptHasher) Verify(password, encodedHash string) (bool, error) {
	tooLong := len(password) > constant.MaxPasswordLength
	if tooLong {
		password = password[:constant.MaxPasswordLength]
	}

	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return !tooLong, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

func NewArgon2Hasher(time, memoryKB uint32, threads uint8) *Argon2Hasher {
	h := &Argon2Hasher{time: 1, memory: 64 * 1024, threads: 4, keyLen: 32, saltLen: 16}
	if time > 0 {
		h.time = time
	}
	if memoryKB > 0 {
		h.memory = memoryKB
	}
	if threads > 0 {
		h.threads = threads
	}
	return h
}

// Hash encodes as $argon2id$v=19$m=<KiB>,t=<passes>,p=<threads>$<salt>$<key>.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2 salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2Hasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var memory, passes uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &passes, &threads); err != nil {
		return false, ErrMalformedHash
	}
	if memory == 0 || passes == 0 || threads == 0 {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return false, ErrMalformedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey([]byte(password), salt, passes, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
