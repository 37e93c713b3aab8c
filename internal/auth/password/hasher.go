// Package password hashes and verifies login credentials.
//
// Hasher has two implementations: BcryptHasher (the default) and
// Argon2Hasher. Both salt per call, so hashing the same plaintext twice
// yields different outputs, and both report any verification failure,
// including a malformed stored hash, as ErrMismatch.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Verify when the password does not reproduce
// the stored hash.
var ErrMismatch = errors.New("password: invalid password")

// Hasher is the one-way credential transform used by registration and login.
type Hasher interface {
	// Hash returns a salted hash of the plaintext.
	Hash(password string) (string, error)

	// Verify returns nil when the plaintext reproduces the hash and
	// ErrMismatch otherwise. It never panics on bad input.
	Verify(password, hash string) error
}

// BcryptHasher implements Hasher on bcrypt.
type BcryptHasher struct {
	cost int
}

// BcryptOption configures the bcrypt hasher.
type BcryptOption func(*BcryptHasher)

// WithCost overrides the bcrypt cost (default 10). Values outside
// bcrypt's accepted range are ignored.
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewBcryptHasher creates a bcrypt hasher with cost 10 unless overridden.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: 10}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	// bcrypt silently ignores input past 72 bytes; reject instead.
	if len(password) > 72 {
		return "", errors.New("password: maximum length is 72 characters (bcrypt limit)")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, hash string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrMismatch
	}
	return nil
}

// Argon2Hasher implements Hasher on argon2id, encoding hashes in the
// standard $argon2id$v=..$m=..,t=..,p=..$salt$hash form so the parameters
// travel with the stored value.
type Argon2Hasher struct {
	params argon2Params
}

type argon2Params struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// Argon2Option configures the argon2id hasher.
type Argon2Option func(*Argon2Hasher)

// WithArgon2Time sets the iteration count (default 1).
func WithArgon2Time(t uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.params.time = t }
}

// WithArgon2Memory sets the memory cost in KiB (default 64 MiB).
func WithArgon2Memory(m uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.params.memory = m }
}

// WithArgon2Threads sets the parallelism (default 4).
func WithArgon2Threads(t uint8) Argon2Option {
	return func(h *Argon2Hasher) { h.params.threads = t }
}

// NewArgon2Hasher creates an argon2id hasher with OWASP-recommended
// defaults.
func NewArgon2Hasher(opts ...Argon2Option) *Argon2Hasher {
	h := &Argon2Hasher{params: argon2Params{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	p := h.params
	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2Hasher) Verify(password, encodedHash string) error {
	salt, key, p, ok := decodeArgon2(encodedHash)
	if !ok {
		return ErrMismatch
	}
	computed := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, uint32(len(key)))
	if subtle.ConstantTimeCompare(computed, key) != 1 {
		return ErrMismatch
	}
	return nil
}

// decodeArgon2 splits an encoded argon2id hash into its salt, key, and
// parameters. Any structural problem reports !ok; Verify maps that to a
// mismatch rather than leaking parse detail.
func decodeArgon2(encoded string) (salt, key []byte, p argon2Params, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, p, false
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, nil, p, false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, p, false
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, p, false
	}
	return salt, key, p, true
}
