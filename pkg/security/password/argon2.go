// Package password implements credential hashing with Argon2id. Hashes are
// stored in PHC string format so parameters and salt travel with the digest.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrMismatch means the password does not match the stored hash.
	ErrMismatch = errors.New("password does not match")
	// ErrInvalidHash means the stored value is not a parseable Argon2id hash.
	ErrInvalidHash = errors.New("invalid password hash encoding")
	// ErrIncompatibleVersion means the hash was produced by an unsupported
	// Argon2 version.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// Params control the Argon2id cost. Memory is in KiB.
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams are the values recommended by the x/crypto/argon2
// documentation for interactive password hashing.
var DefaultParams = Params{
	Memory:      64 * 1024,
	Iterations:  1,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher derives and verifies salted Argon2id password hashes. It is
// stateless and safe for concurrent use.
type Hasher struct {
	params Params
}

// NewHasher returns a Hasher with DefaultParams.
func NewHasher() *Hasher { return &Hasher{params: DefaultParams} }

// NewHasherWithParams returns a Hasher with custom cost parameters.
func NewHasherWithParams(p Params) *Hasher { return &Hasher{params: p} }

// Hash derives a hash of the password with a fresh random salt and returns it
// encoded as $argon2id$v=19$m=..,t=..,p=..$<salt>$<digest>. Two calls with
// the same password produce different strings. It fails only when the
// entropy source does.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify recomputes the digest of password using the parameters and salt
// embedded in encoded and compares it against the stored digest in constant
// time. It returns nil on a match and ErrMismatch otherwise.
func (h *Hasher) Verify(password, encoded string) error {
	params, salt, key, err := decodeHash(encoded)
	if err != nil {
		return err
	}

	other := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(key)))
	if subtle.ConstantTimeCompare(key, other) != 1 {
		return ErrMismatch
	}
	return nil
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	var p Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return p, nil, nil, ErrInvalidHash
	}
	if parts[1] != "argon2id" {
		return p, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return p, nil, nil, ErrIncompatibleVersion
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, ErrInvalidHash
	}
	if len(salt) == 0 || len(key) == 0 {
		return p, nil, nil, ErrInvalidHash
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))
	return p, salt, key, nil
}
