package security

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Algorithm names a password hashing scheme.
type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 10

// bcrypt only looks at the first 72 bytes of its input.
const maxBcryptPasswordLength = 72

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported password hashing algorithm")
	ErrUnknownHashFormat    = errors.New("unknown password hash format")
	ErrPasswordTooLong      = errors.New("password must not exceed 72 bytes")
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	// HashPassword returns an encoded, salted hash of password.
	HashPassword(password string) (string, error)

	// VerifyPassword reports whether password matches the encoded hash.
	VerifyPassword(password, encodedHash string) (bool, error)
}

type passwordHasher struct {
	algorithm  Algorithm
	bcryptCost int
	argon      argon2.Config
}

// NewPasswordHasher creates a PasswordHasher that produces new hashes with the
// given algorithm. Verification accepts hashes of every supported algorithm.
func NewPasswordHasher(algorithm Algorithm, bcryptCost int) (PasswordHasher, error) {
	switch algorithm {
	case AlgorithmBcrypt, AlgorithmArgon2id:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &passwordHasher{
		algorithm:  algorithm,
		bcryptCost: bcryptCost,
		argon:      argon2.DefaultConfig(),
	}, nil
}

func (h *passwordHasher) HashPassword(password string) (string, error) {
	if h.algorithm == AlgorithmArgon2id {
		encoded, err := h.argon.HashEncoded([]byte(password))
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}

	if len(password) > maxBcryptPasswordLength {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (h *passwordHasher) VerifyPassword(password, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2"):
		return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	case strings.HasPrefix(encodedHash, "$2"):
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, ErrUnknownHashFormat
	}
}
