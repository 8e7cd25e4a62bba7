package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DevPassword is accepted in dev when no admin password is configured.
const DevPassword = "admin123"

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrNoPassword      = errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
)

// Checker verifies the single admin password.
type Checker struct {
	hash  []byte
	plain []byte
}

// NewChecker prefers a bcrypt hash over a plain password. With neither
// set, dev falls back to DevPassword and other environments refuse to start.
func NewChecker(hash, plain string, dev bool, logger *zap.Logger) (*Checker, error) {
	switch {
	case hash != "":
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH: %w", err)
		}
		return &Checker{hash: []byte(hash)}, nil
	case plain != "":
		return &Checker{plain: []byte(plain)}, nil
	case dev:
		logger.Warn("using default admin password; set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")
		return &Checker{plain: []byte(DevPassword)}, nil
	default:
		return nil, ErrNoPassword
	}
}

// Check returns ErrInvalidPassword unless password matches.
func (c *Checker) Check(password string) error {
	if c.hash != nil {
		if err := bcrypt.CompareHashAndPassword(c.hash, []byte(password)); err != nil {
			return ErrInvalidPassword
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(password), c.plain) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}
