// Package session persists the signed-in user between runs as a signed token
// in the state directory. The signing key is generated on first use and
// never leaves the same directory, so a copied or edited session file is
// rejected rather than trusted.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/filex"
	"github.com/dmitrijs2005/pods/internal/models"
)

const (
	sessionFile = "session"
	keyFile     = "session.key"
	keyBytes    = 32

	// sessionTTL bounds how long a saved session stays valid.
	sessionTTL = 30 * 24 * time.Hour
)

// Claims carries the signed-in user inside the token.
type Claims struct {
	jwt.RegisteredClaims
	User models.User `json:"user"`
}

// Store reads and writes the session under one directory.
type Store struct {
	dir string
}

// NewStore ensures the directory exists and returns a store over it.
func NewStore(dir string) (*Store, error) {
	path, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &Store{dir: path}, nil
}

// Save signs the user and writes the session file.
func (s *Store) Save(user models.User) error {
	key, err := s.signingKey()
	if err != nil {
		return err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
		User: user,
	})
	signed, err := token.SignedString(key)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, sessionFile), []byte(signed), 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load returns the saved user. A missing, expired or tampered session yields
// common.ErrInvalidSession.
func (s *Store) Load() (*models.User, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrInvalidSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(string(raw), claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidSession
	}
	return &claims.User, nil
}

// Clear removes the session file. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// signingKey loads the key, generating it on first use.
func (s *Store) signingKey() ([]byte, error) {
	path := filepath.Join(s.dir, keyFile)

	raw, err := os.ReadFile(path)
	if err == nil {
		key, derr := hex.DecodeString(string(raw))
		if derr != nil {
			return nil, fmt.Errorf("decode session key: %w", derr)
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read session key: %w", err)
	}

	key := make([]byte, keyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("write session key: %w", err)
	}
	return key, nil
}
