// Package session keeps the durable client-side state of a login: the
// bearer token and a minimal profile. Nothing else is persisted; the
// favorite set, balance, holdings and alerts all live server side.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	m "coinboard/internal/model"
	"coinboard/internal/util"

	"gopkg.in/yaml.v3"
)

type credentials struct {
	Token    string   `yaml:"token"`
	Username string   `yaml:"username"`
	Roles    []string `yaml:"roles,flow"`
}

// Store reads and writes the credentials file. With a passphrase the
// file content is AES-encrypted at rest.
type Store struct {
	path string
	key  []byte
}

func NewStore(path, passphrase string) *Store {
	s := &Store{path: path}
	if passphrase != "" {
		s.key = util.DeriveKey(passphrase)
	}
	return s
}

// Load returns the persisted token and profile. A missing file is not
// an error; it just means nobody is logged in.
func (s *Store) Load() (string, *m.Profile, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("error reading credentials file %w", err)
	}

	text := string(raw)
	if s.key != nil {
		text, err = util.Decrypt(s.key, text)
		if err != nil {
			return "", nil, fmt.Errorf("error decrypting credentials file %w", err)
		}
	}

	var c credentials
	if err := yaml.Unmarshal([]byte(text), &c); err != nil {
		return "", nil, fmt.Errorf("error decoding credentials file %w", err)
	}

	return c.Token, &m.Profile{Username: c.Username, Roles: c.Roles}, nil
}

func (s *Store) Save(token string, profile m.Profile) error {
	raw, err := yaml.Marshal(credentials{
		Token:    token,
		Username: profile.Username,
		Roles:    profile.Roles,
	})
	if err != nil {
		return fmt.Errorf("error encoding credentials %w", err)
	}

	text := string(raw)
	if s.key != nil {
		text, err = util.Encrypt(s.key, text)
		if err != nil {
			return fmt.Errorf("error encrypting credentials %w", err)
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("error creating credentials dir %w", err)
		}
	}
	return os.WriteFile(s.path, []byte(text), 0o600)
}

func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
