/*
Copyright 2025 Piotr Janik.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package session keeps the current user's tokens between calls.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cogniteo/cognito-auth/pkg/userpool"
)

// Store persists the session of the current user
type Store interface {
	// Load returns the stored session, or nil when there is none
	Load(ctx context.Context) (*userpool.Session, error)

	// Save replaces the stored session
	Save(ctx context.Context, s *userpool.Session) error

	// Clear removes the stored session
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory
type MemoryStore struct {
	mu      sync.Mutex
	current *userpool.Session
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*userpool.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, nil
	}
	s := *m.current
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *userpool.Session) error {
	if s == nil {
		return fmt.Errorf("session cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.current = &cp
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	return nil
}

// sessionFile is the on-disk layout of a FileStore
type sessionFile struct {
	Username     string    `yaml:"username"`
	Sub          string    `yaml:"sub,omitempty"`
	Email        string    `yaml:"email,omitempty"`
	IDToken      string    `yaml:"id_token"`
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	TokenType    string    `yaml:"token_type,omitempty"`
	IssuedAt     time.Time `yaml:"issued_at"`
	ExpiresAt    time.Time `yaml:"expires_at"`
}

// FileStore keeps the session in a YAML file readable only by its owner
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session file path cannot be empty")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(ctx context.Context) (*userpool.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file %s: %w", f.path, err)
	}

	var sf sessionFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to decode session file %s: %w", f.path, err)
	}

	return &userpool.Session{
		Username:     sf.Username,
		Sub:          sf.Sub,
		Email:        sf.Email,
		IDToken:      sf.IDToken,
		AccessToken:  sf.AccessToken,
		RefreshToken: sf.RefreshToken,
		TokenType:    sf.TokenType,
		IssuedAt:     sf.IssuedAt,
		ExpiresAt:    sf.ExpiresAt,
	}, nil
}

func (f *FileStore) Save(ctx context.Context, s *userpool.Session) error {
	if s == nil {
		return fmt.Errorf("session cannot be nil")
	}

	data, err := yaml.Marshal(&sessionFile{
		Username:     s.Username,
		Sub:          s.Sub,
		Email:        s.Email,
		IDToken:      s.IDToken,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		IssuedAt:     s.IssuedAt,
		ExpiresAt:    s.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file %s: %w", f.path, err)
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(f.path, 0o600)
}

func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file %s: %w", f.path, err)
	}
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)
