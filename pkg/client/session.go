package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/gourmet/pkg/models"
)

// Session is what survives between runs: the signed-in user and their token.
type Session struct {
	User  *models.User `json:"user,omitempty"`
	Token string       `json:"token,omitempty"`
}

func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// SessionFile persists a Session as JSON. An empty path keeps it in memory.
type SessionFile struct {
	mu      sync.Mutex
	path    string
	current Session
}

// OpenSessionFile loads the session at path. A missing file is an empty
// session; an unreadable one is discarded.
func OpenSessionFile(path string) (*SessionFile, error) {
	f := &SessionFile{path: path}
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if err := json.Unmarshal(data, &f.current); err != nil {
		f.current = Session{}
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to discard corrupt session: %w", rmErr)
		}
	}
	return f, nil
}

func (f *SessionFile) Get() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Set replaces the session and writes it through to disk.
func (f *SessionFile) Set(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.current = s
	if f.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return os.Rename(tmp, f.path)
}

// Clear forgets the session and removes the file.
func (f *SessionFile) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.current = Session{}
	if f.path == "" {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
