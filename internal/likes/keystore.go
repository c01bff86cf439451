package likes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNoKey is returned by Keystore.Load when no API key has been configured.
var ErrNoKey = errors.New("likes API key not configured")

// Keystore persists the likes API key on disk. The key is operator-supplied
// at runtime via the /setkey admin command and survives restarts.
type Keystore struct {
	path string
	mu   sync.Mutex
}

// NewKeystore creates a Keystore storing the key at path.
func NewKeystore(path string) *Keystore {
	return &Keystore{path: path}
}

// Save writes the key to disk atomically with owner-only permissions.
func (k *Keystore) Save(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("cannot save empty API key")
	}

	if err := os.MkdirAll(filepath.Dir(k.path), 0o755); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	tmp := k.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(key), 0o600); err != nil {
		return fmt.Errorf("failed to write API key: %w", err)
	}
	if err := os.Rename(tmp, k.path); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	return nil
}

// Load reads the key from disk. Returns ErrNoKey when the key file does not
// exist or is empty.
func (k *Keystore) Load() (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := os.ReadFile(k.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoKey
		}
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrNoKey
	}
	return key, nil
}

// MaskKey renders a key for display, keeping only the first and last few
// characters visible.
func MaskKey(key string) string {
	const visible = 8
	if len(key) <= 2*visible {
		return strings.Repeat("*", len(key))
	}
	return key[:visible] + "..." + key[len(key)-visible:]
}
