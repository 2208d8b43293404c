package auth

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Credentials is the locally persisted identity for one signed-in
// user of the service.
type Credentials struct {
	AccessToken     string `yaml:"access_token"`
	RefreshToken    string `yaml:"refresh_token"`
	OrganizationKey string `yaml:"organization_key"`
	UserID          string `yaml:"user_id"`
	Email           string `yaml:"email"`
	Name            string `yaml:"name"`
}

// FileStore is a yaml-backed credential store. Reads are frequent and
// concurrent; writes happen on explicit user actions (sign in, org key
// change) and are last-writer-wins.
type FileStore struct {
	path  string
	mu    sync.RWMutex
	creds Credentials
}

var _ Provider = (*FileStore)(nil)

// NewFileStore opens the store at path. A missing file yields an
// empty, savable store.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading credentials file")
	}
	if err := yaml.Unmarshal(data, &fs.creds); err != nil {
		return nil, errors.Wrap(err, "parsing credentials file")
	}
	return fs, nil
}

func (f *FileStore) AccessToken() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.creds.AccessToken
}

func (f *FileStore) OrganizationKey() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.creds.OrganizationKey
}

// Current returns a copy of the stored credentials.
func (f *FileStore) Current() Credentials {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.creds
}

// Update replaces the stored credentials and persists them.
func (f *FileStore) Update(c Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creds = c
	data, err := yaml.Marshal(&f.creds)
	if err != nil {
		return errors.Wrap(err, "encoding credentials")
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return errors.Wrap(err, "writing credentials file")
	}
	return nil
}
