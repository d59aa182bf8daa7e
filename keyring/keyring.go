// Package keyring stores the secrets AI Wrapper needs, such as the bearer
// token of a remote Ollama endpoint. It uses the system keyring when
// available and falls back to an encrypted file otherwise.
package keyring

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/yllada/ai-wrapper/common"
)

const (
	// serviceName is the identifier used in the system keyring.
	serviceName = "ai-wrapper"

	// OllamaTokenKey holds the bearer token sent to the Ollama endpoint.
	OllamaTokenKey = "ollama-token"

	saltSize = 16
)

// Store is a CredentialStore backed by the system keyring with an
// encrypted file fallback.
type Store struct {
	mu       sync.RWMutex
	useLocal bool
	path     string
	secret   []byte
	local    map[string]string
	log      common.Logger
}

var _ common.CredentialStore = (*Store)(nil)

// sealedFile is the on-disk form of the fallback store.
type sealedFile struct {
	Salt string `json:"salt"`
	Data string `json:"data"`
}

// Open probes the system keyring and prepares the fallback file at path.
// An empty path uses ~/.config/ai-wrapper/.credentials.
func Open(path string) (*Store, error) {
	if path == "" {
		dir, err := common.GetConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, common.CredentialsFileName)
	}
	s := &Store{
		path:   path,
		secret: machineSecret(),
		local:  make(map[string]string),
		log:    common.GetLogger().Named("keyring"),
	}

	probe := serviceName + "-probe"
	if err := keyring.Set(serviceName, probe, "probe"); err != nil {
		s.log.Info("System keyring unavailable, using encrypted file: %v", err)
		s.useLocal = true
	} else {
		keyring.Delete(serviceName, probe)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// machineSecret ties the fallback file to this user on this machine.
func machineSecret() []byte {
	hostname, _ := os.Hostname()
	machineID := "default-machine-id"
	if data, err := os.ReadFile("/etc/machine-id"); err == nil {
		machineID = strings.TrimSpace(string(data))
	}
	return []byte(fmt.Sprintf("%s-%s-%s-%d", serviceName, hostname, machineID, os.Getuid()))
}

func deriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, chacha20poly1305.KeySize)
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var file sealedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("%w: %w", common.ErrDecryption, err)
	}
	plain, err := open(s.secret, file)
	if err != nil {
		return err
	}
	return json.Unmarshal(plain, &s.local)
}

func (s *Store) save() error {
	plain, err := json.Marshal(s.local)
	if err != nil {
		return err
	}
	file, err := seal(s.secret, plain)
	if err != nil {
		return err
	}
	data, err := json.Marshal(file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func seal(secret, plaintext []byte) (sealedFile, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return sealedFile{}, fmt.Errorf("%w: %w", common.ErrEncryption, err)
	}
	aead, err := chacha20poly1305.NewX(deriveKey(secret, salt))
	if err != nil {
		return sealedFile{}, fmt.Errorf("%w: %w", common.ErrEncryption, err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return sealedFile{}, fmt.Errorf("%w: %w", common.ErrEncryption, err)
	}
	return sealedFile{
		Salt: base64.StdEncoding.EncodeToString(salt),
		Data: base64.StdEncoding.EncodeToString(aead.Seal(nonce, nonce, plaintext, nil)),
	}, nil
}

func open(secret []byte, file sealedFile) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryption, err)
	}
	data, err := base64.StdEncoding.DecodeString(file.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryption, err)
	}
	aead, err := chacha20poly1305.NewX(deriveKey(secret, salt))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryption, err)
	}
	if len(data) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", common.ErrDecryption)
	}
	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryption, err)
	}
	return plain, nil
}

// Store saves secret under key.
func (s *Store) Store(key, secret string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if secret == "" {
		return errors.New("secret cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.useLocal {
		err := keyring.Set(serviceName, key, secret)
		if err == nil {
			return nil
		}
		s.log.Warn("Keyring write failed, falling back to file: %v", err)
		s.useLocal = true
	}
	s.local[key] = secret
	return s.save()
}

// Get returns the secret stored under key, or ErrCredentialsNotFound.
func (s *Store) Get(key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.useLocal {
		secret, err := keyring.Get(serviceName, key)
		if err == nil {
			return secret, nil
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			s.log.Debug("Keyring read failed: %v", err)
		}
	}
	if secret, ok := s.local[key]; ok {
		return secret, nil
	}
	return "", common.ErrCredentialsNotFound
}

// Delete removes key from both backends.
func (s *Store) Delete(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.useLocal {
		if err := keyring.Delete(serviceName, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			s.log.Debug("Keyring delete failed: %v", err)
		}
	}
	if _, ok := s.local[key]; !ok {
		return nil
	}
	delete(s.local, key)
	return s.save()
}

// Exists reports whether a secret is stored under key.
func (s *Store) Exists(key string) bool {
	_, err := s.Get(key)
	return err == nil
}

// UsesFile reports whether secrets are written to the encrypted file.
func (s *Store) UsesFile() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.useLocal
}
