package keyring

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/yllada/ai-wrapper/common"
)

func TestStore_SystemKeyring(t *testing.T) {
	keyring.MockInit()
	s, err := Open(filepath.Join(t.TempDir(), "creds"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.UsesFile() {
		t.Fatal("mock keyring should be used")
	}

	if err := s.Store(OllamaTokenKey, "s3cret"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	got, err := s.Get(OllamaTokenKey)
	if err != nil || got != "s3cret" {
		t.Errorf("Get() = %q, %v", got, err)
	}
	if common.FileExists(s.path) {
		t.Error("fallback file should not be written while the keyring works")
	}

	if err := s.Delete(OllamaTokenKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if s.Exists(OllamaTokenKey) {
		t.Error("token should be gone after Delete")
	}
}

func TestStore_FileFallback(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	path := filepath.Join(t.TempDir(), "creds")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !s.UsesFile() {
		t.Fatal("failing keyring should switch to the file")
	}
	if err := s.Store(OllamaTokenKey, "tok-123"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "tok-123") {
		t.Error("secret written in plain text")
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	got, err := reopened.Get(OllamaTokenKey)
	if err != nil || got != "tok-123" {
		t.Errorf("Get() after reopen = %q, %v", got, err)
	}
}

func TestStore_Errors(t *testing.T) {
	keyring.MockInit()
	s, err := Open(filepath.Join(t.TempDir(), "creds"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Get("missing"); !errors.Is(err, common.ErrCredentialsNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
	if err := s.Store("", "x"); err == nil {
		t.Error("empty key should be rejected")
	}
	if err := s.Store("k", ""); err == nil {
		t.Error("empty secret should be rejected")
	}
}

func TestOpen_TamperedFile(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	path := filepath.Join(t.TempDir(), "creds")

	file, err := seal([]byte("another-machine"), []byte(`{"k":"v"}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"salt":"`+file.Salt+`","data":"`+file.Data+`"}`), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); !errors.Is(err, common.ErrDecryption) {
		t.Errorf("Open() error = %v, want ErrDecryption", err)
	}
}

func TestSealOpen(t *testing.T) {
	secret := []byte("machine")
	file, err := seal(secret, []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	plain, err := open(secret, file)
	if err != nil || string(plain) != "payload" {
		t.Errorf("open() = %q, %v", plain, err)
	}
}
