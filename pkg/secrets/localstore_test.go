package secrets

import (
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestNewLocalStore(t *testing.T) {
	masterKey, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "test_secrets.json")
	store, err := NewLocalStore(masterKey, filename, true)
	if err != nil {
		t.Fatalf("Failed to create LocalStore: %v", err)
	}

	if store.filename != filename {
		t.Errorf("Expected filename %s, got %s", filename, store.filename)
	}
	if hex.EncodeToString(store.masterKey) != masterKey {
		t.Errorf("Expected master key %s, got %s", masterKey, hex.EncodeToString(store.masterKey))
	}
}

func TestGenerateMasterKey(t *testing.T) {
	key, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}
	if len(key) != 64 { // 32 bytes in hex representation
		t.Errorf("Expected key length 64, got %d", len(key))
	}
}

func TestPutAndGetCredentials(t *testing.T) {
	masterKey, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "test_secrets.json")
	store, err := NewLocalStore(masterKey, filename, true)
	if err != nil {
		t.Fatalf("Failed to create LocalStore: %v", err)
	}

	credsJSON := `{"username":"admin","password":"hunter2"}`
	if err := store.Put("my-server", credsJSON); err != nil {
		t.Fatalf("Failed to store secret: %v", err)
	}

	retrieved, err := store.Get("my-server")
	if err != nil {
		t.Fatalf("Failed to get secret: %v", err)
	}
	if retrieved != credsJSON {
		t.Errorf("Expected %s, got %s", credsJSON, retrieved)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(retrieved), &creds); err != nil {
		t.Fatalf("Failed to unmarshal credentials: %v", err)
	}
	if creds.Username != "admin" || creds.Password != "hunter2" {
		t.Errorf("Unexpected credentials %+v", creds)
	}
}

func TestGetSurvivesReopen(t *testing.T) {
	masterKey, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "test_secrets.json")
	store, err := NewLocalStore(masterKey, filename, true)
	if err != nil {
		t.Fatalf("Failed to create LocalStore: %v", err)
	}
	if err := store.Put("my-server", "secret-value"); err != nil {
		t.Fatalf("Failed to store secret: %v", err)
	}

	reopened, err := NewLocalStore(masterKey, filename, false)
	if err != nil {
		t.Fatalf("Failed to reopen LocalStore: %v", err)
	}
	retrieved, err := reopened.Get("my-server")
	if err != nil {
		t.Fatalf("Failed to get secret after reopen: %v", err)
	}
	if retrieved != "secret-value" {
		t.Errorf("Expected 'secret-value', got %s", retrieved)
	}
}

func TestGetUnknownID(t *testing.T) {
	masterKey, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}

	store, err := NewLocalStore(masterKey, filepath.Join(t.TempDir(), "s.json"), true)
	if err != nil {
		t.Fatalf("Failed to create LocalStore: %v", err)
	}
	if _, err := store.Get("nope"); err == nil {
		t.Errorf("Expected error for unknown secret ID")
	}
}

func TestIDs(t *testing.T) {
	masterKey, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}

	store, err := NewLocalStore(masterKey, filepath.Join(t.TempDir(), "s.json"), true)
	if err != nil {
		t.Fatalf("Failed to create LocalStore: %v", err)
	}
	if err := store.Put("server-1", "a"); err != nil {
		t.Fatalf("Failed to store secret: %v", err)
	}
	if err := store.Put("server-2", "b"); err != nil {
		t.Fatalf("Failed to store secret: %v", err)
	}

	ids, err := store.IDs()
	if err != nil {
		t.Fatalf("Failed to list secret IDs: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 secret IDs, got %d", len(ids))
	}
}

func TestStaticStoreGet(t *testing.T) {
	store := NewStaticStore("admin", "hunter2")
	secret, err := store.Get("anything")
	if err != nil {
		t.Fatalf("Failed to get static secret: %v", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(secret), &creds); err != nil {
		t.Fatalf("Failed to unmarshal static credentials: %v", err)
	}
	if creds.Username != "admin" || creds.Password != "hunter2" {
		t.Errorf("Unexpected credentials %+v", creds)
	}
}
