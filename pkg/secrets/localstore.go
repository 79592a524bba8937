package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// LocalStore keeps AES-GCM encrypted secrets in a JSON file on disk, one
// entry per server name. Every secret is encrypted with a key derived
// from the master key and its own ID, so renaming a server invalidates
// its stored credentials rather than silently decrypting them for the
// wrong target.
type LocalStore struct {
	mu        sync.RWMutex
	masterKey []byte
	filename  string
	Secrets   map[string]string `json:"secrets"`
}

func NewLocalStore(masterKeyHex, filename string, create bool) (*LocalStore, error) {
	masterKey, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("unable to decode master key from hex representation: %v", err)
	}

	var stored map[string]string
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		if !create {
			return nil, fmt.Errorf("file %s does not exist", filename)
		}
		file, err := os.Create(filename)
		if err != nil {
			return nil, fmt.Errorf("unable to create file %s: %v", filename, err)
		}
		file.Close()
		stored = make(map[string]string)
	}

	if stored == nil {
		stored, err = readSecretsFile(filename)
		if err != nil {
			return nil, fmt.Errorf("unable to load secrets from file: %v", err)
		}
	}

	return &LocalStore{
		masterKey: masterKey,
		filename:  filename,
		Secrets:   stored,
	}, nil
}

// GenerateMasterKey creates a 32-byte random key and returns it as a hex
// string suitable for the MASTER_KEY environment variable.
func GenerateMasterKey() (string, error) {
	key := make([]byte, 32) // AES-256
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// Get decrypts and returns the secret stored under id.
func (l *LocalStore) Get(id string) (string, error) {
	l.mu.RLock()
	encrypted, exists := l.Secrets[id]
	l.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("no secret found for %s", id)
	}
	return decryptAESGCM(deriveAESKey(l.masterKey, id), encrypted)
}

// Put encrypts the secret under id and writes the store back to disk.
func (l *LocalStore) Put(id, secret string) error {
	encrypted, err := encryptAESGCM(deriveAESKey(l.masterKey, id), []byte(secret))
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.Secrets[id] = encrypted
	return writeSecretsFile(l.filename, l.Secrets)
}

// IDs returns the IDs of every stored secret. The values stay encrypted;
// nothing outside Get ever sees plaintext.
func (l *LocalStore) IDs() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.Secrets))
	for id := range l.Secrets {
		ids = append(ids, id)
	}
	return ids, nil
}

func writeSecretsFile(jsonFile string, store map[string]string) error {
	file, err := os.OpenFile(jsonFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(store)
}

func readSecretsFile(jsonFile string) (map[string]string, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("unable to open secret file %s: %v", jsonFile, err)
	}
	defer file.Close()

	store := make(map[string]string)
	err = json.NewDecoder(file).Decode(&store)
	return store, err
}
