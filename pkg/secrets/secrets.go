// The secrets package keeps BMC credentials out of the main config file.
// A server definition may omit its password, in which case the loader
// looks the credentials up here using the server name as the secret ID.
package secrets

import (
	"fmt"
	"os"
)

// Store resolves credential secrets by ID. The two implementations are a
// static in-memory pair (credentials passed on the command line) and an
// encrypted local JSON file.
type Store interface {
	Get(id string) (string, error)
	Put(id, secret string) error
	IDs() ([]string, error)
}

// Credentials is the JSON shape every stored secret decodes to.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Open() opens the local store at filename using the MASTER_KEY
// environment variable as the encryption master key.
func Open(filename string) (Store, error) {
	if filename == "" {
		return nil, fmt.Errorf("path to secret store required")
	}
	masterKey := os.Getenv("MASTER_KEY")
	if masterKey == "" {
		return nil, fmt.Errorf("MASTER_KEY environment variable not set")
	}
	store, err := NewLocalStore(masterKey, filename, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open local secret store: %v", err)
	}
	return store, nil
}
