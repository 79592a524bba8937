package secrets

import "encoding/json"

// StaticStore returns the same credential pair for every ID. Used when
// --username/--password are passed explicitly and every server shares one
// account.
type StaticStore struct {
	Username string
	Password string
}

func NewStaticStore(username, password string) *StaticStore {
	return &StaticStore{
		Username: username,
		Password: password,
	}
}

func (s *StaticStore) Get(id string) (string, error) {
	b, err := json.Marshal(Credentials{Username: s.Username, Password: s.Password})
	return string(b), err
}

func (s *StaticStore) Put(id, secret string) error {
	return nil
}

func (s *StaticStore) IDs() ([]string, error) {
	return []string{"static_creds"}, nil
}
