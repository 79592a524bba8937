// The registry package holds the set of BMC targets that ipmiq is allowed
// to query. Each target comes from the `servers` list in the config file,
// where every entry is a JSON-encoded string (not a nested object) so the
// same value can be pasted into an environment variable or a bot config
// without worrying about the host format's nesting rules.
package registry

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/davidallendj/ipmiq/pkg/secrets"
	"github.com/rs/zerolog/log"
)

// A ServerRecord is a single validated BMC target. SensorGroups maps an
// operator-chosen group name to an ordered list of sensor identifiers as
// ipmitool knows them (e.g. "CPU1_Temp"). Records are immutable once they
// enter a Registry.
type ServerRecord struct {
	Name         string              `json:"name"`
	Host         string              `json:"host"`
	Username     string              `json:"username"`
	Password     string              `json:"password"`
	SensorGroups map[string][]string `json:"sensor_groups,omitempty"`
}

// Registry is the read-only lookup table built once at startup. Lookups
// need no synchronization since nothing mutates the maps after Load().
type Registry struct {
	servers map[string]ServerRecord
	// names preserves the config order for user-facing listings
	names []string
}

// Load() builds a Registry from a list of JSON-encoded server definitions.
// A definition that fails to decode, or decodes without all of the
// required fields, is logged and skipped; one bad entry never invalidates
// the rest, and Load never fails outright for that reason.
//
// A definition may omit its password, in which case the credentials are
// resolved from the secret store under the server's name. A record whose
// password cannot be resolved either way is skipped like any other
// incomplete definition.
func Load(definitions []string, store secrets.Store) *Registry {
	r := &Registry{servers: make(map[string]ServerRecord, len(definitions))}
	for i, def := range definitions {
		var record ServerRecord
		if err := json.Unmarshal([]byte(def), &record); err != nil {
			log.Error().Err(err).Msgf("failed to parse server definition %d, skipping", i+1)
			continue
		}
		if err := record.validate(); err != nil {
			log.Error().Err(err).Msgf("invalid server definition %d, skipping", i+1)
			continue
		}
		if record.Password == "" {
			record.Password = lookupPassword(store, record.Name)
		}
		if record.Password == "" {
			log.Error().Str("name", record.Name).Msgf("server definition %d has no password and none was found in the secret store, skipping", i+1)
			continue
		}
		if _, exists := r.servers[record.Name]; exists {
			log.Warn().Str("name", record.Name).Msgf("duplicate server definition %d, keeping the first", i+1)
			continue
		}
		r.servers[record.Name] = record
		r.names = append(r.names, record.Name)
	}
	log.Info().Msgf("registry loaded %d of %d server definitions", len(r.names), len(definitions))
	return r
}

// validate() checks the required fields of a decoded record.
func (s *ServerRecord) validate() error {
	if s.Name == "" {
		return fmt.Errorf("server definition is missing 'name'")
	}
	if s.Host == "" {
		return fmt.Errorf("server '%s' is missing 'host'", s.Name)
	}
	if s.Username == "" {
		return fmt.Errorf("server '%s' is missing 'username'", s.Name)
	}
	return nil
}

func lookupPassword(store secrets.Store, name string) string {
	if store == nil {
		return ""
	}
	secret, err := store.Get(name)
	if err != nil {
		log.Warn().Str("name", name).Err(err).Msg("no stored credentials for server")
		return ""
	}
	var creds secrets.Credentials
	if err := json.Unmarshal([]byte(secret), &creds); err != nil {
		log.Warn().Str("name", name).Err(err).Msg("failed to unmarshal stored credentials")
		return ""
	}
	return creds.Password
}

// Resolve() looks up a server by name.
func (r *Registry) Resolve(name string) (ServerRecord, bool) {
	record, found := r.servers[name]
	return record, found
}

// Names() returns the registered server names in config order. Used for
// the "available servers" portion of dispatcher replies.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len() reports the number of registered servers.
func (r *Registry) Len() int {
	return len(r.servers)
}

// Group() resolves a named sensor group on a record. The second return is
// false when the group does not exist or resolves to an empty list.
func (s *ServerRecord) Group(name string) ([]string, bool) {
	sensors, found := s.SensorGroups[name]
	if !found || len(sensors) == 0 {
		return nil, false
	}
	return sensors, true
}

// GroupNames() lists the record's sensor groups sorted for stable output.
func (s *ServerRecord) GroupNames() []string {
	names := make([]string, 0, len(s.SensorGroups))
	for name := range s.SensorGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
