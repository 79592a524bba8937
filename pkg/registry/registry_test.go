package registry

import (
	"testing"

	"github.com/davidallendj/ipmiq/pkg/secrets"
)

const validDefinition = `{"name":"my-server","host":"10.44.0.10","username":"admin","password":"hunter2","sensor_groups":{"temps":["CPU1_Temp","CPU2_Temp"]}}`

func TestLoadRoundTrip(t *testing.T) {
	reg := Load([]string{validDefinition}, nil)
	if reg.Len() != 1 {
		t.Fatalf("Expected 1 server, got %d", reg.Len())
	}

	record, found := reg.Resolve("my-server")
	if !found {
		t.Fatalf("Failed to resolve 'my-server'")
	}
	if record.Name != "my-server" {
		t.Errorf("Expected name 'my-server', got %s", record.Name)
	}
	if record.Host != "10.44.0.10" {
		t.Errorf("Expected host '10.44.0.10', got %s", record.Host)
	}
	if record.Username != "admin" {
		t.Errorf("Expected username 'admin', got %s", record.Username)
	}
	if record.Password != "hunter2" {
		t.Errorf("Expected password 'hunter2', got %s", record.Password)
	}

	sensors, found := record.Group("temps")
	if !found {
		t.Fatalf("Failed to resolve sensor group 'temps'")
	}
	if len(sensors) != 2 || sensors[0] != "CPU1_Temp" || sensors[1] != "CPU2_Temp" {
		t.Errorf("Expected [CPU1_Temp CPU2_Temp], got %v", sensors)
	}
}

func TestLoadSkipsMalformed(t *testing.T) {
	definitions := []string{
		validDefinition,
		`{this is not json`,
		`{"name":"no-host","username":"admin","password":"x"}`,
	}
	reg := Load(definitions, nil)
	if reg.Len() != 1 {
		t.Fatalf("Expected exactly the valid server to load, got %d", reg.Len())
	}
	if _, found := reg.Resolve("my-server"); !found {
		t.Errorf("Expected the valid server to be resolvable")
	}
	if _, found := reg.Resolve("no-host"); found {
		t.Errorf("Expected the incomplete server to be skipped")
	}
}

func TestLoadDuplicateKeepsFirst(t *testing.T) {
	second := `{"name":"my-server","host":"10.44.0.99","username":"other","password":"x"}`
	reg := Load([]string{validDefinition, second}, nil)
	if reg.Len() != 1 {
		t.Fatalf("Expected 1 server, got %d", reg.Len())
	}
	record, _ := reg.Resolve("my-server")
	if record.Host != "10.44.0.10" {
		t.Errorf("Expected the first definition to win, got host %s", record.Host)
	}
}

func TestLoadPasswordFromStore(t *testing.T) {
	noPassword := `{"name":"vault-server","host":"10.44.0.11","username":"admin"}`

	reg := Load([]string{noPassword}, secrets.NewStaticStore("admin", "fromstore"))
	record, found := reg.Resolve("vault-server")
	if !found {
		t.Fatalf("Expected server with store-resolved password to load")
	}
	if record.Password != "fromstore" {
		t.Errorf("Expected password 'fromstore', got %s", record.Password)
	}

	// without a store the same definition is incomplete and must be skipped
	reg = Load([]string{noPassword}, nil)
	if reg.Len() != 0 {
		t.Errorf("Expected passwordless server to be skipped without a store, got %d", reg.Len())
	}
}

func TestNamesPreserveConfigOrder(t *testing.T) {
	definitions := []string{
		`{"name":"b-server","host":"h1","username":"u","password":"p"}`,
		`{"name":"a-server","host":"h2","username":"u","password":"p"}`,
	}
	names := Load(definitions, nil).Names()
	if len(names) != 2 || names[0] != "b-server" || names[1] != "a-server" {
		t.Errorf("Expected [b-server a-server], got %v", names)
	}
}

func TestGroupMissingOrEmpty(t *testing.T) {
	withEmpty := `{"name":"s","host":"h","username":"u","password":"p","sensor_groups":{"empty":[]}}`
	reg := Load([]string{withEmpty}, nil)
	record, _ := reg.Resolve("s")

	if _, found := record.Group("missing"); found {
		t.Errorf("Expected missing group to not resolve")
	}
	if _, found := record.Group("empty"); found {
		t.Errorf("Expected empty group to not resolve")
	}
}
