package runner

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/davidallendj/ipmiq/pkg/registry"
)

var testServer = registry.ServerRecord{
	Name:     "test-server",
	Host:     "10.44.0.10",
	Username: "admin",
	Password: "pa ss word",
}

// writeFakeTool drops a shell script standing in for ipmitool so the
// runner's process handling can be exercised without a BMC.
func writeFakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ipmitool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755); err != nil {
		t.Fatalf("Failed to write fake tool: %v", err)
	}
	return path
}

func TestRunSuccess(t *testing.T) {
	tool := NewIpmitool(writeFakeTool(t, `echo "Done"`))
	outcome := tool.Run(testServer, []string{"sensor", "list"})
	if !outcome.Ok {
		t.Fatalf("Expected success, got cause %v", outcome.Cause)
	}
	if outcome.Output != "Done" {
		t.Errorf("Expected output 'Done', got %q", outcome.Output)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	tool := NewIpmitool(writeFakeTool(t, `echo "bad creds" >&2; exit 1`))
	outcome := tool.Run(testServer, []string{"sensor", "list"})
	if outcome.Ok {
		t.Fatalf("Expected failure, got success with %q", outcome.Output)
	}
	if outcome.Cause != CauseNonZeroExit {
		t.Errorf("Expected CauseNonZeroExit, got %v", outcome.Cause)
	}
	if outcome.ExitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", outcome.ExitCode)
	}
	if outcome.Output != "bad creds" {
		t.Errorf("Expected stderr 'bad creds', got %q", outcome.Output)
	}
}

func TestRunToolMissing(t *testing.T) {
	for _, path := range []string{"", "/nonexistent/ipmitool"} {
		outcome := NewIpmitool(path).Run(testServer, []string{"fru"})
		if outcome.Ok || outcome.Cause != CauseToolMissing {
			t.Errorf("Expected CauseToolMissing for path %q, got %+v", path, outcome)
		}
	}
}

func TestRunArgumentsStaySeparate(t *testing.T) {
	// one argv entry per line; a password with spaces must stay intact
	tool := NewIpmitool(writeFakeTool(t, `printf '%s\n' "$@"`))
	outcome := tool.Run(testServer, []string{"sensor", "get", "PSU1 Status"})
	if !outcome.Ok {
		t.Fatalf("Expected success, got cause %v", outcome.Cause)
	}

	args := strings.Split(outcome.Output, "\n")
	expected := []string{
		"-I", "lanplus",
		"-H", "10.44.0.10",
		"-U", "admin",
		"-P", "pa ss word",
		"sensor", "get", "PSU1 Status",
	}
	if len(args) != len(expected) {
		t.Fatalf("Expected %d argv entries, got %d: %v", len(expected), len(args), args)
	}
	for i := range expected {
		if args[i] != expected[i] {
			t.Errorf("Expected argv[%d] %q, got %q", i, expected[i], args[i])
		}
	}
}

func TestRunWorkingDirectoryIsToolDir(t *testing.T) {
	tool := NewIpmitool(writeFakeTool(t, `pwd`))
	outcome := tool.Run(testServer, nil)
	if !outcome.Ok {
		t.Fatalf("Expected success, got cause %v", outcome.Cause)
	}
	if outcome.Output != filepath.Dir(tool.Path) {
		t.Errorf("Expected cwd %q, got %q", filepath.Dir(tool.Path), outcome.Output)
	}
}

func TestRunBuffersLongLines(t *testing.T) {
	// a raw sensor dump can put the whole payload on one line, well past
	// any fixed per-line buffer; the full line must come back intact
	const width = 70000
	tool := NewIpmitool(writeFakeTool(t, `head -c `+strconv.Itoa(width)+` /dev/zero | tr '\0' x; echo`))
	outcome := tool.Run(testServer, []string{"sensor", "list"})
	if !outcome.Ok {
		t.Fatalf("Expected success, got cause %v: %q", outcome.Cause, outcome.Output)
	}
	if len(outcome.Output) != width {
		t.Fatalf("Expected %d bytes of output, got %d", width, len(outcome.Output))
	}
	if outcome.Output != strings.Repeat("x", width) {
		t.Errorf("Long output line came back altered")
	}
}

func TestRunReplacesInvalidUTF8(t *testing.T) {
	// 0xF8 can never start a UTF-8 sequence; some firmwares emit such
	// bytes in sensor names
	tool := NewIpmitool(writeFakeTool(t, `printf 'Temp \370C\n'`))
	outcome := tool.Run(testServer, []string{"sensor", "list"})
	if !outcome.Ok {
		t.Fatalf("Expected success, got cause %v", outcome.Cause)
	}
	if outcome.Output != "Temp �C" {
		t.Errorf("Expected invalid byte replaced, got %q", outcome.Output)
	}
}

func TestRunTrimsTrailingWhitespace(t *testing.T) {
	tool := NewIpmitool(writeFakeTool(t, `printf 'Done   \n\n\n'`))
	outcome := tool.Run(testServer, nil)
	if !outcome.Ok {
		t.Fatalf("Expected success, got cause %v", outcome.Cause)
	}
	if outcome.Output != "Done" {
		t.Errorf("Expected trimmed output 'Done', got %q", outcome.Output)
	}
}
