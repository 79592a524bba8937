package runner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/davidallendj/ipmiq/pkg/registry"
	"github.com/rs/zerolog/log"
)

// Ipmitool runs the bundled ipmitool binary against a BMC over lanplus.
// The zero value (empty Path) is usable and fails every Run() with
// CauseToolMissing, which lets the dispatcher keep working on hosts where
// the bundle was never unpacked.
type Ipmitool struct {
	// Path is the absolute path of the ipmitool executable, or empty when
	// resolution failed at startup.
	Path string
}

func NewIpmitool(path string) *Ipmitool {
	return &Ipmitool{Path: path}
}

// Run() invokes ipmitool with the fixed lanplus connection arguments for
// the server followed by argTail, and buffers both output streams to
// completion. Each connection value is its own argv entry so passwords
// containing spaces survive intact. The child's working directory is the
// tool's own directory; the bundled builds locate their runtime files
// relative to the executable.
//
// Output is read line by line as it arrives purely so the debug log can
// record time-to-first-byte; the caller always gets the complete buffered
// text. Run never returns an error: every fault is folded into the
// Outcome.
func (t *Ipmitool) Run(server registry.ServerRecord, argTail []string) Outcome {
	if t.Path == "" {
		return Failed(CauseToolMissing, 0, "")
	}
	if _, err := os.Stat(t.Path); err != nil {
		log.Error().Err(err).Str("path", t.Path).Msg("ipmitool executable is not accessible")
		return Failed(CauseToolMissing, 0, "")
	}

	args := []string{
		"-I", "lanplus",
		"-H", server.Host,
		"-U", server.Username,
		"-P", server.Password,
	}
	args = append(args, argTail...)

	cmd := exec.Command(t.Path, args...)
	cmd.Dir = filepath.Dir(t.Path)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Failed(CauseUnexpected, 0, fmt.Sprintf("failed to open stdout pipe: %v", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Failed(CauseUnexpected, 0, fmt.Sprintf("failed to open stderr pipe: %v", err))
	}

	start := time.Now()
	log.Debug().Str("host", server.Host).Strs("args", argTail).Msg("spawning ipmitool")
	if err := cmd.Start(); err != nil {
		log.Error().Err(err).Msg("failed to spawn ipmitool")
		return Failed(CauseUnexpected, 0, fmt.Sprintf("failed to spawn ipmitool: %v", err))
	}
	log.Debug().Dur("spawn", time.Since(start)).Msg("ipmitool process created, reading output")

	var (
		outputLines []string
		errorLines  []string
		readErrs    [2]error
		firstByte   sync.Once
		wg          sync.WaitGroup
	)
	// ReadString rather than a Scanner: sensor dumps can produce lines far
	// past any fixed token limit, and a truncated capture must surface as a
	// fault instead of a short Success
	readStream := func(name string, r *bufio.Reader, lines *[]string, readErr *error) {
		defer wg.Done()
		for {
			line, err := r.ReadString('\n')
			if line != "" {
				firstByte.Do(func() {
					log.Debug().Dur("first-byte", time.Since(start)).Msg("received first line of ipmitool output")
				})
				// ipmitool can emit raw sensor bytes on some firmwares; a
				// non-text line must not fail the whole query
				line = strings.ToValidUTF8(strings.TrimRight(line, " \t\r\n"), "�")
				log.Debug().Str("stream", name).Msg(line)
				*lines = append(*lines, line)
			}
			if err != nil {
				if err != io.EOF {
					*readErr = err
				}
				return
			}
		}
	}
	wg.Add(2)
	go readStream("stdout", bufio.NewReader(stdout), &outputLines, &readErrs[0])
	go readStream("stderr", bufio.NewReader(stderr), &errorLines, &readErrs[1])
	wg.Wait()

	err = cmd.Wait()
	log.Debug().Dur("total", time.Since(start)).Msg("ipmitool process exited")
	for _, readErr := range readErrs {
		if readErr != nil {
			log.Error().Err(readErr).Msg("failed to read ipmitool output")
			return Failed(CauseUnexpected, 0, fmt.Sprintf("failed to read ipmitool output: %v", readErr))
		}
	}
	if err == nil {
		return Succeeded(strings.TrimRight(strings.Join(outputLines, "\n"), " \t\r\n"))
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		code := exitErr.ExitCode()
		log.Debug().Int("code", code).Msg("ipmitool exited non-zero")
		return Failed(CauseNonZeroExit, code, strings.TrimRight(strings.Join(errorLines, "\n"), " \t\r\n"))
	}
	log.Error().Err(err).Msg("ipmitool invocation faulted")
	return Failed(CauseUnexpected, 0, fmt.Sprintf("ipmitool invocation faulted: %v", err))
}
