package util

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
)

// PathExists() is a wrapper function that simplifies checking
// if a file or directory already exists at the provided path.
func PathExists(path string) (fs.FileInfo, bool) {
	fi, err := os.Stat(path)
	return fi, !os.IsNotExist(err)
}

// SplitPathForViper() is an utility function to split a path into 3 parts:
// - directory
// - filename
// - extension
// The intent was to break a path into a format that's more easily consumable
// by spf13/viper's API. See the "LoadConfig()" function in internal/config.go
// for more details.
func SplitPathForViper(path string) (string, string, string) {
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	return filepath.Dir(path), strings.TrimSuffix(filename, ext), strings.TrimPrefix(ext, ".")
}

// ResolveIpmitool() locates the ipmitool executable to shell out to. The
// bundled binary under baseDir (IPMI_CLI/linux/ipmitool, or
// IPMI_CLI/win/ipmitool.exe on Windows) is preferred; a plain $PATH
// lookup is the fallback. On Linux the bundled binary may have been
// unpacked without its execute bit, so the owner-execute bit is restored
// before use.
//
// Returns an empty string when nothing usable was found. That is not an
// error here; the tool runner answers every call with a tool-missing
// failure and the library-path operations keep working.
func ResolveIpmitool(baseDir string) string {
	var bundled string
	switch runtime.GOOS {
	case "windows":
		bundled = filepath.Join(baseDir, "IPMI_CLI", "win", "ipmitool.exe")
	default:
		bundled = filepath.Join(baseDir, "IPMI_CLI", "linux", "ipmitool")
	}

	if fi, exists := PathExists(bundled); exists && fi != nil {
		if runtime.GOOS != "windows" && fi.Mode()&0100 == 0 {
			if err := os.Chmod(bundled, fi.Mode()|0100); err != nil {
				log.Error().Err(err).Str("path", bundled).Msg("failed to set execute permission on bundled ipmitool")
				return ""
			}
			log.Info().Str("path", bundled).Msg("added execute permission to bundled ipmitool")
		}
		log.Debug().Str("path", bundled).Msg("using bundled ipmitool")
		return bundled
	}

	if found, err := exec.LookPath("ipmitool"); err == nil {
		log.Debug().Str("path", found).Msg("using system ipmitool")
		return found
	}

	log.Warn().Msg("no ipmitool found; sensor, fru, sel list, and chassis operations will be unavailable")
	return ""
}
