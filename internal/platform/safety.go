package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun reports whether the process is running via `go run` or `go test`,
// whose binaries live in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDataPath re-roots a local data file (database, session) into a
// temporary sandbox when sandbox is true, so development runs never touch the
// user's real notes. Paths already under the temp dir are kept as is.
func ResolveDataPath(path string, sandbox bool) string {
	if !sandbox || path == "" {
		return path
	}

	clean := filepath.Clean(path)
	rel, err := filepath.Rel(os.TempDir(), clean)
	if err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	name := filepath.Base(clean)
	if name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(os.TempDir(), "keep-dev", name)
}
