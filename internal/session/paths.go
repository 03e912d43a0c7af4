package session

import "path/filepath"

// BuildSessionPath returns the session directory for the given mode and
// timestamp: baseDir/mode/timestamp. It is pure and idempotent; directory
// creation is a separate step the Manager performs exactly once per session.
func BuildSessionPath(baseDir string, mode Mode, timestamp string) string {
	return filepath.Join(baseDir, string(mode), timestamp)
}
