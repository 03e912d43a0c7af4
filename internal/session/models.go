package session

import "time"

// Mode is the session-level recording topology.
type Mode string

const (
	// ModeStandalone records a single device with no sync group.
	ModeStandalone Mode = "standalone"
	// ModeSync records a coordinated master/subordinate device group.
	ModeSync Mode = "sync"
)

// Valid reports whether m is one of the supported recording modes.
func (m Mode) Valid() bool {
	return m == ModeStandalone || m == ModeSync
}

// DeviceClass distinguishes the capture device families for naming purposes.
type DeviceClass string

const (
	DeviceKinect DeviceClass = "kinect"
	DeviceAudio  DeviceClass = "audio"
)

// CmdType is the function of a camera within a sync group.
type CmdType string

const (
	CmdMaster      CmdType = "master"
	CmdSubordinate CmdType = "subordinate"
	CmdStandalone  CmdType = "standalone"
)

// roleTag returns the short token embedded in camera filenames, and whether
// the cmd type is one of the supported values.
func (c CmdType) roleTag() (string, bool) {
	switch c {
	case CmdMaster:
		return "master", true
	case CmdSubordinate:
		return "sub", true
	case CmdStandalone:
		return "standalone", true
	default:
		return "", false
	}
}

// State is the lifecycle state of a session.
type State string

const (
	StateActive    State = "active"
	StateFinalized State = "finalized"
	StateAborted   State = "aborted"
)

// Session is the manager-owned mutable state for one recording run.
// Timestamp and Dir are fixed at creation; FilesCreated is append-only while
// the session is active.
type Session struct {
	Timestamp    string
	Mode         Mode
	Dir          string
	FilesCreated []string
	Metadata     map[string]any
	StartedAt    time.Time
	State        State
}

// SessionInfo is the read-only snapshot returned to callers. The slice and
// map are copies; mutating them does not affect the live session.
type SessionInfo struct {
	Timestamp    string         `json:"timestamp"`
	Mode         Mode           `json:"mode"`
	SessionDir   string         `json:"session_dir"`
	FilesCreated []string       `json:"files_created"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	State        State          `json:"state"`
}

// Manifest is the durable record written to session_info.json at finalize
// time. Write-once; other tooling (playback, auditing) depends on this
// schema, so additions must bump SchemaVersion.
type Manifest struct {
	SchemaVersion int            `json:"schema_version"`
	Timestamp     string         `json:"timestamp"`
	Mode          Mode           `json:"mode"`
	SessionDir    string         `json:"session_dir"`
	FilesCreated  []string       `json:"files_created"`
	TotalFiles    int            `json:"total_files"`
	Metadata      map[string]any `json:"metadata"`
}

// ManifestSchemaVersion is the current manifest schema version.
const ManifestSchemaVersion = 1

// ManifestFilename is the manifest's name inside the session directory.
const ManifestFilename = "session_info.json"

func (s *Session) snapshot() SessionInfo {
	files := make([]string, len(s.FilesCreated))
	copy(files, s.FilesCreated)
	meta := make(map[string]any, len(s.Metadata))
	for k, v := range s.Metadata {
		meta[k] = v
	}
	return SessionInfo{
		Timestamp:    s.Timestamp,
		Mode:         s.Mode,
		SessionDir:   s.Dir,
		FilesCreated: files,
		Metadata:     meta,
		StartedAt:    s.StartedAt,
		State:        s.State,
	}
}
