// Package session implements the recording session manager: single active
// session lifecycle, canonical device filenames, and the durable session
// manifest. Capture processes (kinect recorders, audio recorders) run
// independently; they request filenames before recording and register
// produced files after, and this package guarantees they converge on one
// directory and one manifest.
package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"recording-orchestrator/internal/deviceconfig"
)

// Manager owns the single active session. All lifecycle operations
// read-modify-write the session state, so every entry point takes the mutex;
// the Manager is safe for concurrent use.
type Manager struct {
	log         *slog.Logger
	clock       func() time.Time
	removeFiles bool

	mu      sync.Mutex
	cfg     *deviceconfig.Config
	current *Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source. Used by tests for deterministic
// timestamps.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithFileRemoval controls whether CleanupFailedSession deletes the files it
// registered. When disabled, an aborted session keeps its files and gets a
// .aborted marker instead.
func WithFileRemoval(enabled bool) Option {
	return func(m *Manager) { m.removeFiles = enabled }
}

// NewManager returns a Manager using the given configuration snapshot.
// The configuration is read-only; the Manager never writes it back.
func NewManager(cfg *deviceconfig.Config, log *slog.Logger, opts ...Option) *Manager {
	if cfg == nil {
		cfg = deviceconfig.Default()
	}
	m := &Manager{
		log:         log,
		clock:       time.Now,
		removeFiles: true,
		cfg:         cfg,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session. customTimestamp and modeOverride are optional;
// when empty the configured timestamp format and default mode apply. Fails
// with ErrSessionAlreadyActive if a session is still active, with
// ErrInvalidMode for an unknown mode, and with an ErrDirectoryCreation-wrapped
// error if the session directory cannot be created; no partial session is
// left active on any failure path.
func (m *Manager) Create(customTimestamp string, modeOverride Mode) (SessionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return SessionInfo{}, ErrSessionAlreadyActive
	}

	now := m.clock()

	timestamp := customTimestamp
	if timestamp == "" {
		layout := m.cfg.Recording.TimestampFormat
		if layout == "" {
			layout = deviceconfig.DefaultTimestampFormat
		}
		timestamp = now.Format(layout)
	}

	mode := modeOverride
	if mode == "" {
		mode = Mode(m.cfg.Recording.Mode)
	}
	if !mode.Valid() {
		return SessionInfo{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	base := m.cfg.Recording.BaseOutputDir
	if base == "" {
		base = "recordings"
	}
	dir := BuildSessionPath(base, mode, timestamp)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return SessionInfo{}, fmt.Errorf("%w: %s: %w", ErrDirectoryCreation, dir, err)
	}

	m.current = &Session{
		Timestamp: timestamp,
		Mode:      mode,
		Dir:       dir,
		Metadata:  map[string]any{},
		StartedAt: now,
		State:     StateActive,
	}

	m.log.Info("recording session created",
		slog.String("session_dir", dir),
		slog.String("mode", string(mode)),
		slog.String("timestamp", timestamp),
	)
	return m.current.snapshot(), nil
}

// RegisterFile appends filename to the active session's file list. Duplicates
// are permitted and preserved in order; a device may be re-recorded within
// one session. Fails with ErrNoActiveSession when no session is active.
func (m *Manager) RegisterFile(filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoActiveSession
	}
	m.current.FilesCreated = append(m.current.FilesCreated, filename)
	m.log.Debug("file registered",
		slog.String("filename", filename),
		slog.Int("total", len(m.current.FilesCreated)),
	)
	return nil
}

// CurrentInfo returns a snapshot of the active session. ok is false when no
// session is active; polling monitors never get an error.
func (m *Manager) CurrentInfo() (SessionInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return SessionInfo{}, false
	}
	return m.current.snapshot(), true
}

// GenerateKinectFilename returns the canonical camera filename
// {timestamp}-{roleTag}-{friendlyName}{ext} for the active session. It does
// not register the name; callers register explicitly once the capture
// process reports completion, so generation stays idempotent.
func (m *Manager) GenerateKinectFilename(cmdType CmdType, host string, deviceIndex int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return "", ErrNoActiveSession
	}
	tag, ok := cmdType.roleTag()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCmdType, cmdType)
	}

	name := ResolveDeviceName(DeviceKinect, host, deviceIndex, m.cfg)
	ext := m.cfg.Kinect.ContainerExtension
	if ext == "" {
		ext = deviceconfig.DefaultContainerExtension
	}
	return fmt.Sprintf("%s-%s-%s%s", m.current.Timestamp, tag, name, ext), nil
}

// GenerateAudioFilename returns the canonical audio filename
// {timestamp}-{friendlyName}{ext} for the active session. Like the kinect
// generator it has no side effects.
func (m *Manager) GenerateAudioFilename(deviceIndex int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return "", ErrNoActiveSession
	}

	name := ResolveDeviceName(DeviceAudio, localBucket, deviceIndex, m.cfg)
	ext := m.cfg.Audio.FileExtension
	if ext == "" {
		ext = deviceconfig.DefaultAudioExtension
	}
	return fmt.Sprintf("%s-%s%s", m.current.Timestamp, name, ext), nil
}

// Finalize merges metadata into the session (caller keys win over
// session-internal keys), writes the manifest, and retires the session.
// If the manifest write fails the session stays active and Finalize can be
// retried; the error is wrapped in ErrManifestWrite.
func (m *Manager) Finalize(metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoActiveSession
	}
	s := m.current

	s.Metadata["finalized_at"] = m.clock().UTC().Format(time.RFC3339)
	for k, v := range metadata {
		s.Metadata[k] = v
	}

	info := s.snapshot()
	manifest := &Manifest{
		SchemaVersion: ManifestSchemaVersion,
		Timestamp:     s.Timestamp,
		Mode:          s.Mode,
		SessionDir:    s.Dir,
		FilesCreated:  info.FilesCreated,
		TotalFiles:    len(info.FilesCreated),
		Metadata:      info.Metadata,
	}

	if err := WriteManifest(s.Dir, manifest); err != nil {
		return fmt.Errorf("%w: %w", ErrManifestWrite, err)
	}

	s.State = StateFinalized
	m.current = nil

	m.log.Info("recording session finalized",
		slog.String("session_dir", s.Dir),
		slog.Int("files_created", len(s.FilesCreated)),
	)
	return nil
}

// CleanupFailedSession aborts the active session, best-effort. It removes
// only files it registered (capture processes may still be writing others),
// each step independently guarded so one failure does not abort the rest.
// A no-op when no session is active; never returns an error, so it is safe
// to call unconditionally from failure handlers.
func (m *Manager) CleanupFailedSession() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	s := m.current

	if m.removeFiles {
		for _, f := range s.FilesCreated {
			path := filepath.Join(s.Dir, f)
			if !strings.HasPrefix(path, s.Dir+string(filepath.Separator)) {
				// Registered name escapes the session directory; leave it.
				continue
			}
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				m.log.Warn("cleanup: could not remove file",
					slog.String("path", path),
					slog.String("error", err.Error()),
				)
			}
		}
		// Fails while capture processes still hold unregistered files there.
		if err := os.Remove(s.Dir); err != nil && !os.IsNotExist(err) {
			m.log.Warn("cleanup: session directory not removed",
				slog.String("session_dir", s.Dir),
				slog.String("error", err.Error()),
			)
		}
	} else {
		marker := filepath.Join(s.Dir, ".aborted")
		if err := os.WriteFile(marker, []byte(s.Timestamp+"\n"), 0o644); err != nil {
			m.log.Warn("cleanup: could not write abort marker",
				slog.String("path", marker),
				slog.String("error", err.Error()),
			)
		}
	}

	s.State = StateAborted
	m.current = nil

	m.log.Warn("recording session aborted",
		slog.String("session_dir", s.Dir),
		slog.Int("files_registered", len(s.FilesCreated)),
	)
}
