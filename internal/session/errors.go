package session

import "errors"

var (
	// ErrSessionAlreadyActive is returned by Create when a session is still
	// active. The caller must finalize or clean up first; sessions are never
	// silently replaced.
	ErrSessionAlreadyActive = errors.New("a recording session is already active")

	// ErrNoActiveSession is returned by session-scoped operations invoked
	// with no active session. It indicates a caller ordering bug.
	ErrNoActiveSession = errors.New("no active recording session")

	// ErrInvalidMode is returned by Create for a mode outside
	// {standalone, sync}.
	ErrInvalidMode = errors.New("invalid recording mode")

	// ErrInvalidCmdType is returned by the kinect filename generator for a
	// cmd type outside {master, subordinate, standalone}.
	ErrInvalidCmdType = errors.New("invalid kinect cmd type")

	// ErrDirectoryCreation wraps failures to create the session directory.
	// Create leaves no partial session active on this path.
	ErrDirectoryCreation = errors.New("session directory creation failed")

	// ErrManifestWrite wraps failures to persist the session manifest.
	// The session stays active so Finalize can be retried.
	ErrManifestWrite = errors.New("session manifest write failed")
)
