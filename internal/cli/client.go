package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"recording-orchestrator/internal/session"
)

// Client is a thin HTTP client for the session manager API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient returns a Client for the session manager at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Status is the GET /session reply.
type Status struct {
	Active  bool                 `json:"active"`
	Session *session.SessionInfo `json:"session,omitempty"`
}

type filenameReply struct {
	Filename string `json:"filename"`
}

type finalizeReply struct {
	ManifestPath string `json:"manifest_path"`
}

// CreateSession starts a new session. timestamp and mode may be empty to use
// the server's configured defaults.
func (c *Client) CreateSession(timestamp, mode string) (session.SessionInfo, error) {
	var info session.SessionInfo
	body := map[string]string{}
	if timestamp != "" {
		body["timestamp"] = timestamp
	}
	if mode != "" {
		body["mode"] = mode
	}
	err := c.post("/session", body, &info)
	return info, err
}

// GetStatus returns the current session snapshot, if any.
func (c *Client) GetStatus() (Status, error) {
	var st Status
	err := c.get("/session", &st)
	return st, err
}

// KinectFilename asks the server for a canonical camera filename.
func (c *Client) KinectFilename(cmdType, host string, deviceIndex int) (string, error) {
	var reply filenameReply
	err := c.post("/session/filenames/kinect", map[string]any{
		"cmd_type":     cmdType,
		"host":         host,
		"device_index": deviceIndex,
	}, &reply)
	return reply.Filename, err
}

// AudioFilename asks the server for a canonical audio filename.
func (c *Client) AudioFilename(deviceIndex int) (string, error) {
	var reply filenameReply
	err := c.post("/session/filenames/audio", map[string]any{
		"device_index": deviceIndex,
	}, &reply)
	return reply.Filename, err
}

// RegisterFile reports a produced file to the active session.
func (c *Client) RegisterFile(filename string) error {
	return c.post("/session/files", map[string]string{"filename": filename}, nil)
}

// Finalize merges metadata, persists the manifest, and retires the session.
// Returns the manifest path on the server.
func (c *Client) Finalize(metadata map[string]any) (string, error) {
	var reply finalizeReply
	err := c.post("/session/finalize", map[string]any{"metadata": metadata}, &reply)
	return reply.ManifestPath, err
}

// Cleanup aborts the active session, if any.
func (c *Client) Cleanup() error {
	return c.post("/session/cleanup", nil, nil)
}

func (c *Client) post(path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling session manager: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("%s (HTTP %d)", e.Error, resp.StatusCode)
		}
		return fmt.Errorf("session manager returned HTTP %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
