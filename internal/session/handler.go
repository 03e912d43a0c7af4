package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"recording-orchestrator/internal/platform/metrics"
)

// Handler exposes the session lifecycle over HTTP using go-chi. Capture
// process wrappers call these endpoints to obtain filenames before recording
// and to report produced files after.
type Handler struct {
	mgr     *Manager
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler for the given Manager. metrics may be nil to
// disable metric recording (e.g. in tests).
func NewHandler(mgr *Manager, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{mgr: mgr, log: log, metrics: m}
}

type createRequest struct {
	Timestamp string `json:"timestamp"`
	Mode      string `json:"mode"`
}

type kinectFilenameRequest struct {
	CmdType     string `json:"cmd_type"`
	Host        string `json:"host"`
	DeviceIndex int    `json:"device_index"`
}

type audioFilenameRequest struct {
	DeviceIndex int `json:"device_index"`
}

type registerFileRequest struct {
	Filename string `json:"filename"`
}

type finalizeRequest struct {
	Metadata map[string]any `json:"metadata"`
}

type filenameResponse struct {
	Filename string `json:"filename"`
}

type statusResponse struct {
	Active  bool         `json:"active"`
	Session *SessionInfo `json:"session,omitempty"`
}

type finalizeResponse struct {
	ManifestPath string `json:"manifest_path"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps manager errors onto HTTP statuses. Lifecycle precondition
// violations are 409 so orchestration code can tell "already active" from
// "no session" by the error text and decide whether to retry or start fresh.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionAlreadyActive), errors.Is(err, ErrNoActiveSession):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidMode), errors.Is(err, ErrInvalidCmdType):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// CreateSession handles POST /session.
// Body: { "timestamp": "2025-08-14_15-30-45", "mode": "sync" }, both optional.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.log.Debug("invalid create body", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
	}

	info, err := h.mgr.Create(req.Timestamp, Mode(req.Mode))
	if err != nil {
		h.log.Error("create session failed", slog.String("error", err.Error()))
		h.writeError(w, err)
		return
	}

	h.log.Info("session created via API", slog.String("session_dir", info.SessionDir))
	writeJSON(w, http.StatusCreated, info)
	if h.metrics != nil {
		h.metrics.IncSessionsCreated()
	}
}

// GetSession handles GET /session. Absence of a session is a normal reply,
// never an error, so monitors can poll safely.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	info, ok := h.mgr.CurrentInfo()
	if !ok {
		writeJSON(w, http.StatusOK, statusResponse{Active: false})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Active: true, Session: &info})
}

// KinectFilename handles POST /session/filenames/kinect.
// Body: { "cmd_type": "master", "host": "127.0.0.1", "device_index": 0 }.
func (h *Handler) KinectFilename(w http.ResponseWriter, r *http.Request) {
	var req kinectFilenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.DeviceIndex < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "device_index must be non-negative"})
		return
	}

	filename, err := h.mgr.GenerateKinectFilename(CmdType(req.CmdType), req.Host, req.DeviceIndex)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filenameResponse{Filename: filename})
}

// AudioFilename handles POST /session/filenames/audio.
// Body: { "device_index": 1 }.
func (h *Handler) AudioFilename(w http.ResponseWriter, r *http.Request) {
	var req audioFilenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.DeviceIndex < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "device_index must be non-negative"})
		return
	}

	filename, err := h.mgr.GenerateAudioFilename(req.DeviceIndex)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filenameResponse{Filename: filename})
}

// RegisterFile handles POST /session/files.
// Body: { "filename": "2025-08-14_15-30-45-master-master_cam.mkv" }.
func (h *Handler) RegisterFile(w http.ResponseWriter, r *http.Request) {
	var req registerFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Filename == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "filename is required"})
		return
	}

	if err := h.mgr.RegisterFile(req.Filename); err != nil {
		h.log.Info("file registration rejected",
			slog.String("filename", req.Filename),
			slog.String("error", err.Error()))
		h.writeError(w, err)
		return
	}

	h.log.Debug("file registered via API", slog.String("filename", req.Filename))
	w.WriteHeader(http.StatusCreated)
	if h.metrics != nil {
		h.metrics.IncFilesRegistered()
	}
}

// FinalizeSession handles POST /session/finalize.
// Body: { "metadata": { "device_count": 2 } }.
func (h *Handler) FinalizeSession(w http.ResponseWriter, r *http.Request) {
	var req finalizeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
	}

	info, _ := h.mgr.CurrentInfo()
	if err := h.mgr.Finalize(req.Metadata); err != nil {
		h.log.Error("finalize failed", slog.String("error", err.Error()))
		h.writeError(w, err)
		return
	}

	h.log.Info("session finalized via API", slog.String("session_dir", info.SessionDir))
	writeJSON(w, http.StatusOK, finalizeResponse{
		ManifestPath: filepath.Join(info.SessionDir, ManifestFilename),
	})
	if h.metrics != nil {
		h.metrics.IncSessionsFinalized()
	}
}

// CleanupSession handles POST /session/cleanup. Always 200: cleanup is
// idempotent and never fails, so failure handlers can call it blindly.
func (h *Handler) CleanupSession(w http.ResponseWriter, r *http.Request) {
	_, wasActive := h.mgr.CurrentInfo()
	h.mgr.CleanupFailedSession()
	w.WriteHeader(http.StatusOK)
	if wasActive && h.metrics != nil {
		h.metrics.IncSessionsAborted()
	}
}

// Routes mounts all session endpoints onto r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/session", h.CreateSession)
	r.Get("/session", h.GetSession)
	r.Post("/session/filenames/kinect", h.KinectFilename)
	r.Post("/session/filenames/audio", h.AudioFilename)
	r.Post("/session/files", h.RegisterFile)
	r.Post("/session/finalize", h.FinalizeSession)
	r.Post("/session/cleanup", h.CleanupSession)
}
