package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(newTestManager(t), testLogger(), nil)
}

func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateSession(t *testing.T) {
	r := newTestRouter(newTestHandler(t))

	rec := postJSON(t, r, "/session", map[string]string{
		"timestamp": "2025-08-14_15-30-45",
		"mode":      "sync",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var info SessionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if info.Timestamp != "2025-08-14_15-30-45" || info.Mode != ModeSync {
		t.Errorf("session = %+v", info)
	}
}

func TestHandler_CreateSession_conflict(t *testing.T) {
	r := newTestRouter(newTestHandler(t))

	if rec := postJSON(t, r, "/session", nil); rec.Code != http.StatusCreated {
		t.Fatalf("setup: expected 201, got %d", rec.Code)
	}
	rec := postJSON(t, r, "/session", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for second create, got %d", rec.Code)
	}
}

func TestHandler_CreateSession_invalid_mode(t *testing.T) {
	r := newTestRouter(newTestHandler(t))

	rec := postJSON(t, r, "/session", map[string]string{"mode": "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid mode, got %d", rec.Code)
	}
}

func TestHandler_CreateSession_bad_body(t *testing.T) {
	r := newTestRouter(newTestHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_GetSession(t *testing.T) {
	r := newTestRouter(newTestHandler(t))

	// Absent session polls cleanly: 200 with active=false, never an error.
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var st statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Active || st.Session != nil {
		t.Errorf("expected inactive status, got %+v", st)
	}

	if rec := postJSON(t, r, "/session", nil); rec.Code != http.StatusCreated {
		t.Fatal("setup create failed")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if !st.Active || st.Session == nil {
		t.Errorf("expected active status, got %+v", st)
	}
}

func TestHandler_KinectFilename(t *testing.T) {
	r := newTestRouter(newTestHandler(t))
	if rec := postJSON(t, r, "/session", map[string]string{"timestamp": "2025-08-14_15-30-45"}); rec.Code != http.StatusCreated {
		t.Fatal("setup create failed")
	}

	rec := postJSON(t, r, "/session/filenames/kinect", map[string]any{
		"cmd_type":     "master",
		"host":         "127.0.0.1",
		"device_index": 0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var reply filenameResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatal(err)
	}
	if reply.Filename != "2025-08-14_15-30-45-master-master_cam.mkv" {
		t.Errorf("filename = %q", reply.Filename)
	}
}

func TestHandler_KinectFilename_validation(t *testing.T) {
	r := newTestRouter(newTestHandler(t))
	if rec := postJSON(t, r, "/session", nil); rec.Code != http.StatusCreated {
		t.Fatal("setup create failed")
	}

	t.Run("invalid_cmd_type", func(t *testing.T) {
		rec := postJSON(t, r, "/session/filenames/kinect", map[string]any{
			"cmd_type": "observer", "host": "127.0.0.1", "device_index": 0,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("negative_index", func(t *testing.T) {
		rec := postJSON(t, r, "/session/filenames/kinect", map[string]any{
			"cmd_type": "master", "host": "127.0.0.1", "device_index": -1,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandler_AudioFilename_no_session(t *testing.T) {
	r := newTestRouter(newTestHandler(t))

	rec := postJSON(t, r, "/session/filenames/audio", map[string]any{"device_index": 1})
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 with no session, got %d", rec.Code)
	}
}

func TestHandler_RegisterFile(t *testing.T) {
	r := newTestRouter(newTestHandler(t))

	// No session yet: precondition violation.
	rec := postJSON(t, r, "/session/files", map[string]string{"filename": "a.mkv"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 with no session, got %d", rec.Code)
	}

	if rec := postJSON(t, r, "/session", nil); rec.Code != http.StatusCreated {
		t.Fatal("setup create failed")
	}
	rec = postJSON(t, r, "/session/files", map[string]string{"filename": "a.mkv"})
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	rec = postJSON(t, r, "/session/files", map[string]string{"filename": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty filename, got %d", rec.Code)
	}
}

func TestHandler_Finalize_flow(t *testing.T) {
	h := newTestHandler(t)
	r := newTestRouter(h)

	if rec := postJSON(t, r, "/session", map[string]string{"timestamp": "2025-08-14_15-30-45", "mode": "sync"}); rec.Code != http.StatusCreated {
		t.Fatal("setup create failed")
	}
	for _, f := range []string{"one.mkv", "two.wav"} {
		if rec := postJSON(t, r, "/session/files", map[string]string{"filename": f}); rec.Code != http.StatusCreated {
			t.Fatalf("register %s failed: %d", f, rec.Code)
		}
	}

	rec := postJSON(t, r, "/session/finalize", map[string]any{
		"metadata": map[string]any{"device_count": 2},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var reply finalizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatal(err)
	}
	if reply.ManifestPath == "" {
		t.Error("expected manifest path in reply")
	}

	// Registering into the finalized session is a conflict.
	rec = postJSON(t, r, "/session/files", map[string]string{"filename": "late.mkv"})
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 after finalize, got %d", rec.Code)
	}

	// Finalizing again without a session is a conflict, too.
	rec = postJSON(t, r, "/session/finalize", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for double finalize, got %d", rec.Code)
	}
}

func TestHandler_Cleanup_always_ok(t *testing.T) {
	r := newTestRouter(newTestHandler(t))

	rec := postJSON(t, r, "/session/cleanup", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("cleanup without session: expected 200, got %d", rec.Code)
	}

	if rec := postJSON(t, r, "/session", nil); rec.Code != http.StatusCreated {
		t.Fatal("setup create failed")
	}
	rec = postJSON(t, r, "/session/cleanup", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("cleanup with session: expected 200, got %d", rec.Code)
	}

	// After cleanup, create succeeds again.
	if rec := postJSON(t, r, "/session", nil); rec.Code != http.StatusCreated {
		t.Errorf("create after cleanup: expected 201, got %d", rec.Code)
	}
}
