package deviceconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_missing_file_returns_defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recording.Mode != "sync" {
		t.Errorf("default mode = %q", cfg.Recording.Mode)
	}
	if cfg.Recording.BaseOutputDir != "recordings" {
		t.Errorf("default base dir = %q", cfg.Recording.BaseOutputDir)
	}
	if cfg.Recording.TimestampFormat != DefaultTimestampFormat {
		t.Errorf("default timestamp format = %q", cfg.Recording.TimestampFormat)
	}
	if cfg.Kinect.ContainerExtension != ".mkv" || cfg.Audio.FileExtension != ".wav" {
		t.Errorf("default extensions = %q/%q", cfg.Kinect.ContainerExtension, cfg.Audio.FileExtension)
	}
}

func TestLoad_overrides_and_defaults_merge(t *testing.T) {
	path := writeConfig(t, `{
		"recording": {"mode": "standalone", "base_output_dir": "/data/captures"},
		"kinect": {
			"device_names": {
				"127.0.0.1": {"0": "master_cam", "2": "left_cam"},
				"local": {"1": "standalone_cam"}
			},
			"ip_devices": {"127.0.0.1": [0, 2, 3]}
		},
		"audio": {"device_names": {"1": "main_mic"}}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recording.Mode != "standalone" {
		t.Errorf("mode = %q", cfg.Recording.Mode)
	}
	if cfg.Recording.BaseOutputDir != "/data/captures" {
		t.Errorf("base dir = %q", cfg.Recording.BaseOutputDir)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Recording.TimestampFormat != DefaultTimestampFormat {
		t.Errorf("timestamp format = %q", cfg.Recording.TimestampFormat)
	}
	if cfg.Kinect.ContainerExtension != ".mkv" {
		t.Errorf("container extension = %q", cfg.Kinect.ContainerExtension)
	}
	// IP-keyed tables survive intact (dots in keys must not be split).
	if got := cfg.Kinect.DeviceNames["127.0.0.1"]["2"]; got != "left_cam" {
		t.Errorf("device name lookup = %q, want left_cam", got)
	}
	if got := cfg.Kinect.DeviceNames["local"]["1"]; got != "standalone_cam" {
		t.Errorf("local bucket lookup = %q", got)
	}
	if got := cfg.Audio.DeviceNames["1"]; got != "main_mic" {
		t.Errorf("audio name lookup = %q", got)
	}
	if devs := cfg.Kinect.IPDevices["127.0.0.1"]; len(devs) != 3 || devs[2] != 3 {
		t.Errorf("ip_devices = %v", devs)
	}
}

func TestLoad_rejects_invalid_mode(t *testing.T) {
	path := writeConfig(t, `{"recording": {"mode": "bogus"}}`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected schema validation error")
	}
	if !strings.Contains(err.Error(), "schema validation failed") {
		t.Errorf("error = %v", err)
	}
}

func TestLoad_rejects_bad_device_name_types(t *testing.T) {
	path := writeConfig(t, `{"kinect": {"device_names": {"127.0.0.1": {"0": 5}}}}`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected schema validation error for non-string device name")
	}
}

func TestLoad_rejects_malformed_json(t *testing.T) {
	path := writeConfig(t, `{"recording": `)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidateRaw_accepts_defaults_document(t *testing.T) {
	if err := ValidateRaw([]byte(`{}`)); err != nil {
		t.Errorf("empty document should validate: %v", err)
	}
	if err := ValidateRaw([]byte(`{"recording": {"mode": "sync", "duration": 10}}`)); err != nil {
		t.Errorf("valid document rejected: %v", err)
	}
}
