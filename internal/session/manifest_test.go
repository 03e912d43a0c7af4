package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleManifest() *Manifest {
	return &Manifest{
		SchemaVersion: ManifestSchemaVersion,
		Timestamp:     "2025-08-14_15-30-45",
		Mode:          ModeSync,
		SessionDir:    "recordings/sync/2025-08-14_15-30-45",
		FilesCreated:  []string{"a.mkv", "b.wav", "a.mkv"},
		TotalFiles:    3,
		Metadata:      map[string]any{"device_count": 2, "operator": "rig-3"},
	}
}

func TestWriteManifest_roundtrip(t *testing.T) {
	dir := t.TempDir()
	if err := WriteManifest(dir, sampleManifest()); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	got, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if got.Timestamp != "2025-08-14_15-30-45" || got.Mode != ModeSync {
		t.Errorf("header = %q/%q", got.Timestamp, got.Mode)
	}
	if len(got.FilesCreated) != 3 || got.FilesCreated[2] != "a.mkv" {
		t.Errorf("files (duplicates and order must survive) = %v", got.FilesCreated)
	}
}

func TestWriteManifest_canonical_bytes(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	m := sampleManifest()
	if err := WriteManifest(dirA, m); err != nil {
		t.Fatal(err)
	}
	if err := WriteManifest(dirB, m); err != nil {
		t.Fatal(err)
	}

	a, err := os.ReadFile(filepath.Join(dirA, ManifestFilename))
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dirB, ManifestFilename))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("identical manifests produced different bytes")
	}
	// RFC 8785 sorts object members; metadata keys appear in lexical order.
	if !strings.Contains(string(a), `"device_count":2`) {
		t.Errorf("canonical form missing compact device_count: %s", a)
	}
}

func TestWriteManifest_no_temp_left_behind(t *testing.T) {
	dir := t.TempDir()
	if err := WriteManifest(dir, sampleManifest()); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != ManifestFilename {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only %s, got %v", ManifestFilename, names)
	}
}

func TestWriteManifest_overwrites_existing(t *testing.T) {
	dir := t.TempDir()
	first := sampleManifest()
	if err := WriteManifest(dir, first); err != nil {
		t.Fatal(err)
	}

	second := sampleManifest()
	second.FilesCreated = []string{"only.mkv"}
	second.TotalFiles = 1
	if err := WriteManifest(dir, second); err != nil {
		t.Fatal(err)
	}

	got, err := ReadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalFiles != 1 {
		t.Errorf("rename should replace the manifest, total_files = %d", got.TotalFiles)
	}
}

func TestWriteManifest_missing_dir(t *testing.T) {
	err := WriteManifest(filepath.Join(t.TempDir(), "does-not-exist"), sampleManifest())
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
