package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"revq/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBundle(t *testing.T) {
	path := writeFile(t, "bundle.json", `{
		"changeset": "abc123",
		"files": ["src/app.py", "src/util.py"],
		"diagnostics": {
			"pylint": [],
			"flake8": {}
		}
	}`)

	bundle, err := LoadBundle(path)
	if err != nil {
		t.Fatalf("LoadBundle() error = %v", err)
	}
	if bundle.Changeset != "abc123" {
		t.Errorf("Changeset = %q, want abc123", bundle.Changeset)
	}
	if len(bundle.Files) != 2 {
		t.Errorf("Files = %v, want 2 entries", bundle.Files)
	}
	if len(bundle.Diagnostics) != 2 {
		t.Errorf("Diagnostics = %d analyzers, want 2", len(bundle.Diagnostics))
	}
}

func TestLoadBundleErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"changeset": `},
		{"missing changeset", `{"files": ["a.py"], "diagnostics": {}}`},
		{"missing file list", `{"changeset": "abc123", "diagnostics": {}}`},
		{"empty path in file list", `{"changeset": "abc123", "files": ["a.py", ""], "diagnostics": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bundle.json", tt.content)
			_, err := LoadBundle(path)
			if err == nil {
				t.Fatal("LoadBundle() accepted an invalid bundle")
			}
			if errors.CodeOf(err) != errors.BundleInvalid {
				t.Errorf("error code = %s, want BUNDLE_INVALID", errors.CodeOf(err))
			}
		})
	}
}

func TestLoadBundleMissingFile(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("LoadBundle() accepted a missing file")
	}
	if errors.CodeOf(err) != errors.BundleInvalid {
		t.Errorf("error code = %s, want BUNDLE_INVALID", errors.CodeOf(err))
	}
}

func TestValidateAcceptsEmptyFileList(t *testing.T) {
	// A change-set can legitimately touch zero analyzable files.
	b := &DiagnosticsBundle{Changeset: "abc123", Files: []string{}}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil for empty (non-nil) file list", err)
	}
}

func TestLoadManifest(t *testing.T) {
	path := writeFile(t, "manifest.yaml", "analyzers:\n  - pylint\n  - flake8\n  - bandit\n")

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	want := []string{"pylint", "flake8", "bandit"}
	if !reflect.DeepEqual(manifest.Analyzers, want) {
		t.Errorf("Analyzers = %v, want %v", manifest.Analyzers, want)
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	manifest, err := LoadManifest(filepath.Join(t.TempDir(), "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest(missing) error = %v, want empty manifest", err)
	}
	if len(manifest.Analyzers) != 0 {
		t.Errorf("Analyzers = %v, want empty", manifest.Analyzers)
	}
}

func TestLoadManifestMalformed(t *testing.T) {
	path := writeFile(t, "manifest.yaml", "analyzers: [unclosed")
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("LoadManifest() accepted malformed YAML")
	}
}

func TestDiagnosticsRoundTrip(t *testing.T) {
	raw := json.RawMessage(`[{"path": "a.py"}]`)
	b := DiagnosticsBundle{
		Changeset:   "abc123",
		Files:       []string{"a.py"},
		Diagnostics: map[string]json.RawMessage{"pylint": raw},
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	var back DiagnosticsBundle
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if string(back.Diagnostics["pylint"]) != string(raw) {
		t.Errorf("diagnostics payload altered in transit: %s", back.Diagnostics["pylint"])
	}
}
