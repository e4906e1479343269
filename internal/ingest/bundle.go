package ingest

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	"revq/internal/errors"
)

// DiagnosticsBundle carries everything the engine consumes for one
// change-set: the full analyzed-file list (zero-issue files included,
// they are denominators for scoring) and each analyzer's raw native
// output exactly as the tool produced it. Fetching files and running the
// analyzers happen upstream; the engine never performs I/O beyond
// reading this bundle.
type DiagnosticsBundle struct {
	Changeset   string                     `json:"changeset"`
	Files       []string                   `json:"files"`
	Diagnostics map[string]json.RawMessage `json:"diagnostics"`

	// Expected names the analyzers that were supposed to run; an
	// expected analyzer that contributed nothing surfaces as a
	// coverage warning. Populated from the manifest, not the bundle.
	Expected []string `json:"-"`
}

// Manifest names the analyzers expected to run for a change-set.
type Manifest struct {
	Analyzers []string `yaml:"analyzers"`
}

// LoadBundle reads and validates a diagnostics bundle from a JSON file.
func LoadBundle(path string) (*DiagnosticsBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.BundleInvalid, "cannot read bundle "+path, err)
	}

	var bundle DiagnosticsBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, errors.New(errors.BundleInvalid, "cannot parse bundle "+path, err)
	}

	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// LoadManifest reads the expected-analyzer manifest from a YAML file.
// A missing file is not an error: coverage checking is opt-in.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, errors.New(errors.BundleInvalid, "cannot read manifest "+path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.New(errors.BundleInvalid, "cannot parse manifest "+path, err)
	}
	return &manifest, nil
}

// Validate checks the structural requirements on a bundle.
func (b *DiagnosticsBundle) Validate() error {
	if b.Changeset == "" {
		return errors.Newf(errors.BundleInvalid, "bundle has no changeset identifier")
	}
	if b.Files == nil {
		return errors.Newf(errors.BundleInvalid, "bundle has no analyzed-file list")
	}
	for _, f := range b.Files {
		if f == "" {
			return errors.Newf(errors.BundleInvalid, "bundle file list contains an empty path")
		}
	}
	return nil
}
