// Package state records which artifacts a generation run produced.
package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cpcf/ngsyntax/generate"
)

// ManifestName is the manifest file name inside an output root.
const ManifestName = ".ngsyntax.manifest.json"

const (
	manifestVersion = "1"
	generatorName   = "ngsyntax"
)

type ManifestEntry struct {
	Path    string           `json:"path"`
	Hash    string           `json:"sha256"`
	Size    int64            `json:"size"`
	RunID   string           `json:"run_id"`
	Request generate.Request `json:"request"`
}

type Manifest struct {
	Version    string                   `json:"version"`
	Generated  time.Time                `json:"generated"`
	Generator  string                   `json:"generator"`
	RunID      string                   `json:"run_id"`
	OutputRoot string                   `json:"output_root"`
	Entries    map[string]ManifestEntry `json:"entries"`
}

type ManifestManager struct {
	outputRoot   string
	manifestPath string
}

func NewManifestManager(outputRoot string) *ManifestManager {
	return &ManifestManager{
		outputRoot:   outputRoot,
		manifestPath: filepath.Join(outputRoot, ManifestName),
	}
}

// Path is where the manifest lives.
func (mm *ManifestManager) Path() string {
	return mm.manifestPath
}

// NewManifest starts an empty manifest for a run with a fresh ID.
func (mm *ManifestManager) NewManifest() *Manifest {
	return &Manifest{
		Version:    manifestVersion,
		Generated:  time.Now().UTC(),
		Generator:  generatorName,
		RunID:      uuid.NewString(),
		OutputRoot: mm.outputRoot,
		Entries:    make(map[string]ManifestEntry),
	}
}

// LoadManifest reads the manifest from disk. A missing manifest yields
// (nil, nil).
func (mm *ManifestManager) LoadManifest() (*Manifest, error) {
	file, err := os.Open(mm.manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads a manifest from r.
func Decode(r io.Reader) (*Manifest, error) {
	var manifest Manifest
	if err := json.NewDecoder(r).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if manifest.Version != manifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %q", manifest.Version)
	}
	if manifest.Entries == nil {
		manifest.Entries = make(map[string]ManifestEntry)
	}
	return &manifest, nil
}

// Encode renders manifest as indented JSON ending in a newline.
func Encode(manifest *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(manifest); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// AddEntry records content as generated at path, which is relative to the
// output root.
func (mm *ManifestManager) AddEntry(manifest *Manifest, path string, content []byte, req generate.Request) {
	path = filepath.ToSlash(path)
	if manifest.Entries == nil {
		manifest.Entries = make(map[string]ManifestEntry)
	}
	manifest.Entries[path] = ManifestEntry{
		Path:    path,
		Hash:    Hash(content),
		Size:    int64(len(content)),
		RunID:   manifest.RunID,
		Request: req,
	}
	manifest.Generated = time.Now().UTC()
}

func (mm *ManifestManager) GetEntry(manifest *Manifest, path string) (ManifestEntry, bool) {
	if manifest == nil || manifest.Entries == nil {
		return ManifestEntry{}, false
	}
	entry, exists := manifest.Entries[filepath.ToSlash(path)]
	return entry, exists
}

// ListEntries returns the entries sorted by path.
func (mm *ManifestManager) ListEntries(manifest *Manifest) []ManifestEntry {
	if manifest == nil {
		return nil
	}

	entries := make([]ManifestEntry, 0, len(manifest.Entries))
	for _, entry := range manifest.Entries {
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, func(a, b ManifestEntry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return entries
}

// IsModified reports whether the file recorded at path was edited after it
// was generated. Untracked and missing files are not modified.
func (mm *ManifestManager) IsModified(manifest *Manifest, path string) (bool, error) {
	entry, exists := mm.GetEntry(manifest, path)
	if !exists {
		return false, nil
	}

	content, err := os.ReadFile(filepath.Join(mm.outputRoot, filepath.FromSlash(entry.Path)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", entry.Path, err)
	}

	return Hash(content) != entry.Hash, nil
}

// Stale lists paths recorded in previous that next no longer produces.
func Stale(previous, next *Manifest) []string {
	if previous == nil {
		return nil
	}

	var stale []string
	for path := range previous.Entries {
		if next == nil {
			stale = append(stale, path)
			continue
		}
		if _, ok := next.Entries[path]; !ok {
			stale = append(stale, path)
		}
	}
	slices.Sort(stale)
	return stale
}

// Hash is the hex SHA-256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
