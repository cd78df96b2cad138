package testing

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/tools/txtar"
)

// SnapshotManager compares generated artifacts against golden txtar
// archives stored as <dir>/<test name>.txtar. In update mode missing or
// mismatching snapshots are rewritten instead of failing.
type SnapshotManager struct {
	snapshotDir string
	updateMode  bool
	mu          sync.RWMutex
	results     map[string]SnapshotResult
}

type SnapshotResult struct {
	TestName     string    `json:"test_name"`
	Passed       bool      `json:"passed"`
	Hash         string    `json:"hash"`
	Timestamp    time.Time `json:"timestamp"`
	FilePath     string    `json:"file_path"`
	UpdatedCount int       `json:"updated_count"`
}

type SnapshotSummary struct {
	TotalTests   int  `json:"total_tests"`
	PassedTests  int  `json:"passed_tests"`
	FailedTests  int  `json:"failed_tests"`
	UpdatedTests int  `json:"updated_tests"`
	UpdateMode   bool `json:"update_mode"`
}

func NewSnapshotManager(snapshotDir string, updateMode bool) *SnapshotManager {
	return &SnapshotManager{
		snapshotDir: snapshotDir,
		updateMode:  updateMode,
		results:     make(map[string]SnapshotResult),
	}
}

// NewArchive builds an archive from a comment and alternating file names and
// contents.
func NewArchive(comment string, nameContent ...string) *txtar.Archive {
	a := &txtar.Archive{Comment: []byte(comment)}
	for i := 0; i+1 < len(nameContent); i += 2 {
		a.Files = append(a.Files, txtar.File{Name: nameContent[i], Data: []byte(nameContent[i+1])})
	}
	return a
}

// Load reads the stored snapshot for testName.
func (sm *SnapshotManager) Load(testName string) (*txtar.Archive, error) {
	return txtar.ParseFile(sm.path(testName))
}

// AssertSnapshot compares actual with the stored snapshot for testName. File
// contents are compared after txtar normalisation, so a missing final
// newline in actual does not count as a difference.
func (sm *SnapshotManager) AssertSnapshot(testName string, actual *txtar.Archive) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	snapshotPath := sm.path(testName)
	formatted := txtar.Format(actual)

	result := SnapshotResult{
		TestName:  testName,
		Timestamp: time.Now(),
		FilePath:  snapshotPath,
		Hash:      calculateHash(formatted),
	}

	expected, err := os.ReadFile(snapshotPath)
	switch {
	case os.IsNotExist(err):
		if !sm.updateMode {
			sm.results[testName] = result
			return fmt.Errorf("snapshot does not exist: %s (run with update mode to create)", snapshotPath)
		}
		if err := sm.save(snapshotPath, formatted); err != nil {
			return err
		}
		result.Passed = true
		result.UpdatedCount = 1
	case err != nil:
		return fmt.Errorf("failed to load snapshot: %w", err)
	case bytes.Equal(expected, formatted):
		result.Passed = true
	case sm.updateMode:
		if err := sm.save(snapshotPath, formatted); err != nil {
			return err
		}
		result.Passed = true
		result.UpdatedCount = 1
	default:
		sm.results[testName] = result
		return fmt.Errorf("snapshot mismatch for %s:\n%s", testName, diffArchives(txtar.Parse(expected), txtar.Parse(formatted)))
	}

	sm.results[testName] = result
	return nil
}

func (sm *SnapshotManager) path(testName string) string {
	return filepath.Join(sm.snapshotDir, testName+".txtar")
}

func (sm *SnapshotManager) save(path string, content []byte) error {
	if err := os.MkdirAll(sm.snapshotDir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return os.WriteFile(path, content, 0o644)
}

func calculateHash(content []byte) string {
	hash := sha256.Sum256(content)
	return fmt.Sprintf("%x", hash)[:16]
}

// diffArchives reports differing comments and files, the latter line by line.
func diffArchives(expected, actual *txtar.Archive) string {
	var diff strings.Builder

	if !bytes.Equal(expected.Comment, actual.Comment) {
		diff.WriteString("comment:\n")
		diff.WriteString(generateDiff(string(expected.Comment), string(actual.Comment)))
	}

	want := make(map[string]string, len(expected.Files))
	for _, f := range expected.Files {
		want[f.Name] = string(f.Data)
	}
	seen := make(map[string]bool, len(actual.Files))
	for _, f := range actual.Files {
		seen[f.Name] = true
		exp, ok := want[f.Name]
		if !ok {
			fmt.Fprintf(&diff, "%s: unexpected file\n", f.Name)
			continue
		}
		if exp != string(f.Data) {
			fmt.Fprintf(&diff, "%s:\n%s", f.Name, generateDiff(exp, string(f.Data)))
		}
	}
	for _, f := range expected.Files {
		if !seen[f.Name] {
			fmt.Fprintf(&diff, "%s: missing file\n", f.Name)
		}
	}

	return diff.String()
}

func generateDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var diff strings.Builder
	maxLines := max(len(actualLines), len(expectedLines))

	for i := range maxLines {
		var expectedLine, actualLine string

		if i < len(expectedLines) {
			expectedLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actualLine = actualLines[i]
		}

		if expectedLine != actualLine {
			diff.WriteString(fmt.Sprintf("Line %d:\n", i+1))
			if i < len(expectedLines) {
				diff.WriteString(fmt.Sprintf("  - %s\n", expectedLine))
			}
			if i < len(actualLines) {
				diff.WriteString(fmt.Sprintf("  + %s\n", actualLine))
			}
		}
	}

	return diff.String()
}

func (sm *SnapshotManager) GetResults() map[string]SnapshotResult {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	results := make(map[string]SnapshotResult)
	maps.Copy(results, sm.results)
	return results
}

func (sm *SnapshotManager) GetSummary() SnapshotSummary {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	summary := SnapshotSummary{
		TotalTests: len(sm.results),
		UpdateMode: sm.updateMode,
	}

	for _, result := range sm.results {
		if result.Passed {
			summary.PassedTests++
		} else {
			summary.FailedTests++
		}
		if result.UpdatedCount > 0 {
			summary.UpdatedTests++
		}
	}

	return summary
}

func (ss SnapshotSummary) String() string {
	if ss.TotalTests == 0 {
		return "No snapshot tests run"
	}

	status := "PASS"
	if ss.FailedTests > 0 {
		status = "FAIL"
	}

	result := fmt.Sprintf("%s: %d/%d tests passed", status, ss.PassedTests, ss.TotalTests)
	if ss.UpdatedTests > 0 {
		result += fmt.Sprintf(" (%d updated)", ss.UpdatedTests)
	}

	return result
}
