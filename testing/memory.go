package testing

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cpcf/ngsyntax/write"
)

// MemoryFS is an in-memory file tree. It implements write.Writer so the
// engine can generate into it, and fs.FS so tests can inspect the result.
// It is safe for concurrent use.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*MemoryFile
}

type MemoryFile struct {
	name    string
	content []byte
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

var _ write.Writer = (*MemoryFS)(nil)

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string]*MemoryFile),
	}
}

func clean(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

func (mfs *MemoryFS) WriteFile(name string, data []byte) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.writeFile(clean(name), data)
}

func (mfs *MemoryFS) writeFile(name string, data []byte) {
	mfs.files[name] = &MemoryFile{
		name:    name,
		content: append([]byte(nil), data...),
		mode:    0o644,
		modTime: time.Now(),
	}
	mfs.ensureDir(path.Dir(name))
}

func (mfs *MemoryFS) ensureDir(dir string) {
	if dir == "." || dir == "/" || dir == "" {
		return
	}

	if _, exists := mfs.files[dir]; !exists {
		mfs.files[dir] = &MemoryFile{
			name:    dir,
			mode:    0o755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		}
		mfs.ensureDir(path.Dir(dir))
	}
}

// Write stores content at path. Without Overwrite an existing file is an
// error, matching write.BaseWriter.
func (mfs *MemoryFS) Write(name string, content []byte, options write.WriteOptions) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = clean(name)
	if f, exists := mfs.files[name]; exists {
		if f.isDir {
			return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
		}
		if !options.Overwrite {
			return fmt.Errorf("file already exists and overwrite is false: %s", name)
		}
	}
	mfs.writeFile(name, content)
	return nil
}

func (mfs *MemoryFS) CanWrite(name string) bool {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	f, exists := mfs.files[clean(name)]
	return !exists || !f.isDir
}

func (mfs *MemoryFS) NeedsWrite(name string, content []byte) (bool, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	f, exists := mfs.files[clean(name)]
	if !exists {
		return true, nil
	}
	return string(f.content) != string(content), nil
}

// ReadFile returns a copy of the content stored at name.
func (mfs *MemoryFS) ReadFile(name string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	name = clean(name)
	f, exists := mfs.files[name]
	if !exists || f.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), f.content...), nil
}

// Paths lists every regular file, sorted.
func (mfs *MemoryFS) Paths() []string {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	var paths []string
	for name, f := range mfs.files {
		if !f.isDir {
			paths = append(paths, name)
		}
	}
	sort.Strings(paths)
	return paths
}

func (mfs *MemoryFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if name == "." {
		root := &MemoryFile{name: ".", mode: 0o755 | fs.ModeDir, isDir: true}
		return &memoryFileHandle{file: root, mfs: mfs, path: "."}, nil
	}
	file, exists := mfs.files[name]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memoryFileHandle{file: file, mfs: mfs, path: name}, nil
}

func (mfs *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	return mfs.readDir(name), nil
}

func (mfs *MemoryFS) readDir(name string) []fs.DirEntry {
	name = path.Clean(name)

	var entries []fs.DirEntry
	for filePath, file := range mfs.files {
		if path.Dir(filePath) == name {
			entries = append(entries, &memoryDirEntry{file})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries
}

type memoryFileHandle struct {
	file   *MemoryFile
	mfs    *MemoryFS
	path   string
	offset int
	listed int
}

func (f *memoryFileHandle) Read(b []byte) (int, error) {
	if f.file.isDir {
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: fs.ErrInvalid}
	}

	if f.offset >= len(f.file.content) {
		return 0, io.EOF
	}

	n := copy(b, f.file.content[f.offset:])
	f.offset += n
	return n, nil
}

func (f *memoryFileHandle) Stat() (fs.FileInfo, error) {
	return f.file, nil
}

func (f *memoryFileHandle) Close() error {
	return nil
}

func (f *memoryFileHandle) ReadDir(n int) ([]fs.DirEntry, error) {
	if !f.file.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: f.path, Err: fs.ErrInvalid}
	}

	f.mfs.mu.RLock()
	entries := f.mfs.readDir(f.path)
	f.mfs.mu.RUnlock()

	entries = entries[min(f.listed, len(entries)):]
	if n <= 0 {
		f.listed += len(entries)
		return entries, nil
	}
	if len(entries) == 0 {
		return nil, io.EOF
	}

	n = min(n, len(entries))
	f.listed += n
	return entries[:n], nil
}

type memoryDirEntry struct {
	file *MemoryFile
}

func (e *memoryDirEntry) Name() string {
	return path.Base(e.file.name)
}

func (e *memoryDirEntry) IsDir() bool {
	return e.file.isDir
}

func (e *memoryDirEntry) Type() fs.FileMode {
	return e.file.mode.Type()
}

func (e *memoryDirEntry) Info() (fs.FileInfo, error) {
	return e.file, nil
}

func (f *MemoryFile) Name() string {
	return path.Base(f.name)
}

func (f *MemoryFile) Size() int64 {
	return int64(len(f.content))
}

func (f *MemoryFile) Mode() fs.FileMode {
	return f.mode
}

func (f *MemoryFile) ModTime() time.Time {
	return f.modTime
}

func (f *MemoryFile) IsDir() bool {
	return f.isDir
}

func (f *MemoryFile) Sys() any {
	return nil
}
