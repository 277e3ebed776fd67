package fs

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Fault defines specific read failure behavior.
type Fault struct {
	FailOpen bool  // Fail Open for matching files.
	Truncate int64 // Serve at most this many bytes of the file. -1 to disable.
	Err      error // Error to inject. Defaults to the FaultyFS error.
}

// FaultyFS is a FileSystem wrapper that injects read-side errors: failed
// opens and short reads.
type FaultyFS struct {
	FS FileSystem

	mu      sync.Mutex
	rules   map[string]Fault // Filename substring -> Fault
	Default Fault            // Fallback

	Err error
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:      fs,
		rules:   make(map[string]Fault),
		Default: Fault{Truncate: -1},
		Err:     fmt.Errorf("injected fault error"),
	}
}

// SetFault registers a fault for files whose name contains pattern.
func (f *FaultyFS) SetFault(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// ClearFaults removes all registered faults.
func (f *FaultyFS) ClearFaults() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = make(map[string]Fault)
}

func (f *FaultyFS) faultFor(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pattern, fault := range f.rules {
		if strings.Contains(name, pattern) {
			return fault
		}
	}
	return f.Default
}

func (f *FaultyFS) errFor(fault Fault) error {
	if fault.Err != nil {
		return fault.Err
	}
	return f.Err
}

func (f *FaultyFS) Open(name string) (File, error) {
	fault := f.faultFor(name)
	if fault.FailOpen {
		return nil, f.errFor(fault)
	}
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}
	if fault.Truncate < 0 {
		return file, nil
	}
	return &truncatedFile{File: file, limit: fault.Truncate}, nil
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) {
	return f.FS.Stat(name)
}

// truncatedFile serves at most limit bytes, simulating a file that is shorter
// on disk than the catalog claims.
type truncatedFile struct {
	File
	limit int64
}

func (t *truncatedFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= t.limit {
		return 0, io.EOF
	}
	if rem := t.limit - off; int64(len(p)) > rem {
		n, err := t.File.ReadAt(p[:rem], off)
		if err == nil {
			err = io.EOF
		}
		return n, err
	}
	return t.File.ReadAt(p, off)
}
