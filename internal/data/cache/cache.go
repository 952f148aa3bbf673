package cache

import (
	"sync"

	"github.com/penwyp/go-trace-timeline/internal/util"
)

type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNotFound
)

func (r MissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "inode"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Result is the outcome of a lookup
type Result[T any] struct {
	Value      T
	Found      bool
	MissReason MissReason
}

type entry[T any] struct {
	value       T
	info        util.FileInfo
	fingerprint string
}

// FileCache keeps values derived from files, keyed by path. An entry is only
// returned while the file still has the same inode, size, modification time
// and tail fingerprint as when it was stored.
type FileCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
}

func NewFileCache[T any]() *FileCache[T] {
	return &FileCache[T]{entries: make(map[string]*entry[T])}
}

func (c *FileCache[T]) Get(path string) Result[T] {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()

	if !ok {
		return Result[T]{MissReason: MissReasonNotFound}
	}

	if reason := validate(path, e); reason != MissReasonNone {
		c.mu.Lock()
		if c.entries[path] == e {
			delete(c.entries, path)
		}
		c.mu.Unlock()
		return Result[T]{MissReason: reason}
	}
	return Result[T]{Value: e.value, Found: true}
}

// Set records value together with the file's current identity
func (c *FileCache[T]) Set(path string, value T) error {
	info, err := util.GetFileInfo(path)
	if err != nil {
		return err
	}
	fingerprint, err := util.CalculateFileFingerprint(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = &entry[T]{value: value, info: *info, fingerprint: fingerprint}
	return nil
}

func (c *FileCache[T]) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Retain drops every entry whose path is not in paths
func (c *FileCache[T]) Retain(paths []string) {
	keep := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		keep[p] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.entries {
		if _, ok := keep[p]; !ok {
			delete(c.entries, p)
		}
	}
}

func (c *FileCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *FileCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[T])
}

func validate[T any](path string, e *entry[T]) MissReason {
	current, err := util.GetFileInfo(path)
	if err != nil {
		util.LogDebugf("Cache validation failed for %s: unable to get file info: %v", path, err)
		return MissReasonError
	}

	if current.Inode != e.info.Inode {
		util.LogDebugf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			path, e.info.Inode, current.Inode)
		return MissReasonInode
	}
	if current.Size != e.info.Size {
		util.LogDebugf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			path, e.info.Size, current.Size)
		return MissReasonSize
	}
	if current.ModTime != e.info.ModTime {
		util.LogDebugf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			path, e.info.ModTime, current.ModTime)
		return MissReasonModTime
	}

	fingerprint, err := util.CalculateFileFingerprint(path)
	if err != nil {
		util.LogDebugf("Cache invalidated for %s: unable to calculate fingerprint: %v", path, err)
		return MissReasonError
	}
	if fingerprint != e.fingerprint {
		util.LogDebugf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			path, e.fingerprint, fingerprint)
		return MissReasonFingerprint
	}
	return MissReasonNone
}
