package resource

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wfallow/auroravault/internal/cache"
	"github.com/wfallow/auroravault/internal/capsule"
	"github.com/wfallow/auroravault/internal/restype"
)

// FileResource locates a named resource's bytes, whether it is a loose
// file on disk or an entry nested arbitrarily deep inside containers.
// Offset and size are a lazily refreshed view into the backing file;
// the identity and combined path are fixed at construction. Each data
// read opens and closes the backing file independently, so a
// FileResource holds no file handles.
type FileResource struct {
	ident         Ref
	size          uint64
	offset        uint64
	path          string
	insideCapsule bool
	insideBIF     bool
	combinedPath  string
	cache         *cache.DataCache
}

// New constructs a FileResource for a resource named (name, typ) backed
// by the container or loose file at path, at the given byte range.
func New(name string, typ restype.Type, size, offset uint64, path string) *FileResource {
	r := &FileResource{
		ident:         NewRef(name, typ),
		size:          size,
		offset:        offset,
		path:          path,
		insideCapsule: capsule.IsCapsulePath(path),
		insideBIF:     capsule.IsBIFPath(path),
	}
	if r.insideCapsule || r.insideBIF {
		r.combinedPath = filepath.Join(path, r.ident.Canonical())
	} else {
		r.combinedPath = path
	}
	return r
}

// FromPath derives a FileResource for the loose file at path: identity
// from the filename, size from the filesystem, offset zero.
func FromPath(path string) (*FileResource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	res := restype.Split(filepath.Base(path))
	return New(res.Name, res.Type, uint64(info.Size()), 0, path), nil
}

// Locate builds a FileResource for a path that may cross container
// boundaries: a direct file resolves via FromPath, anything else is
// treated as a resource named by the final component living inside the
// (possibly virtual) parent path.
func Locate(path string) (*FileResource, error) {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return FromPath(path)
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil, &NotFoundError{Path: path}
	}
	res := restype.Split(filepath.Base(path))
	return New(res.Name, res.Type, 0, 0, dir), nil
}

// AttachCache routes this resource's direct reads through c. A nil c
// disables caching; the facade is fully functional without one.
func (r *FileResource) AttachCache(c *cache.DataCache) {
	r.cache = c
}

// Identifier returns the resource's (name, type) identity.
func (r *FileResource) Identifier() Ref { return r.ident }

// Name returns the resource name with original case.
func (r *FileResource) Name() string { return r.ident.Name() }

// Type returns the resource kind.
func (r *FileResource) Type() restype.Type { return r.ident.Type() }

// Size returns the last indexed byte size.
func (r *FileResource) Size() uint64 { return r.size }

// Offset returns the last indexed byte offset into Filepath.
func (r *FileResource) Offset() uint64 { return r.offset }

// Filepath returns the backing file or container path.
func (r *FileResource) Filepath() string { return r.path }

// InsideCapsule reports whether the backing path is a standalone
// container by extension.
func (r *FileResource) InsideCapsule() bool { return r.insideCapsule }

// InsideBIF reports whether the backing path is a BIF archive by
// extension.
func (r *FileResource) InsideBIF() bool { return r.insideBIF }

// CombinedPath returns the resource's canonical on-path form: the
// backing path joined with the canonical identifier when inside a
// container, the backing path alone otherwise. It is the stable value
// for descriptor equality, independent of offset and size.
func (r *FileResource) CombinedPath() string { return r.combinedPath }

// Equal compares descriptors by combined path. Offset and size are
// views that re-indexing refreshes, so they take no part in equality.
func (r *FileResource) Equal(o *FileResource) bool {
	if r == o {
		return true
	}
	if r == nil || o == nil {
		return false
	}
	return r.combinedPath == o.combinedPath
}

// Exists reports whether the resource's bytes can be located. It never
// returns an error: all failures are logged and answered with false.
func (r *FileResource) Exists() bool {
	if info, err := os.Stat(r.path); err == nil && info.Mode().IsRegular() {
		if !r.insideCapsule {
			return true
		}
		c, err := capsule.Open(r.path)
		if err != nil {
			slog.Debug("existence check failed to open container", "path", r.path, "error", err)
			return false
		}
		if _, ok := c.Lookup(r.ident.Name(), r.ident.Type()); ok {
			return true
		}
		// The container itself addressed as an opaque blob.
		return r.ident.MatchesString(filepath.Base(r.path))
	}

	realPath, parts := FindRealPrefix(r.combinedPath)
	if realPath == "" {
		return false
	}
	if _, err := ExtractThroughNesting(realPath, parts); err != nil {
		slog.Debug("existence check failed to extract", "path", r.combinedPath, "error", err)
		return false
	}
	return true
}

// ReIndex refreshes the resource's offset/size view from the
// authoritative source: the container's table when the backing file is
// a container, the file's own length otherwise. BIFs are immutable once
// built and are never re-offset. When the backing path only exists
// virtually, the true size requires extraction, so the offset resets to
// zero and sizing is deferred to the next Data read.
func (r *FileResource) ReIndex() error {
	if info, err := os.Stat(r.path); err == nil && info.Mode().IsRegular() {
		switch {
		case r.insideCapsule:
			c, err := capsule.Open(r.path)
			if err != nil {
				return err
			}
			if e, ok := c.Lookup(r.ident.Name(), r.ident.Type()); ok {
				r.offset = uint64(e.Offset)
				r.size = uint64(e.Size)
				return nil
			}
			if r.ident.MatchesString(filepath.Base(r.path)) {
				// The container file itself is the requested resource;
				// serve it whole as an opaque blob.
				r.offset = 0
				r.size = uint64(info.Size())
				return nil
			}
			return &NotFoundError{Path: r.combinedPath}
		case r.insideBIF:
			return nil
		default:
			r.offset = 0
			r.size = uint64(info.Size())
			return nil
		}
	}

	realPath, _ := FindRealPrefix(r.combinedPath)
	if realPath == "" {
		return &NotFoundError{Path: r.combinedPath}
	}
	r.offset = 0
	return nil
}

// Data returns the resource's bytes. With reload set, the offset/size
// view is refreshed first. A directly openable backing file is read at
// the indexed range; otherwise the combined path is resolved through
// container nesting, which re-derives offsets per level and ignores the
// stored view entirely.
func (r *FileResource) Data(reload bool) ([]byte, error) {
	if reload {
		if err := r.ReIndex(); err != nil {
			return nil, err
		}
	}

	if info, err := os.Stat(r.path); err == nil && info.Mode().IsRegular() {
		if r.cache != nil {
			return r.cache.GetOrRead(r.path, int64(r.offset), int64(r.size))
		}
		return readExact(r.path, int64(r.offset), int64(r.size))
	}

	realPath, parts := FindRealPrefix(r.combinedPath)
	if realPath == "" {
		return nil, &NotFoundError{Path: r.combinedPath}
	}
	data, err := ExtractThroughNesting(realPath, parts)
	if err != nil {
		return nil, err
	}
	r.offset = 0
	r.size = uint64(len(data))
	return data, nil
}

func readExact(path string, offset, size int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	data := make([]byte, size)
	n, err := f.ReadAt(data, offset)
	if err != nil && !(err == io.EOF && int64(n) == size) {
		return nil, fmt.Errorf("reading %d bytes at offset %d of %s: %w", size, offset, path, err)
	}
	return data, nil
}
