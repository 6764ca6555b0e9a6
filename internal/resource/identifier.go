package resource

import (
	"path/filepath"
	"strings"

	"github.com/wfallow/auroravault/internal/restype"
)

// Ref is the case-insensitive (name, type) identity of a resource. It
// is an immutable value type: the lowercased canonical string and its
// hash are precomputed at construction so Refs are cheap to compare and
// usable as map keys.
type Ref struct {
	name      string
	typ       restype.Type
	canonical string
	hash      uint64
}

// NewRef builds an identifier from a resource name and type.
func NewRef(name string, typ restype.Type) Ref {
	canonical := strings.ToLower(name)
	if ext := typ.Extension(); ext != "" {
		canonical += "." + ext
	}
	return Ref{
		name:      name,
		typ:       typ,
		canonical: canonical,
		hash:      fnvHash64(canonical),
	}
}

// RefFromPath derives an identifier from a path's filename using the
// longest-extension-first split.
func RefFromPath(path string) Ref {
	res := restype.Split(filepath.Base(path))
	return NewRef(res.Name, res.Type)
}

// Name returns the resource name with its original case.
func (r Ref) Name() string { return r.name }

// Type returns the resource kind.
func (r Ref) Type() restype.Type { return r.typ }

// Canonical returns the lowercased "name.ext" form used for comparison
// and hashing.
func (r Ref) Canonical() string { return r.canonical }

// Hash returns the precomputed hash of the canonical string.
func (r Ref) Hash() uint64 { return r.hash }

// Unpack returns the name and type.
func (r Ref) Unpack() (string, restype.Type) { return r.name, r.typ }

// Validate returns ErrInvalidResourceType if the identifier carries the
// invalid type sentinel.
func (r Ref) Validate() error {
	if r.typ.IsInvalid() {
		return ErrInvalidResourceType
	}
	return nil
}

// Equal reports identity equality: two Refs are equal iff their
// canonical strings are equal. The hash comparison rejects most
// mismatches before touching the strings.
func (r Ref) Equal(o Ref) bool {
	if r.hash != o.hash {
		return false
	}
	return r.canonical == o.canonical
}

// MatchesString compares the identifier against a bare string, e.g. a
// container's filename, by the string's lowercased form.
func (r Ref) MatchesString(s string) bool {
	return r.canonical == strings.ToLower(s)
}

// Matches reports whether a container entry's name and type address
// this resource. Names compare case-insensitively.
func (r Ref) Matches(name string, typ restype.Type) bool {
	return r.typ == typ && strings.EqualFold(r.name, name)
}

// String returns the display form, original case preserved.
func (r Ref) String() string {
	if ext := r.typ.Extension(); ext != "" {
		return r.name + "." + ext
	}
	return r.name
}

// fnvHash64 is the 64-bit FNV-1a hash.
func fnvHash64(s string) uint64 {
	const (
		fnvBasis = uint64(0xcbf29ce484222325)
		fnvPrime = uint64(0x100000001b3)
	)
	hash := fnvBasis
	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= fnvPrime
	}
	return hash
}
