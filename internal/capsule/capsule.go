// Package capsule reads the two Aurora container formats: the keyed-table
// family (ERF, with MOD/SAV/HAK as signature aliases) and the flat-table
// RIM format. A capsule is any standalone container file that can be
// opened and listed on its own, as opposed to a BIF, whose entries are
// only addressable through an external key index.
package capsule

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wfallow/auroravault/internal/restype"
)

// Container signatures. The save and hak signatures share the ERF
// layout; RIM is the flat variant.
const (
	SigERF = "ERF "
	SigMOD = "MOD "
	SigSAV = "SAV "
	SigHAK = "HAK "
	SigRIM = "RIM "

	Version10 = "V1.0"
)

// Kind discriminates the two table layouts. It is a closed union:
// signature sniffing picks the kind once and all later handling
// switches on it exhaustively.
type Kind int

const (
	KindKeyed Kind = iota // ERF/MOD/SAV/HAK
	KindFlat              // RIM
)

func (k Kind) String() string {
	switch k {
	case KindKeyed:
		return "keyed"
	case KindFlat:
		return "flat"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entry is one resource listed by a container table.
type Entry struct {
	Name   string
	Type   restype.Type
	Offset uint32
	Size   uint32
}

// FormatError reports a malformed or truncated container header. Offset
// is the byte position that could not be decoded.
type FormatError struct {
	Offset int64
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed container at offset %d: %s", e.Offset, e.Msg)
}

// Sniff inspects the leading signature tag and reports the container
// kind. Data shorter than the 8-byte signature+version tag, or an
// unrecognized tag, is a FormatError.
func Sniff(data []byte) (Kind, error) {
	if len(data) < 8 {
		return 0, &FormatError{Offset: 0, Msg: fmt.Sprintf("%d bytes is too short for a signature tag", len(data))}
	}
	switch string(data[:4]) {
	case SigERF, SigMOD, SigSAV, SigHAK:
		return KindKeyed, nil
	case SigRIM:
		return KindFlat, nil
	}
	return 0, &FormatError{Offset: 0, Msg: fmt.Sprintf("unrecognized signature %q", string(data[:4]))}
}

// List sniffs data and returns its entries in table order.
func List(data []byte) ([]Entry, error) {
	kind, err := Sniff(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindKeyed:
		return ListKeyed(data)
	case KindFlat:
		return ListFlat(data)
	}
	return nil, &FormatError{Offset: 0, Msg: fmt.Sprintf("unhandled container kind %v", kind)}
}

// Capsule is an opened container file.
type Capsule struct {
	path    string
	kind    Kind
	entries []Entry
}

// Open reads and parses the container at path.
func Open(path string) (*Capsule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading container %s: %w", path, err)
	}
	kind, err := Sniff(data)
	if err != nil {
		return nil, fmt.Errorf("container %s: %w", path, err)
	}
	var entries []Entry
	switch kind {
	case KindKeyed:
		entries, err = ListKeyed(data)
	case KindFlat:
		entries, err = ListFlat(data)
	}
	if err != nil {
		return nil, fmt.Errorf("container %s: %w", path, err)
	}
	return &Capsule{path: path, kind: kind, entries: entries}, nil
}

// Path returns the file the capsule was opened from.
func (c *Capsule) Path() string { return c.path }

// Kind returns the container layout.
func (c *Capsule) Kind() Kind { return c.kind }

// Entries returns the container's resources in table order. Callers
// must not mutate the returned slice.
func (c *Capsule) Entries() []Entry { return c.entries }

// Lookup finds the entry matching name and type, case-insensitively.
func (c *Capsule) Lookup(name string, typ restype.Type) (Entry, bool) {
	for _, e := range c.entries {
		if e.Type == typ && strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}

// Capsule extensions: containers that can be opened standalone.
var capsuleExts = map[string]bool{
	".erf": true,
	".mod": true,
	".sav": true,
	".hak": true,
	".rim": true,
}

// IsCapsulePath reports whether path names a standalone container by
// extension.
func IsCapsulePath(path string) bool {
	return capsuleExts[strings.ToLower(filepath.Ext(path))]
}

// IsBIFPath reports whether path names a BIF archive by extension. BIFs
// are immutable once built and are indexed externally, so they are
// never listed or re-offset here.
func IsBIFPath(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".bif"
}
