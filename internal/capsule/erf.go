package capsule

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/wfallow/auroravault/internal/restype"
)

const (
	erfHeaderSize   = 32
	erfKeyEntrySize = 24 // 16-byte name + u32 id + u16 type + 2 reserved
	erfResEntrySize = 8  // u32 offset + u32 size
	nameFieldSize   = 16
)

// need verifies that n bytes are readable at off.
func need(data []byte, off, n int) error {
	if off < 0 || n < 0 || off+n > len(data) {
		return &FormatError{
			Offset: int64(off),
			Msg:    fmt.Sprintf("need %d bytes but container holds %d", n, len(data)),
		}
	}
	return nil
}

// fixedName decodes a fixed-width name field, trimming the NUL padding.
func fixedName(field []byte) string {
	return strings.TrimRight(string(field), "\x00")
}

// ListKeyed parses a keyed-table container (ERF/MOD/SAV/HAK). The
// resource identity lives in a key table and the byte locations in a
// parallel resource table; the two are matched by index, and entries
// are returned in table order since callers derive ids from it.
func ListKeyed(data []byte) ([]Entry, error) {
	// Cursor starts past the 8-byte signature+version tag.
	p := 8
	if err := need(data, p, 24); err != nil {
		return nil, err
	}
	p += 8 // language count + localized string size
	entryCount := int(binary.LittleEndian.Uint32(data[p:]))
	p += 4
	p += 4 // offset to localized strings, unused here
	offsetToKeys := int(binary.LittleEndian.Uint32(data[p:]))
	p += 4
	offsetToResources := int(binary.LittleEndian.Uint32(data[p:]))

	if err := need(data, offsetToKeys, entryCount*erfKeyEntrySize); err != nil {
		return nil, err
	}
	if err := need(data, offsetToResources, entryCount*erfResEntrySize); err != nil {
		return nil, err
	}

	entries := make([]Entry, entryCount)

	p = offsetToKeys
	for i := 0; i < entryCount; i++ {
		entries[i].Name = fixedName(data[p : p+nameFieldSize])
		p += nameFieldSize
		p += 4 // resource id, recomputable from table order
		entries[i].Type = restype.FromCode(uint32(binary.LittleEndian.Uint16(data[p:])))
		p += 2
		p += 2 // reserved
	}

	p = offsetToResources
	for i := 0; i < entryCount; i++ {
		entries[i].Offset = binary.LittleEndian.Uint32(data[p:])
		entries[i].Size = binary.LittleEndian.Uint32(data[p+4:])
		p += erfResEntrySize
	}

	return entries, nil
}

// Resource is an input to the container builders.
type Resource struct {
	Name string
	Type restype.Type
	Data []byte
}

// BuildKeyed assembles a keyed-table container around the given
// resources. This is the minimal write path needed to round-trip the
// format; signature must be one of the keyed tags.
func BuildKeyed(signature string, resources []Resource) ([]byte, error) {
	switch signature {
	case SigERF, SigMOD, SigSAV, SigHAK:
	default:
		return nil, fmt.Errorf("signature %q is not a keyed container tag", signature)
	}

	n := len(resources)
	offsetToKeys := erfHeaderSize
	offsetToResources := offsetToKeys + n*erfKeyEntrySize
	dataStart := offsetToResources + n*erfResEntrySize

	var buf bytes.Buffer
	buf.WriteString(signature)
	buf.WriteString(Version10)

	var header [erfHeaderSize - 8]byte
	binary.LittleEndian.PutUint32(header[8:], uint32(n))
	binary.LittleEndian.PutUint32(header[12:], uint32(offsetToKeys))
	binary.LittleEndian.PutUint32(header[16:], uint32(offsetToKeys))
	binary.LittleEndian.PutUint32(header[20:], uint32(offsetToResources))
	buf.Write(header[:])

	for i, res := range resources {
		field, err := nameField(res.Name)
		if err != nil {
			return nil, err
		}
		if !res.Type.HasCode() {
			return nil, fmt.Errorf("resource %q: type %s cannot be stored in a container table", res.Name, res.Type)
		}
		buf.Write(field)

		var key [erfKeyEntrySize - nameFieldSize]byte
		binary.LittleEndian.PutUint32(key[0:], uint32(i))
		binary.LittleEndian.PutUint16(key[4:], uint16(res.Type.Code()))
		buf.Write(key[:])
	}

	offset := dataStart
	for _, res := range resources {
		var loc [erfResEntrySize]byte
		binary.LittleEndian.PutUint32(loc[0:], uint32(offset))
		binary.LittleEndian.PutUint32(loc[4:], uint32(len(res.Data)))
		buf.Write(loc[:])
		offset += len(res.Data)
	}

	for _, res := range resources {
		buf.Write(res.Data)
	}

	return buf.Bytes(), nil
}

func nameField(name string) ([]byte, error) {
	if len(name) > nameFieldSize {
		return nil, fmt.Errorf("resource name %q exceeds the %d-byte name field", name, nameFieldSize)
	}
	field := make([]byte, nameFieldSize)
	copy(field, name)
	return field, nil
}
