package capsule

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/wfallow/auroravault/internal/restype"
)

const (
	rimHeaderSize = 20
	rimEntrySize  = 32 // 16-byte name + u32 type + 4 reserved + u32 offset + u32 size
)

// ListFlat parses a flat-table container (RIM): identity and location
// live together in a single table. Entries are returned in table order.
func ListFlat(data []byte) ([]Entry, error) {
	// Cursor starts past the 8-byte signature+version tag.
	p := 8
	if err := need(data, p, 12); err != nil {
		return nil, err
	}
	p += 4 // reserved
	entryCount := int(binary.LittleEndian.Uint32(data[p:]))
	p += 4
	offsetToEntries := int(binary.LittleEndian.Uint32(data[p:]))

	if err := need(data, offsetToEntries, entryCount*rimEntrySize); err != nil {
		return nil, err
	}

	entries := make([]Entry, entryCount)
	p = offsetToEntries
	for i := 0; i < entryCount; i++ {
		entries[i].Name = fixedName(data[p : p+nameFieldSize])
		p += nameFieldSize
		entries[i].Type = restype.FromCode(binary.LittleEndian.Uint32(data[p:]))
		p += 4
		p += 4 // reserved (table index)
		entries[i].Offset = binary.LittleEndian.Uint32(data[p:])
		entries[i].Size = binary.LittleEndian.Uint32(data[p+4:])
		p += 8
	}

	return entries, nil
}

// BuildFlat assembles a flat-table container around the given resources.
// Minimal write path, round-trip only.
func BuildFlat(resources []Resource) ([]byte, error) {
	n := len(resources)
	dataStart := rimHeaderSize + n*rimEntrySize

	var buf bytes.Buffer
	buf.WriteString(SigRIM)
	buf.WriteString(Version10)

	var header [rimHeaderSize - 8]byte
	binary.LittleEndian.PutUint32(header[4:], uint32(n))
	binary.LittleEndian.PutUint32(header[8:], uint32(rimHeaderSize))
	buf.Write(header[:])

	offset := dataStart
	for i, res := range resources {
		field, err := nameField(res.Name)
		if err != nil {
			return nil, err
		}
		if !res.Type.HasCode() {
			return nil, fmt.Errorf("resource %q: type %s cannot be stored in a container table", res.Name, res.Type)
		}
		buf.Write(field)

		var entry [rimEntrySize - nameFieldSize]byte
		binary.LittleEndian.PutUint32(entry[0:], res.Type.Code())
		binary.LittleEndian.PutUint32(entry[4:], uint32(i))
		binary.LittleEndian.PutUint32(entry[8:], uint32(offset))
		binary.LittleEndian.PutUint32(entry[12:], uint32(len(res.Data)))
		buf.Write(entry[:])
		offset += len(res.Data)
	}

	for _, res := range resources {
		buf.Write(res.Data)
	}

	return buf.Bytes(), nil
}
