// Package restype enumerates the resource kinds found in Aurora-engine
// game data and maps between their file extensions and the numeric type
// codes stored in archive tables.
package restype

import (
	"sort"
	"strings"
)

// Type identifies a resource kind. The zero value is Invalid.
type Type int

const (
	Invalid Type = iota
	RES
	BMP
	TGA
	WAV
	PLT
	INI
	TXT
	MDL
	NSS
	NCS
	ARE
	SET
	IFO
	BIC
	WOK
	TwoDA
	TLK
	TXI
	GIT
	BTI
	UTI
	BTC
	UTC
	DLG
	ITP
	UTT
	DDS
	UTS
	LTR
	GFF
	FAC
	UTE
	UTD
	UTP
	DFT
	GIC
	GUI
	UTM
	DWK
	PWK
	JRL
	SAV
	UTW
	SSF
	HAK
	NDB
	PTM
	PTT
	LYT
	VIS
	RIM
	PTH
	LIP
	TPC
	MDX
	MDLASCII
	WOKASCII
	XML
	TLKXML
	ERF
	MOD
	KEY
	BIF
)

// invalidCode marks variants that never appear in an archive table.
const invalidCode = 0xFFFFFFFF

type typeInfo struct {
	name    string
	ext     string
	code    uint32
	invalid bool
}

// Numeric codes follow the Aurora engine resource type table. Variants
// with invalidCode are on-disk only and never stored in a container.
var infoTable = map[Type]typeInfo{
	Invalid:  {"Invalid", "", invalidCode, true},
	RES:      {"RES", "res", 0, false},
	BMP:      {"BMP", "bmp", 1, false},
	TGA:      {"TGA", "tga", 3, false},
	WAV:      {"WAV", "wav", 4, false},
	PLT:      {"PLT", "plt", 6, false},
	INI:      {"INI", "ini", 7, false},
	TXT:      {"TXT", "txt", 10, false},
	MDL:      {"MDL", "mdl", 2002, false},
	NSS:      {"NSS", "nss", 2009, false},
	NCS:      {"NCS", "ncs", 2010, false},
	ARE:      {"ARE", "are", 2012, false},
	SET:      {"SET", "set", 2013, false},
	IFO:      {"IFO", "ifo", 2014, false},
	BIC:      {"BIC", "bic", 2015, false},
	WOK:      {"WOK", "wok", 2016, false},
	TwoDA:    {"2DA", "2da", 2017, false},
	TLK:      {"TLK", "tlk", 2018, false},
	TXI:      {"TXI", "txi", 2022, false},
	GIT:      {"GIT", "git", 2023, false},
	BTI:      {"BTI", "bti", 2024, false},
	UTI:      {"UTI", "uti", 2025, false},
	BTC:      {"BTC", "btc", 2026, false},
	UTC:      {"UTC", "utc", 2027, false},
	DLG:      {"DLG", "dlg", 2029, false},
	ITP:      {"ITP", "itp", 2030, false},
	UTT:      {"UTT", "utt", 2032, false},
	DDS:      {"DDS", "dds", 2033, false},
	UTS:      {"UTS", "uts", 2035, false},
	LTR:      {"LTR", "ltr", 2036, false},
	GFF:      {"GFF", "gff", 2037, false},
	FAC:      {"FAC", "fac", 2038, false},
	UTE:      {"UTE", "ute", 2040, false},
	UTD:      {"UTD", "utd", 2042, false},
	UTP:      {"UTP", "utp", 2044, false},
	DFT:      {"DFT", "dft", 2045, false},
	GIC:      {"GIC", "gic", 2046, false},
	GUI:      {"GUI", "gui", 2047, false},
	UTM:      {"UTM", "utm", 2051, false},
	DWK:      {"DWK", "dwk", 2052, false},
	PWK:      {"PWK", "pwk", 2053, false},
	JRL:      {"JRL", "jrl", 2056, false},
	SAV:      {"SAV", "sav", 2057, false},
	UTW:      {"UTW", "utw", 2058, false},
	SSF:      {"SSF", "ssf", 2060, false},
	HAK:      {"HAK", "hak", 2061, false},
	NDB:      {"NDB", "ndb", 2064, false},
	PTM:      {"PTM", "ptm", 2065, false},
	PTT:      {"PTT", "ptt", 2066, false},
	LYT:      {"LYT", "lyt", 3000, false},
	VIS:      {"VIS", "vis", 3001, false},
	RIM:      {"RIM", "rim", 3002, false},
	PTH:      {"PTH", "pth", 3003, false},
	LIP:      {"LIP", "lip", 3004, false},
	TPC:      {"TPC", "tpc", 3007, false},
	MDX:      {"MDX", "mdx", 3008, false},
	MDLASCII: {"MDL_ASCII", "mdl.ascii", invalidCode, false},
	WOKASCII: {"WOK_ASCII", "wok.ascii", invalidCode, false},
	XML:      {"XML", "xml", invalidCode, false},
	TLKXML:   {"TLK_XML", "tlk.xml", invalidCode, false},
	ERF:      {"ERF", "erf", 9997, false},
	MOD:      {"MOD", "mod", 9998, false},
	KEY:      {"KEY", "key", 9999, false},
	BIF:      {"BIF", "bif", 9996, false},
}

// Extension returns the canonical lowercase extension, without a leading
// dot. Empty for the Invalid sentinel.
func (t Type) Extension() string {
	return infoTable[t].ext
}

// Code returns the numeric type code used in container tables.
func (t Type) Code() uint32 {
	return infoTable[t].code
}

// IsInvalid reports whether t is the invalid sentinel.
func (t Type) IsInvalid() bool {
	return infoTable[t].invalid
}

// HasCode reports whether t has a numeric wire code and can therefore
// be stored in a container table. Text export formats exist on disk but
// never inside an archive.
func (t Type) HasCode() bool {
	info := infoTable[t]
	return !info.invalid && info.code != invalidCode
}

func (t Type) String() string {
	return infoTable[t].name
}

var (
	byCode map[uint32]Type
	byExt  map[string]Type
)

func init() {
	byCode = make(map[uint32]Type, len(infoTable))
	byExt = make(map[string]Type, len(infoTable))
	for t, info := range infoTable {
		if info.invalid {
			continue
		}
		if info.code != invalidCode {
			byCode[info.code] = t
		}
		if info.ext != "" {
			byExt[info.ext] = t
		}
	}
}

// FromCode maps a container table type code to a Type. Unknown codes map
// to Invalid.
func FromCode(code uint32) Type {
	if t, ok := byCode[code]; ok {
		return t
	}
	return Invalid
}

// FromExtension maps a file extension (with or without a leading dot,
// any case) to a Type. Unknown extensions map to Invalid.
func FromExtension(ext string) Type {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if t, ok := byExt[ext]; ok {
		return t
	}
	return Invalid
}

// Match pairs a Type with its dotted extension for suffix matching.
type Match struct {
	Type   Type
	Suffix string // "." + extension, lowercase
}

var extTable []Match

func init() {
	for t, info := range infoTable {
		if info.invalid || info.ext == "" {
			continue
		}
		extTable = append(extTable, Match{Type: t, Suffix: "." + info.ext})
	}
	// Longest suffix first so compound extensions win over their tails.
	// Ties broken by string for deterministic iteration order.
	sort.Slice(extTable, func(i, j int) bool {
		if len(extTable[i].Suffix) != len(extTable[j].Suffix) {
			return len(extTable[i].Suffix) > len(extTable[j].Suffix)
		}
		return extTable[i].Suffix < extTable[j].Suffix
	})
}

// Extensions returns the suffix-match table, sorted longest first.
// Callers must not mutate the returned slice.
func Extensions() []Match {
	return extTable
}
