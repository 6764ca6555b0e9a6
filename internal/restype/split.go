package restype

import "strings"

// SplitMethod records which rule produced a SplitResult.
type SplitMethod int

const (
	// SplitTable means a registered extension suffix-matched the filename.
	SplitTable SplitMethod = iota
	// SplitWholeExtension means the filename was exactly a registered
	// extension, so the whole filename stands in as the name.
	SplitWholeExtension
	// SplitDegenerate covers filenames with a bare trailing dot or a
	// single leading dot, returned whole with no type.
	SplitDegenerate
	// SplitFallback is the terminal naive last-dot split used when no
	// registered extension matches.
	SplitFallback
)

// SplitResult is the outcome of dividing a filename into a resource name
// and type.
type SplitResult struct {
	Name   string
	Type   Type
	Method SplitMethod
}

// Split divides a filename into its resource name and type using the
// longest-extension-first table. Matching is case-insensitive; the
// returned name preserves the original case.
func Split(filename string) SplitResult {
	lower := strings.ToLower(filename)

	for _, m := range Extensions() {
		if len(m.Suffix) > len(lower) {
			continue
		}
		if lower == m.Suffix {
			// The filename is nothing but the extension. There is no
			// usable stem, so the whole filename is the name.
			return SplitResult{Name: filename, Type: m.Type, Method: SplitWholeExtension}
		}
		if strings.HasSuffix(lower, m.Suffix) {
			// Table is sorted longest first, so the first hit is the
			// longest possible match.
			return SplitResult{
				Name:   filename[:len(filename)-len(m.Suffix)],
				Type:   m.Type,
				Method: SplitTable,
			}
		}
	}

	if strings.HasSuffix(filename, ".") {
		return SplitResult{Name: filename, Type: Invalid, Method: SplitDegenerate}
	}
	if strings.HasPrefix(filename, ".") && strings.Count(filename, ".") == 1 {
		return SplitResult{Name: filename, Type: Invalid, Method: SplitDegenerate}
	}

	// No registered extension matched; fall back to a naive last-dot
	// split. The type stays Invalid since the extension is unknown.
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return SplitResult{Name: filename[:i], Type: Invalid, Method: SplitFallback}
	}
	return SplitResult{Name: filename, Type: Invalid, Method: SplitFallback}
}
