package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wfallow/auroravault/internal/capsule"
)

// FindRealPrefix splits a virtual path into its longest on-disk regular
// file prefix and the virtual components remaining below it. A present
// prefix with no remaining parts means no container nesting is
// involved. When no prefix exists on disk at all it returns ("", nil).
func FindRealPrefix(path string) (string, []string) {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return path, nil
	}

	clean := filepath.Clean(path)
	var comps []string
	for _, c := range strings.Split(clean, string(filepath.Separator)) {
		if c != "" {
			comps = append(comps, c)
		}
	}

	cur := ""
	if filepath.IsAbs(clean) {
		cur = string(filepath.Separator)
	}
	for i, c := range comps {
		cur = filepath.Join(cur, c)
		info, err := os.Stat(cur)
		if err != nil {
			return "", nil
		}
		if info.Mode().IsRegular() {
			return cur, comps[i+1:]
		}
	}
	return "", nil
}

// ExtractThroughNesting reads realPath and walks the remaining virtual
// components through successive container levels, slicing out each
// level's bytes. Offsets are always re-derived from the freshly parsed
// container header at each level, never from caller-stored state, so
// the result stays correct for arbitrarily deep nesting.
func ExtractThroughNesting(realPath string, parts []string) ([]byte, error) {
	data, err := os.ReadFile(realPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", realPath, err)
	}

	reached := realPath
	for _, part := range parts {
		entries, err := capsule.List(data)
		if err != nil {
			return nil, fmt.Errorf("resolving %q inside %s: %w", part, reached, err)
		}

		ref := RefFromPath(part)
		reached = filepath.Join(reached, part)

		found := false
		for _, e := range entries {
			if !ref.Matches(e.Name, e.Type) {
				continue
			}
			end := int64(e.Offset) + int64(e.Size)
			if end > int64(len(data)) {
				return nil, &capsule.FormatError{
					Offset: int64(e.Offset),
					Msg: fmt.Sprintf("entry %q spans %d bytes past container end %d",
						part, end, len(data)),
				}
			}
			data = data[e.Offset:end]
			found = true
			break
		}
		if !found {
			return nil, &NotFoundError{Path: reached}
		}
	}

	return data, nil
}
