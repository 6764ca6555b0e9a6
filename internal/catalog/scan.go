package catalog

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/wfallow/auroravault/internal/capsule"
	"github.com/wfallow/auroravault/internal/resource"
)

// Scan walks root and returns a FileResource for every loose file and
// every entry inside the containers it finds. A malformed container is
// logged and skipped so one bad archive does not abort the walk.
func Scan(root string) ([]*resource.FileResource, error) {
	var out []*resource.FileResource

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		loose, err := resource.FromPath(path)
		if err != nil {
			slog.Error("Skipping unreadable file", "path", path, "error", err)
			return nil
		}
		out = append(out, loose)

		if !capsule.IsCapsulePath(path) {
			return nil
		}

		c, err := capsule.Open(path)
		if err != nil {
			slog.Error("Skipping malformed container", "path", path, "error", err)
			return nil
		}
		for _, e := range c.Entries() {
			out = append(out, resource.New(e.Name, e.Type, uint64(e.Size), uint64(e.Offset), path))
		}
		slog.Debug("Cataloged container", "path", path, "entries", len(c.Entries()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	return out, nil
}
