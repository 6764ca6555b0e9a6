package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfallow/auroravault/internal/capsule"
	"github.com/wfallow/auroravault/internal/resource"
	"github.com/wfallow/auroravault/internal/restype"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Open(DefaultOptions(filepath.Join(t.TempDir(), "vault.db")))
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })
	return cat
}

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	cat := openTestCatalog(t)

	resources := []*resource.FileResource{
		resource.New("guard", restype.UTC, 40, 128, "modules/danm13.mod"),
		resource.New("guard", restype.UTI, 12, 256, "modules/danm13.mod"),
		resource.New("plaza", restype.ARE, 90, 0, "modules/plaza.are"),
	}
	require.NoError(t, cat.Insert(ctx, resources))

	found, err := cat.Find(ctx, "guard", restype.UTC)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "guard", found[0].Name())
	assert.EqualValues(t, 128, found[0].Offset())
	assert.EqualValues(t, 40, found[0].Size())
	assert.Equal(t, "modules/danm13.mod", found[0].Filepath())

	// Name-only search matches every type.
	all, err := cat.Find(ctx, "guard", restype.Invalid)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := cat.Find(ctx, "ghost", restype.UTC)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInsertReplacesSameCombinedPath(t *testing.T) {
	ctx := context.Background()
	cat := openTestCatalog(t)

	require.NoError(t, cat.Insert(ctx, []*resource.FileResource{
		resource.New("guard", restype.UTC, 40, 128, "m.mod"),
	}))
	require.NoError(t, cat.Insert(ctx, []*resource.FileResource{
		resource.New("guard", restype.UTC, 64, 512, "m.mod"),
	}))

	found, err := cat.Find(ctx, "guard", restype.UTC)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.EqualValues(t, 512, found[0].Offset())
}

func TestCountByType(t *testing.T) {
	ctx := context.Background()
	cat := openTestCatalog(t)

	require.NoError(t, cat.Insert(ctx, []*resource.FileResource{
		resource.New("a", restype.UTC, 1, 0, "m.mod"),
		resource.New("b", restype.UTC, 1, 0, "m.mod"),
		resource.New("c", restype.DLG, 1, 0, "m.mod"),
	}))

	counts, err := cat.CountByType(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts["UTC"])
	assert.EqualValues(t, 1, counts["DLG"])
}

func TestScan(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "loose.txt"), []byte("loose"), 0644))

	data, err := capsule.BuildKeyed(capsule.SigMOD, []capsule.Resource{
		{Name: "guard", Type: restype.UTC, Data: []byte("g")},
		{Name: "intro", Type: restype.DLG, Data: []byte("d")},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "area.mod"), data, 0644))

	// A malformed container is skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.erf"), []byte("garbage"), 0644))

	resources, err := Scan(dir)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, r := range resources {
		names[r.Identifier().Canonical()] = true
	}
	assert.True(t, names["loose.txt"])
	assert.True(t, names["area.mod"], "the container file itself is cataloged")
	assert.True(t, names["guard.utc"])
	assert.True(t, names["intro.dlg"])
	assert.True(t, names["broken.erf"], "a malformed container is still a loose file")
	assert.False(t, names["ghost.utc"])
}
