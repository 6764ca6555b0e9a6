package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfallow/auroravault/internal/capsule"
	"github.com/wfallow/auroravault/internal/restype"
)

func TestFindRealPrefixDirectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	real, parts := FindRealPrefix(path)
	assert.Equal(t, path, real)
	assert.Empty(t, parts)
}

func TestFindRealPrefixVirtualTail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outer.mod")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	real, parts := FindRealPrefix(filepath.Join(path, "inner.sav", "res.utc"))
	assert.Equal(t, path, real)
	assert.Equal(t, []string{"inner.sav", "res.utc"}, parts)
}

func TestFindRealPrefixMissing(t *testing.T) {
	real, parts := FindRealPrefix("/no/such/file")
	assert.Empty(t, real)
	assert.Nil(t, parts)
}

func TestFindRealPrefixDirectoryOnly(t *testing.T) {
	// A directory is not a regular file prefix.
	real, parts := FindRealPrefix(t.TempDir())
	assert.Empty(t, real)
	assert.Nil(t, parts)
}

// buildNested writes outer.mod to dir, containing inner.mod, which
// contains res.txt holding payload. Returns the outer path and the
// inner container's bytes.
func buildNested(t *testing.T, dir string, payload []byte) (string, []byte) {
	t.Helper()

	inner, err := capsule.BuildKeyed(capsule.SigMOD, []capsule.Resource{
		{Name: "res", Type: restype.TXT, Data: payload},
	})
	require.NoError(t, err)

	outer, err := capsule.BuildKeyed(capsule.SigMOD, []capsule.Resource{
		{Name: "filler", Type: restype.TXT, Data: []byte("noise")},
		{Name: "inner", Type: restype.MOD, Data: inner},
	})
	require.NoError(t, err)

	outerPath := filepath.Join(dir, "outer.mod")
	require.NoError(t, os.WriteFile(outerPath, outer, 0644))
	return outerPath, inner
}

func TestExtractThroughNesting(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("the actual resource bytes")
	outerPath, _ := buildNested(t, dir, payload)

	data, err := ExtractThroughNesting(outerPath, []string{"inner.mod", "res.txt"})
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestNestingIdempotence(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("idempotent payload")
	outerPath, innerBytes := buildNested(t, dir, payload)

	viaOuter, err := ExtractThroughNesting(outerPath, []string{"inner.mod", "res.txt"})
	require.NoError(t, err)

	// Resolving the inner container independently must yield identical
	// bytes to resolving through the outer one.
	innerPath := filepath.Join(dir, "inner.mod")
	require.NoError(t, os.WriteFile(innerPath, innerBytes, 0644))
	direct, err := ExtractThroughNesting(innerPath, []string{"res.txt"})
	require.NoError(t, err)

	assert.Equal(t, viaOuter, direct)
}

func TestExtractNotFoundNamesDeepestPath(t *testing.T) {
	dir := t.TempDir()
	outerPath, _ := buildNested(t, dir, []byte("p"))

	_, err := ExtractThroughNesting(outerPath, []string{"inner.mod", "ghost.utc"})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, filepath.Join(outerPath, "inner.mod", "ghost.utc"), notFound.Path)
}

func TestExtractBadSignature(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bogus.mod")
	require.NoError(t, os.WriteFile(path, []byte("JUNKV1.0not a container at all"), 0644))

	_, err := ExtractThroughNesting(path, []string{"res.txt"})
	var fe *capsule.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), "res.txt")
}
