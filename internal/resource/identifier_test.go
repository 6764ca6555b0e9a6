package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfallow/auroravault/internal/restype"
)

func TestRefCaseInsensitiveEquality(t *testing.T) {
	a := NewRef("m13aa", restype.ARE)
	b := NewRef("M13AA", restype.ARE)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, a.Canonical(), b.Canonical())
}

func TestRefInequality(t *testing.T) {
	a := NewRef("m13aa", restype.ARE)
	assert.False(t, a.Equal(NewRef("m13ab", restype.ARE)))
	assert.False(t, a.Equal(NewRef("m13aa", restype.GIT)))
}

func TestRefCanonicalForm(t *testing.T) {
	r := NewRef("Creature", restype.UTC)
	assert.Equal(t, "creature.utc", r.Canonical())
	assert.Equal(t, "Creature.utc", r.String())

	// No trailing dot when the type has no extension.
	inv := NewRef("Thing", restype.Invalid)
	assert.Equal(t, "thing", inv.Canonical())
}

func TestRefMatchesString(t *testing.T) {
	r := NewRef("danm13", restype.MOD)
	assert.True(t, r.MatchesString("DANM13.MOD"))
	assert.True(t, r.MatchesString("danm13.mod"))
	assert.False(t, r.MatchesString("danm13.sav"))
}

func TestRefFromPath(t *testing.T) {
	r := RefFromPath("modules/danm13.mod")
	name, typ := r.Unpack()
	assert.Equal(t, "danm13", name)
	assert.Equal(t, restype.MOD, typ)
}

func TestRefValidate(t *testing.T) {
	require.NoError(t, NewRef("ok", restype.TXT).Validate())

	err := NewRef("bad", restype.Invalid).Validate()
	require.ErrorIs(t, err, ErrInvalidResourceType)
}
