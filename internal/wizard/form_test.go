package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormStateWithPreservesSiblings(t *testing.T) {
	base := FormState{}.
		With("pere", "nom", Text("Dupont")).
		With("mere", "nom", Text("Martin"))
	mere := base["mere"]

	next := base.With("pere", "prenom", Text("Jean"))

	assert.Equal(t, "Dupont", next.Get("pere", "nom").Text)
	assert.Equal(t, "Jean", next.Get("pere", "prenom").Text)
	assert.Equal(t, "Martin", next.Get("mere", "nom").Text)
	assert.Empty(t, base.Get("pere", "prenom").Text, "original state must not change")

	// untouched sections are shared, not copied
	next["mere"]["extra"] = Text("x")
	assert.Equal(t, "x", mere["extra"].Text)
}

func TestFormStateCloneIsDeep(t *testing.T) {
	f := FormState{}.With("documents", "certificat", File(&FileHandle{ID: "1", Name: "a.pdf"}))
	cp := f.Clone()
	cp["documents"]["certificat"].File.Name = "changed"

	assert.Equal(t, "a.pdf", f.Get("documents", "certificat").File.Name)
}

func TestDateValues(t *testing.T) {
	v, err := ParseDate("2024-03-20")
	require.NoError(t, err)
	got, ok := v.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), got)

	unset, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, unset.IsZero())

	_, err = ParseDate("20/03/2024")
	assert.Error(t, err)
}

func TestSequence(t *testing.T) {
	_, err := NewSequence()
	assert.Error(t, err)
	_, err = NewSequence("a", "a")
	assert.Error(t, err)

	seq, err := NewSequence("a", "b", "c", "d", "e", "f")
	require.NoError(t, err)
	assert.True(t, seq.IsFirst())
	assert.False(t, seq.prev())
	seq.next()
	seq.next()
	assert.Equal(t, Step("c"), seq.Current())
	assert.InDelta(t, 0.5, seq.Progress(), 1e-9)
	require.NoError(t, seq.Seek("f"))
	assert.False(t, seq.next())
	assert.ErrorIs(t, seq.Seek("z"), ErrUnknownStep)
}
