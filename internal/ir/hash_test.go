package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDigest_StableAndSeparated(t *testing.T) {
	state := Array{Int(1), Int(2)}

	a, err := StateDigest(state)
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.Equal(t, a, MustStateDigest(Array{Int(1), Int(2)}))

	other, err := Digest(DomainAction, state)
	require.NoError(t, err)
	assert.NotEqual(t, a, other, "domains must separate digests")

	assert.NotEqual(t, a, MustStateDigest(Array{Int(2), Int(1)}))
}

func TestStateDigest_EmptyStatesMatch(t *testing.T) {
	assert.Equal(t, MustStateDigest(Array(nil)), MustStateDigest(Array{}))
}

func TestDigest_Error(t *testing.T) {
	_, err := Digest(DomainState, 1.5)
	assert.Error(t, err)
	assert.Panics(t, func() { MustStateDigest(1.5) })
}
