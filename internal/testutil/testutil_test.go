package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/specstore/internal/journal"
	"github.com/roach88/specstore/internal/testutil"
)

var _ journal.SessionGenerator = (*testutil.FixedSession)(nil)

func TestFixedSession(t *testing.T) {
	g := testutil.NewFixedSession("scenario-a")
	assert.Equal(t, "scenario-a", g.Generate())
	assert.Equal(t, "scenario-a", g.Generate())

	assert.Equal(t, testutil.DefaultSession, testutil.NewFixedSession("").Generate())
}
