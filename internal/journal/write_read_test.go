package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_ReadSessionOrdersBySeq(t *testing.T) {
	j := openTestJournal(t)
	ctx := testContext(t)

	require.NoError(t, j.Record(ctx, Entry{Session: "s1", Seq: 3, Kind: KindCommit, Strategy: "isolated"}))
	require.NoError(t, j.Record(ctx, Entry{Session: "s1", Seq: 1, Kind: KindDispatch, ActionType: "PUSH"}))
	require.NoError(t, j.Record(ctx, Entry{Session: "s1", Seq: 2, Kind: KindEvaluate, Strategy: "isolated", CanExecute: true, Depth: 1}))
	require.NoError(t, j.Record(ctx, Entry{Session: "s2", Seq: 1, Kind: KindNotify, StateDigest: "abc"}))

	entries, err := j.ReadSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Session: "s1", Seq: 1, Kind: KindDispatch, ActionType: "PUSH"}, entries[0])
	assert.Equal(t, Entry{Session: "s1", Seq: 2, Kind: KindEvaluate, Strategy: "isolated", CanExecute: true, Depth: 1}, entries[1])
	assert.Equal(t, KindCommit, entries[2].Kind)
}

func TestRecord_Idempotent(t *testing.T) {
	j := openTestJournal(t)
	ctx := testContext(t)

	first := Entry{Session: "s", Seq: 1, Kind: KindDispatch, ActionType: "PUSH"}
	require.NoError(t, j.Record(ctx, first))
	require.NoError(t, j.Record(ctx, Entry{Session: "s", Seq: 1, Kind: KindNotify}))

	entries, err := j.ReadSession(ctx, "s")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, first, entries[0])
}

func TestRecord_Validation(t *testing.T) {
	j := openTestJournal(t)
	ctx := testContext(t)

	tests := []struct {
		name  string
		entry Entry
		msg   string
	}{
		{"empty session", Entry{Seq: 1, Kind: KindDispatch}, "empty session"},
		{"bad kind", Entry{Session: "s", Seq: 1, Kind: "explode"}, "unknown kind"},
		{"zero seq", Entry{Session: "s", Kind: KindNotify}, "seq must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := j.Record(ctx, tt.entry)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestReadSession_UnknownIsEmpty(t *testing.T) {
	j := openTestJournal(t)

	entries, err := j.ReadSession(testContext(t), "nope")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestSessions_RegistrationOrderAndCounts(t *testing.T) {
	j := openTestJournal(t)
	ctx := testContext(t)

	require.NoError(t, j.BeginSession(ctx, "b", "second label"))
	require.NoError(t, j.BeginSession(ctx, "a", "first"))
	require.NoError(t, j.BeginSession(ctx, "b", "ignored"))
	require.NoError(t, j.Record(ctx, Entry{Session: "a", Seq: 1, Kind: KindNotify}))
	require.NoError(t, j.Record(ctx, Entry{Session: "a", Seq: 2, Kind: KindNotify}))

	sessions, err := j.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Session{
		{ID: "b", Label: "second label", Entries: 0},
		{ID: "a", Label: "first", Entries: 2},
	}, sessions)

	assert.Error(t, j.BeginSession(ctx, "", ""))
}

func TestCountByKind(t *testing.T) {
	j := openTestJournal(t)
	ctx := testContext(t)

	for i, k := range []Kind{KindDispatch, KindNotify, KindDispatch, KindNotify, KindEvaluate} {
		require.NoError(t, j.Record(ctx, Entry{Session: "s", Seq: int64(i + 1), Kind: k}))
	}

	counts, err := j.CountByKind(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, map[Kind]int{KindDispatch: 2, KindNotify: 2, KindEvaluate: 1}, counts)
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindDispatch, KindEvaluate, KindCommit, KindNotify} {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, Kind("").Valid())
}
