package testutil

// DefaultSession is the id FixedSession falls back to.
const DefaultSession = "test-session-default"

// FixedSession hands out the same session id on every call, so journal rows
// from repeated runs are byte-identical.
type FixedSession struct {
	id string
}

// NewFixedSession returns a generator for id, or DefaultSession when id is
// empty.
func NewFixedSession(id string) *FixedSession {
	if id == "" {
		id = DefaultSession
	}
	return &FixedSession{id: id}
}

// Generate implements journal.SessionGenerator.
func (g *FixedSession) Generate() string {
	return g.id
}
