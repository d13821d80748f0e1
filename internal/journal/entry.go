package journal

import "fmt"

// Kind classifies an entry.
type Kind string

const (
	// KindDispatch is a plain action entering the root store's middleware.
	KindDispatch Kind = "dispatch"
	// KindEvaluate is a speculative evaluation at any depth.
	KindEvaluate Kind = "evaluate"
	// KindCommit is a successful Execute at any depth.
	KindCommit Kind = "commit"
	// KindNotify is a listener notification on the root store.
	KindNotify Kind = "notify"
)

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDispatch, KindEvaluate, KindCommit, KindNotify:
		return true
	}
	return false
}

// Entry is one journal row.
type Entry struct {
	Session     string `json:"session"`
	Seq         int64  `json:"seq"`
	Kind        Kind   `json:"kind"`
	ActionType  string `json:"action_type,omitempty"`
	Strategy    string `json:"strategy,omitempty"`
	CanExecute  bool   `json:"can_execute,omitempty"`
	Depth       int    `json:"depth,omitempty"`
	StateDigest string `json:"state_digest,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

func (e Entry) validate() error {
	if e.Session == "" {
		return fmt.Errorf("entry seq=%d: empty session", e.Seq)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("entry seq=%d: unknown kind %q", e.Seq, e.Kind)
	}
	if e.Seq <= 0 {
		return fmt.Errorf("entry kind=%s: seq must be positive, got %d", e.Kind, e.Seq)
	}
	return nil
}
