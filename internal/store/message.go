package store

// Message is anything that can be passed to Dispatch.
//
// The variant set is closed: Action, and types that embed Extension.
type Message interface {
	message()
}

// Action is a plain application action. Reducers switch on Type.
type Action struct {
	Type    string
	Payload any
}

func (Action) message() {}

// Extension marks a message kind that is handled by middleware and never
// reaches the reducer. Embed it in the message struct:
//
//	type Thunk struct {
//		store.Extension
//		Run func()
//	}
type Extension struct{}

func (Extension) message() {}

// InitType is the action type of the initialization reduction applied by New.
const InitType = "@@store/INIT"

// InitReductions is the number of reductions New applies before returning.
const InitReductions = 1
