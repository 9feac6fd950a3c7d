// Package tilestate defines the six-variant tagged state a cached
// tile can be in, encoded as a tag plus a union of payloads since Go
// has no native sum type. Callers must switch exhaustively on Tag.
package tilestate

// Texture is the GPU-resident handle for a decoded tile image. The
// concrete type is supplied by the render adapter (internal/render);
// this package only holds it opaquely so the cache never needs to
// import a rendering backend.
type Texture interface {
	// Release destroys the GPU resource. Must be idempotent.
	Release()
}

// Tag identifies which variant a State holds.
type Tag int

const (
	Pending Tag = iota
	Loaded
	Cached
	Failed
	Retrying
	Exhausted
)

func (t Tag) String() string {
	switch t {
	case Pending:
		return "Pending"
	case Loaded:
		return "Loaded"
	case Cached:
		return "Cached"
	case Failed:
		return "Failed"
	case Retrying:
		return "Retrying"
	case Exhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// RetryState tracks a tile's failure history for the backoff policy in
// internal/retry.
type RetryState struct {
	RetryCount   int
	LastFailTime int64 // frame counter (tau) at last failure
	ErrorMessage string
}

// State is one of the six tile-lifecycle variants. Only the fields
// relevant to Tag are meaningful; others are zero. Constructors below
// are the only sanctioned way to build a well-formed State.
type State struct {
	Tag Tag

	// Loaded
	Texture Texture
	Bytes   []byte

	// Cached
	LastAccess uint64

	// Failed / Retrying / Exhausted
	Retry RetryState
}

func NewPending() State {
	return State{Tag: Pending}
}

func NewLoaded(tex Texture, bytes []byte) State {
	return State{Tag: Loaded, Texture: tex, Bytes: bytes}
}

func NewCached(bytes []byte, lastAccess uint64) State {
	return State{Tag: Cached, Bytes: bytes, LastAccess: lastAccess}
}

func NewFailed(rs RetryState) State {
	return State{Tag: Failed, Retry: rs}
}

func NewRetrying(rs RetryState) State {
	return State{Tag: Retrying, Retry: rs}
}

func NewExhausted(rs RetryState) State {
	return State{Tag: Exhausted, Retry: rs}
}

// InFlight reports whether this state corresponds to an active fetch
// task (Pending or Retrying), i.e. whether the active-task registry
// must hold a matching cancel function for this coord.
func (s State) InFlight() bool {
	return s.Tag == Pending || s.Tag == Retrying
}
