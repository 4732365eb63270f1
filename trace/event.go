package trace

import "time"

// Kind classifies an annotation event.
type Kind int

const (
	// KindServerReceive marks the start of a server span.
	KindServerReceive Kind = iota
	// KindServerSend marks the end of a server span.
	KindServerSend
	// KindCustom is a named, timestamped marker.
	KindCustom
	// KindBinary is a key/value fact attached to the span.
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindServerReceive:
		return "sr"
	case KindServerSend:
		return "ss"
	case KindCustom:
		return "custom"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Endpoint is this service's network identity. It is resolved once at
// startup and stamped onto every annotation in the process.
type Endpoint struct {
	IPv4        string
	Port        int
	ServiceName string
}

// Event is one annotation handed to the collector. Events are created
// transiently per annotation call and never retained by the interceptor.
// Each event carries the TraceContext it belongs to, so a collector can
// attribute it without consulting shared state.
type Event struct {
	Kind     Kind
	Name     string // custom marker name or binary key
	Value    string // binary value
	Context  TraceContext
	Endpoint Endpoint
	Time     time.Time
}

// ServerReceive builds the start-of-span annotation.
func ServerReceive(tc TraceContext) Event {
	return Event{Kind: KindServerReceive, Context: tc, Time: time.Now()}
}

// ServerSend builds the end-of-span annotation.
func ServerSend(tc TraceContext) Event {
	return Event{Kind: KindServerSend, Context: tc, Time: time.Now()}
}

// CustomEvent builds a named marker annotation.
func CustomEvent(tc TraceContext, name string) Event {
	return Event{Kind: KindCustom, Name: name, Context: tc, Time: time.Now()}
}

// BinaryEvent builds a key/value annotation.
func BinaryEvent(tc TraceContext, key, value string) Event {
	return Event{Kind: KindBinary, Name: key, Value: value, Context: tc, Time: time.Now()}
}

// Collector is the capability surface of a span backend. Record may fail;
// callers on the request path must treat that failure as best-effort.
// Push and Pop manage the active context of the calling request scope and
// are serialized by the interceptor's exclusion lock.
type Collector interface {
	Record(ev Event) error
	Push(tc TraceContext)
	Pop()
}
