package trace

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// Propagation header names. Lookup through an http.Header is
// case-insensitive, so inbound casing does not matter.
const (
	TraceIDHeader      = "X-B3-TraceId"
	ParentSpanIDHeader = "X-B3-ParentSpanId"
	SpanIDHeader       = "X-B3-SpanId"
	SampledHeader      = "X-B3-Sampled"
	FlagsHeader        = "X-B3-Flags"
)

// ID is a 64-bit trace or span identifier. Zero is never generated and
// stands for "absent".
type ID uint64

// TraceContext is an immutable value placing one request in a distributed
// call tree. A context inherited from headers is used verbatim; a freshly
// generated root carries identical trace and span ids and a new sampling
// decision.
type TraceContext struct {
	TraceID   ID
	ParentID  ID
	HasParent bool
	SpanID    ID
	Sampled   bool
	Flags     int64
}

// Root reports whether this context starts a new call tree.
func (tc TraceContext) Root() bool {
	return !tc.HasParent
}

// Debug reports whether the debug bit of the flags bitmask is set.
func (tc TraceContext) Debug() bool {
	return tc.Flags&1 == 1
}

// IDCodec converts identifiers to and from their header representation.
// The encoding is a backend convention, so it is injectable rather than
// fixed.
type IDCodec interface {
	Parse(s string) (ID, error)
	Format(id ID) string
}

// HexCodec encodes ids as lowercase hex, zero padded to 16 characters.
type HexCodec struct{}

func (HexCodec) Parse(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex id %q: %w", s, err)
	}
	return ID(v), nil
}

func (HexCodec) Format(id ID) string {
	return fmt.Sprintf("%016x", uint64(id))
}

// DecimalCodec encodes ids as base-10 integers.
type DecimalCodec struct{}

func (DecimalCodec) Parse(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal id %q: %w", s, err)
	}
	return ID(v), nil
}

func (DecimalCodec) Format(id ID) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Carrier reads propagation headers from an inbound request. Lookup
// distinguishes a missing key from a key present with an empty value.
type Carrier interface {
	Lookup(key string) (value string, ok bool)
}

// HeaderCarrier adapts http.Header to the Carrier interface.
type HeaderCarrier http.Header

func (h HeaderCarrier) Lookup(key string) (string, bool) {
	vs := http.Header(h).Values(key)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

type contextKey struct{}

// NewContext returns a context carrying tc, so downstream code can tag its
// own work with the active trace.
func NewContext(ctx context.Context, tc TraceContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext retrieves the TraceContext stored by NewContext.
func FromContext(ctx context.Context) (TraceContext, bool) {
	tc, ok := ctx.Value(contextKey{}).(TraceContext)
	return tc, ok
}
