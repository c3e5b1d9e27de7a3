package listview

import "github.com/friendsofgo/errors"

// Shape declares which raw list shape a collaborator returns.
type Shape int

const (
	// ShapeBare is a bare ordered sequence of rows with no metadata.
	ShapeBare Shape = iota
	// ShapeEnveloped is an object wrapping the rows alongside total/limit/offset.
	ShapeEnveloped
)

// String implements fmt.Stringer.
func (s Shape) String() string {
	switch s {
	case ShapeBare:
		return "bare"
	case ShapeEnveloped:
		return "enveloped"
	default:
		return "unknown"
	}
}

// ParseShape converts "bare" or "enveloped" into a Shape.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "bare", "":
		return ShapeBare, nil
	case "enveloped":
		return ShapeEnveloped, nil
	default:
		return ShapeBare, errors.Errorf("unknown response shape %q", s)
	}
}

// Envelope is the enveloped list shape. Metadata fields are optional.
type Envelope[T any] struct {
	Items  []T
	Total  *int
	Limit  *int
	Offset *int
}

type responseKind int

const (
	kindMalformed responseKind = iota
	kindBare
	kindEnveloped
)

// Response is a tagged union of the raw list shapes a collaborator can return:
// a bare sequence, an envelope, or a malformed response that failed to decode.
// The zero value is a malformed response.
type Response[T any] struct {
	kind     responseKind
	items    []T
	envelope Envelope[T]
	err      error
	// received is the number of bare rows the backend returned, before any
	// local removal. Normalize uses it to tell a server window from a whole
	// collection.
	received int
}

// Bare wraps a bare ordered sequence.
func Bare[T any](items []T) Response[T] {
	return Response[T]{kind: kindBare, items: items, received: len(items)}
}

// Enveloped wraps an envelope.
func Enveloped[T any](env Envelope[T]) Response[T] {
	return Response[T]{kind: kindEnveloped, envelope: env}
}

// Malformed records a response that could not be decoded.
// It normalizes to an empty page.
func Malformed[T any](err error) Response[T] {
	if err == nil {
		err = ErrDecodeFailure
	}
	return Response[T]{kind: kindMalformed, err: err}
}

// IsBare reports whether the response is a bare sequence.
func (r Response[T]) IsBare() bool { return r.kind == kindBare }

// IsEnveloped reports whether the response is an envelope.
func (r Response[T]) IsEnveloped() bool { return r.kind == kindEnveloped }

// IsMalformed reports whether the response failed to decode.
func (r Response[T]) IsMalformed() bool { return r.kind == kindMalformed }

// Err returns the decode error of a malformed response.
func (r Response[T]) Err() error {
	if r.kind != kindMalformed {
		return nil
	}
	if r.err == nil {
		return ErrDecodeFailure
	}
	return r.err
}

// Items returns the rows carried by the response, whatever its shape.
func (r Response[T]) Items() []T {
	switch r.kind {
	case kindBare:
		return r.items
	case kindEnveloped:
		return r.envelope.Items
	default:
		return nil
	}
}

// Envelope returns the envelope of an enveloped response.
func (r Response[T]) Envelope() (Envelope[T], bool) {
	return r.envelope, r.kind == kindEnveloped
}

// WithItems returns a response of the same shape carrying different rows.
// A bare response keeps the row count the backend returned. For envelopes, a
// declared total is reduced by the number of rows removed, never below zero.
func (r Response[T]) WithItems(items []T) Response[T] {
	switch r.kind {
	case kindBare:
		return Response[T]{kind: kindBare, items: items, received: r.received}
	case kindEnveloped:
		env := r.envelope
		if removed := len(env.Items) - len(items); env.Total != nil && removed > 0 {
			total := max(*env.Total-removed, 0)
			env.Total = &total
		}
		env.Items = items
		return Enveloped(env)
	default:
		return r
	}
}
