package listview

import (
	"encoding/json"

	"github.com/friendsofgo/errors"
)

// DefaultItemsKey is the envelope field holding the rows when none is configured.
const DefaultItemsKey = "items"

// envelope metadata keys. "count" is accepted as an alias of "total".
var totalKeys = []string{"total", "count"}

// Decode decodes a JSON list body in the declared shape.
// It never fails: a body that does not match the shape yields a Malformed response.
func Decode[T any](shape Shape, itemsKey string, body []byte) Response[T] {
	if shape == ShapeEnveloped {
		return DecodeEnveloped[T](body, itemsKey)
	}
	return DecodeBare[T](body)
}

// DecodeBare decodes a plain JSON array: [...].
func DecodeBare[T any](body []byte) Response[T] {
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return Malformed[T](errors.Wrap(ErrDecodeFailure, err.Error()))
	}
	if items == nil {
		// "null" is not a list
		return Malformed[T](errors.Wrap(ErrDecodeFailure, "body is null"))
	}
	return Bare(items)
}

// DecodeEnveloped decodes a paginated wrapper:
// {"<itemsKey>":[...], "total":N, "limit":N, "offset":N}.
// Metadata fields are optional; a metadata field of the wrong type is ignored.
func DecodeEnveloped[T any](body []byte, itemsKey string) Response[T] {
	if itemsKey == "" {
		itemsKey = DefaultItemsKey
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Malformed[T](errors.Wrap(ErrDecodeFailure, err.Error()))
	}

	itemsRaw, ok := fields[itemsKey]
	if !ok {
		return Malformed[T](errors.Wrapf(ErrDecodeFailure, "missing %q field", itemsKey))
	}

	var items []T
	if err := json.Unmarshal(itemsRaw, &items); err != nil {
		return Malformed[T](errors.Wrapf(ErrDecodeFailure, "decode %q: %s", itemsKey, err.Error()))
	}
	if items == nil {
		items = []T{}
	}

	env := Envelope[T]{
		Items:  items,
		Limit:  intField(fields, "limit"),
		Offset: intField(fields, "offset"),
	}
	for _, key := range totalKeys {
		if total := intField(fields, key); total != nil {
			env.Total = total
			break
		}
	}

	return Enveloped(env)
}

func intField(fields map[string]json.RawMessage, key string) *int {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var v *int
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
