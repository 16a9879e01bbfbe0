// Package model defines data structures used throughout the application.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the document key holding the store-assigned identifier.
const IDField = "_id"

// ErrInvalidID is returned when an identifier is not a 24-character hex ObjectID.
var ErrInvalidID = errors.New("invalid ID format")

// Document is a free-form record stored in the collection.
type Document map[string]any

// ID returns the stringified identifier of the document, or "" if absent.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// ParseID converts an external identifier into the store-native ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// DecodeDocument reads a JSON object from r. Integral numbers decode to int64,
// other numbers to float64. Any client-supplied _id is discarded.
func DecodeDocument(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, newBodyError("invalid JSON body")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, newBodyError("unexpected data after JSON body")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, newBodyError("body must be a JSON object")
	}

	doc := fromJSONObject(obj)
	delete(doc, IDField)
	return doc, nil
}

func fromJSONObject(obj map[string]any) Document {
	doc := make(Document, len(obj))
	for k, v := range obj {
		doc[k] = fromJSONValue(v)
	}
	return doc
}

func fromJSONValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return f
	case map[string]any:
		return fromJSONObject(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = fromJSONValue(elem)
		}
		return out
	default:
		return val
	}
}

// FromBSON renders a stored document for the API: ObjectIDs become hex
// strings and nested BSON documents and arrays become plain maps and slices.
func FromBSON(m primitive.M) Document {
	doc := make(Document, len(m))
	for k, v := range m {
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v any) any {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.M:
		return FromBSON(val)
	case map[string]any:
		return FromBSON(val)
	case primitive.D:
		doc := make(Document, len(val))
		for _, elem := range val {
			doc[elem.Key] = fromBSONValue(elem.Value)
		}
		return doc
	case primitive.A:
		return fromBSONSlice(val)
	case []any:
		return fromBSONSlice(val)
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339Nano)
	case int32:
		return int64(val)
	default:
		return val
	}
}

func fromBSONSlice(s []any) []any {
	out := make([]any, len(s))
	for i, elem := range s {
		out[i] = fromBSONValue(elem)
	}
	return out
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Document:
		return val.Clone()
	case map[string]any:
		return Document(val).Clone()
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		return val
	}
}

// Equal reports whether two documents hold the same JSON representation.
func (d Document) Equal(other Document) bool {
	a, errA := json.Marshal(d)
	b, errB := json.Marshal(other)
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// asInteger reports whether v holds an integral JSON number that fits int64.
func asInteger(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
