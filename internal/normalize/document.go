package normalize

import (
	"github.com/tidwall/gjson"
)

// RecordKey is the root key of an upstream lookup response.
const RecordKey = "WhoisRecord"

// Document is a read-only view over a raw upstream record. Lookups never
// fail: a missing key or a value of the wrong type reads as absent.
type Document struct {
	root gjson.Result
}

// ParseDocument reads the WhoisRecord object out of a raw response body.
func ParseDocument(body []byte) Document {
	return Document{root: gjson.GetBytes(body, RecordKey)}
}

// NewDocument wraps an already extracted record object.
func NewDocument(record gjson.Result) Document {
	return Document{root: record}
}

// Get walks keys one level at a time. Keys are taken literally.
func (d Document) Get(keys ...string) gjson.Result {
	r := d.root
	for _, k := range keys {
		if !r.IsObject() {
			return gjson.Result{}
		}
		r = r.Get(gjson.Escape(k))
	}
	return r
}

// String returns a non-empty string value at keys.
func (d Document) String(keys ...string) (string, bool) {
	return stringValue(d.Get(keys...))
}

// Object returns a non-empty object at keys.
func (d Document) Object(keys ...string) (gjson.Result, bool) {
	r := d.Get(keys...)
	if !r.IsObject() || len(r.Map()) == 0 {
		return gjson.Result{}, false
	}
	return r, true
}

func stringValue(r gjson.Result) (string, bool) {
	if r.Type != gjson.String || r.Str == "" {
		return "", false
	}
	return r.Str, true
}

// firstOf runs a fallback chain of extractors in order and returns the
// first hit.
func firstOf[T any](d Document, chain ...func(Document) (T, bool)) (T, bool) {
	for _, extract := range chain {
		if v, ok := extract(d); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
