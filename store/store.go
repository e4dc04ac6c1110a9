// Package store exposes the document collections the application reads and
// writes. Everything is owned by the store; callers hold request-scoped
// copies decoded into the model structs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names.
const (
	Users         = "users"
	Classes       = "classes"
	Timetables    = "timetables"
	Announcements = "announcements"
	Assignments   = "assignments"
	Attendance    = "attendance"
	Marks         = "marks"
	Submissions   = "submissions"
	ActivityLogs  = "activity_logs"
)

// ErrNotFound is returned by GetByID when no document with the given id
// exists in the collection.
var ErrNotFound = errors.New("document not found")

// Document is one record in a collection: an opaque id plus a flat set of
// top-level fields.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// Store is the document-store collaborator. Implementations must treat
// SetMerge as an upsert that merges the given top-level fields into the
// existing document, leaving unmentioned fields untouched.
type Store interface {
	ListAll(ctx context.Context, collection string) ([]Document, error)
	GetByID(ctx context.Context, collection, id string) (Document, error)
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	SetMerge(ctx context.Context, collection, id string, fields map[string]interface{}) error
	DeleteByID(ctx context.Context, collection, id string) error
}

// Decode unmarshals a document into a typed model. The document id is made
// available under the "id" key so model structs pick it up.
func Decode(doc Document, v interface{}) error {
	fields := make(map[string]interface{}, len(doc.Fields)+1)
	for k, val := range doc.Fields {
		fields[k] = val
	}
	fields["id"] = doc.ID
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

// DecodeAll decodes every document in a listing.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := Decode(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Fields converts a typed model into the field map persisted by the store.
// The "id" key is stripped; document ids live outside the field set.
func Fields(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

// StringField reads a string-valued field, returning "" when absent or of
// another type.
func StringField(doc Document, key string) string {
	s, _ := doc.Fields[key].(string)
	return s
}
