package catalog

import (
	"context"
	"errors"
)

// Entity type names used by the importer. Categories are stored as Sequence
// entities for historical reasons; the library predates a dedicated type.
const (
	TypeCategory = "Sequence"
	TypeAsset    = "Asset"
	TypeVersion  = "Version"
	TypeUser     = "HumanUser"
)

// FieldUploadedMovie is the Version field the proxy movie is uploaded to.
const FieldUploadedMovie = "sg_uploaded_movie"

var (
	// ErrUnreachable wraps transport-level failures talking to the store.
	ErrUnreachable = errors.New("catalog unreachable")
	// ErrBadResponse marks malformed or unexpected responses.
	ErrBadResponse = errors.New("catalog response malformed")
)

// Ref links one entity to another in create payloads.
type Ref struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// Fields is the field map sent on create.
type Fields map[string]any

// Entity is a transient handle on a remote record. Only the identifier and
// the requested fields are held locally; the store owns everything else.
type Entity struct {
	Type   string
	ID     int64
	Fields Fields
}

// Ref returns a link payload for this entity.
func (e *Entity) Ref() Ref {
	return Ref{Type: e.Type, ID: e.ID}
}

// Filter is one (field, "is", value) condition. Conditions in a slice are
// combined with AND.
type Filter struct {
	Field    string
	Relation string
	Value    any
}

// Is builds an equality filter.
func Is(field string, value any) Filter {
	return Filter{Field: field, Relation: "is", Value: value}
}

// Service is the catalog surface the importer depends on.
type Service interface {
	// FindOne returns the first entity matching all filters, or nil when
	// nothing matches.
	FindOne(ctx context.Context, entityType string, filters []Filter, fields []string) (*Entity, error)
	// Create inserts a new entity and returns its handle.
	Create(ctx context.Context, entityType string, data Fields) (*Entity, error)
	// Upload attaches the file at path to the named field of an entity.
	Upload(ctx context.Context, entityType string, id int64, path, fieldName string) error
	// UploadThumbnail attaches the image at path as the entity thumbnail.
	UploadThumbnail(ctx context.Context, entityType string, id int64, path string) error
}

// FindOrCreate looks an entity up by the given filters and creates it from
// data when absent. The second return reports whether a create happened.
func FindOrCreate(ctx context.Context, svc Service, entityType string, filters []Filter, data Fields) (*Entity, bool, error) {
	existing, err := svc.FindOne(ctx, entityType, filters, nil)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	created, err := svc.Create(ctx, entityType, data)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
