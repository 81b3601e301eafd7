package mongo

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
)

// codeDocumentValidationFailure is returned by the server when a write
// violates the collection's $jsonSchema validator.
const codeDocumentValidationFailure = 121

// toDocument encodes v into a mutable field map.
func toDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, domain.NewValidationError("", "document cannot be encoded", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, domain.NewValidationError("", "document cannot be encoded", err)
	}
	return doc, nil
}

// decode converts a stored document into a T.
func decode[T any](doc any) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}

// decodeSingle reads a SingleResult, mapping "no document" to nil.
func decodeSingle[T any](res *mongo.SingleResult) (*T, error) {
	var out T
	if err := res.Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// parseID converts a hex identifier into the stored ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewValidationError(domain.FieldID, "must be a 24-character hex ObjectID", err)
	}
	return oid, nil
}

func idFilter(id string) (domain.Filter, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return domain.Filter{domain.FieldID: oid}, nil
}

// insertID returns the identity for a new document: a caller-supplied
// ObjectID (or its hex form) is kept, anything empty gets a fresh one.
func insertID(v any) (primitive.ObjectID, error) {
	switch id := v.(type) {
	case nil:
		return primitive.NewObjectID(), nil
	case primitive.ObjectID:
		if id.IsZero() {
			return primitive.NewObjectID(), nil
		}
		return id, nil
	case string:
		if id == "" {
			return primitive.NewObjectID(), nil
		}
		return parseID(id)
	default:
		return primitive.NilObjectID, domain.NewValidationError(domain.FieldID, fmt.Sprintf("unsupported id type %T", v), nil)
	}
}

// toFilter adapts a domain filter for the driver, which rejects nil documents.
func toFilter(f domain.Filter) bson.M {
	if f == nil {
		return bson.M{}
	}
	return bson.M(f)
}

func toSort(fields []domain.SortField) bson.D {
	if len(fields) == 0 {
		return nil
	}
	sort := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: f.Field, Value: dir})
	}
	return sort
}

func toProjection(p domain.Projection) bson.M {
	if len(p) == 0 {
		return nil
	}
	out := make(bson.M, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// withSet returns update in operator form with extra merged into its $set
// stage. A plain field map becomes the $set stage itself.
func withSet(update domain.Update, extra bson.M) (domain.Update, error) {
	var operators, plain int
	for k := range update {
		if strings.HasPrefix(k, "$") {
			operators++
		} else {
			plain++
		}
	}
	if operators > 0 && plain > 0 {
		return nil, domain.NewValidationError("update", "cannot mix update operators and plain fields", nil)
	}

	out := make(domain.Update, operators+1)
	set := bson.M{}
	for k, v := range update {
		if plain > 0 {
			set[k] = v
			continue
		}
		if k != "$set" {
			out[k] = v
			continue
		}
		fields, ok := asMap(v)
		if !ok {
			return nil, domain.NewValidationError("update", fmt.Sprintf("$set must be a document, got %T", v), nil)
		}
		for field, value := range fields {
			set[field] = value
		}
	}
	for k, v := range extra {
		set[k] = v
	}
	if len(set) > 0 {
		out["$set"] = set
	}
	return out, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case bson.M:
		return m, true
	case domain.Update:
		return m, true
	case domain.Filter:
		return m, true
	default:
		return nil, false
	}
}

// translateError maps server-side schema violations to a ValidationError,
// tags unique index violations with domain.ErrDuplicateKey and wraps
// everything with the operation name. The original error stays reachable
// through errors.Is / errors.As.
func translateError(op string, err error) error {
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(codeDocumentValidationFailure) {
		return domain.NewValidationError("", "document failed schema validation", err)
	}
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicateKey, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
