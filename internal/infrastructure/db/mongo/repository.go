package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/backend-boilerplate/internal/core/domain"
	"github.com/99minutos/backend-boilerplate/internal/core/ports"
)

// Repository implements the base CRUD contract for documents of type T stored
// in one collection. T must encode its identity under "_id" and its
// timestamps under "created_at" / "updated_at", which domain.Record does.
type Repository[T any] struct {
	coll   Collection
	name   string
	logger zerolog.Logger
	now    func() time.Time
}

var _ ports.CRUDRepository[domain.User] = (*Repository[domain.User])(nil)

// NewRepository builds a repository over coll. name labels log lines.
func NewRepository[T any](coll Collection, name string, logger zerolog.Logger) *Repository[T] {
	return &Repository[T]{
		coll:   coll,
		name:   name,
		logger: logger.With().Str("collection", name).Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts data with a store-assigned identity and timestamps and
// returns the stored record. data itself is not modified.
func (r *Repository[T]) Create(ctx context.Context, data *T) (*T, error) {
	return r.create(ctx, data, nil)
}

// CreateMany inserts all records in order. On failure the records before the
// failing one stay persisted and the error is returned.
func (r *Repository[T]) CreateMany(ctx context.Context, data []*T) ([]*T, error) {
	return r.createMany(ctx, data, nil)
}

func (r *Repository[T]) create(ctx context.Context, data *T, stamp bson.M) (*T, error) {
	doc, err := r.prepareInsert(data, stamp)
	if err != nil {
		return nil, err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, r.fail("insert", err)
	}
	return decode[T](doc)
}

func (r *Repository[T]) createMany(ctx context.Context, data []*T, stamp bson.M) ([]*T, error) {
	if len(data) == 0 {
		return []*T{}, nil
	}
	docs := make([]interface{}, 0, len(data))
	for _, d := range data {
		doc, err := r.prepareInsert(d, stamp)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, r.fail("insert many", err)
	}

	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		rec, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Repository[T]) prepareInsert(data *T, stamp bson.M) (bson.M, error) {
	if data == nil {
		return nil, domain.NewValidationError("", "record is nil", nil)
	}
	doc, err := toDocument(data)
	if err != nil {
		return nil, err
	}
	id, err := insertID(doc[domain.FieldID])
	if err != nil {
		return nil, err
	}
	now := r.now()
	doc[domain.FieldID] = id
	doc[domain.FieldCreatedAt] = now
	doc[domain.FieldUpdatedAt] = now
	for k, v := range stamp {
		doc[k] = v
	}
	return doc, nil
}

func (r *Repository[T]) FindByID(ctx context.Context, id string, opts *domain.QueryOptions) (*T, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}
	return r.FindOne(ctx, filter, opts)
}

// FindOne returns the first match in sort order, or nil when nothing matches.
func (r *Repository[T]) FindOne(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) (*T, error) {
	fo := options.FindOne()
	if opts != nil {
		if p := toProjection(opts.Projection); p != nil {
			fo.SetProjection(p)
		}
		if s := toSort(opts.Sort); s != nil {
			fo.SetSort(s)
		}
		if opts.Skip > 0 {
			fo.SetSkip(opts.Skip)
		}
	}
	coll, err := r.reader(opts)
	if err != nil {
		return nil, err
	}
	rec, err := decodeSingle[T](coll.FindOne(ctx, toFilter(filter), fo))
	if err != nil {
		return nil, r.fail("find one", err)
	}
	return rec, nil
}

// FindAll returns every match; an empty result is an empty slice.
func (r *Repository[T]) FindAll(ctx context.Context, filter domain.Filter, opts *domain.QueryOptions) ([]*T, error) {
	fo := options.Find()
	if opts != nil {
		if p := toProjection(opts.Projection); p != nil {
			fo.SetProjection(p)
		}
		if s := toSort(opts.Sort); s != nil {
			fo.SetSort(s)
		}
		if opts.Skip > 0 {
			fo.SetSkip(opts.Skip)
		}
		if opts.Limit > 0 {
			fo.SetLimit(opts.Limit)
		}
	}

	coll, err := r.reader(opts)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, toFilter(filter), fo)
	if err != nil {
		return nil, r.fail("find", err)
	}
	var items []T
	if err := cur.All(ctx, &items); err != nil {
		return nil, r.fail("decode", err)
	}

	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, nil
}

var readConcernLevels = map[string]bool{
	"local":        true,
	"available":    true,
	"majority":     true,
	"linearizable": true,
	"snapshot":     true,
}

// readConcernSetter is implemented by collections that can serve a read at a
// caller chosen read concern level.
type readConcernSetter interface {
	withReadConcern(level string) (Collection, error)
}

// reader returns the collection a read with opts runs against. Collections
// without read concern support serve the read at their default.
func (r *Repository[T]) reader(opts *domain.QueryOptions) (Collection, error) {
	if opts == nil || opts.ReadConcern == "" {
		return r.coll, nil
	}
	if !readConcernLevels[opts.ReadConcern] {
		return nil, domain.NewValidationError("read_concern", fmt.Sprintf("unknown level %q", opts.ReadConcern), nil)
	}
	rc, ok := r.coll.(readConcernSetter)
	if !ok {
		return r.coll, nil
	}
	coll, err := rc.withReadConcern(opts.ReadConcern)
	if err != nil {
		return nil, r.fail("read concern", err)
	}
	return coll, nil
}

func (r *Repository[T]) FindByIDAndUpdate(ctx context.Context, id string, update domain.Update) (*T, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}
	return r.FindOneAndUpdate(ctx, filter, update)
}

// FindOneAndUpdate applies update to the first match and returns the
// post-update record, or nil when nothing matches. updated_at is always
// refreshed.
func (r *Repository[T]) FindOneAndUpdate(ctx context.Context, filter domain.Filter, update domain.Update) (*T, error) {
	upd, err := r.stampUpdate(update)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	rec, err := decodeSingle[T](r.coll.FindOneAndUpdate(ctx, toFilter(filter), upd, opts))
	if err != nil {
		return nil, r.fail("find one and update", err)
	}
	return rec, nil
}

// UpdateMany returns the modified count, which can be lower than the number
// of matched records.
func (r *Repository[T]) UpdateMany(ctx context.Context, filter domain.Filter, update domain.Update) (int64, error) {
	upd, err := r.stampUpdate(update)
	if err != nil {
		return 0, err
	}
	res, err := r.coll.UpdateMany(ctx, toFilter(filter), upd)
	if err != nil {
		return 0, r.fail("update many", err)
	}
	return res.ModifiedCount, nil
}

func (r *Repository[T]) FindByIDAndDelete(ctx context.Context, id string) (*T, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}
	return r.FindOneAndDelete(ctx, filter)
}

// FindOneAndDelete removes the first match and returns it as it was.
func (r *Repository[T]) FindOneAndDelete(ctx context.Context, filter domain.Filter) (*T, error) {
	rec, err := decodeSingle[T](r.coll.FindOneAndDelete(ctx, toFilter(filter)))
	if err != nil {
		return nil, r.fail("find one and delete", err)
	}
	return rec, nil
}

func (r *Repository[T]) DeleteMany(ctx context.Context, filter domain.Filter) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, toFilter(filter))
	if err != nil {
		return 0, r.fail("delete many", err)
	}
	return res.DeletedCount, nil
}

func (r *Repository[T]) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, toFilter(filter))
	if err != nil {
		return 0, r.fail("count", err)
	}
	return n, nil
}

// Exists stops counting at the first match.
func (r *Repository[T]) Exists(ctx context.Context, filter domain.Filter) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, toFilter(filter), options.Count().SetLimit(1))
	if err != nil {
		return false, r.fail("exists", err)
	}
	return n > 0, nil
}

// FindAllPaginated fetches one page and the total match count concurrently.
// The request is used as given: clamping page and limit is the caller's job.
// Without an explicit sort, newest records come first.
func (r *Repository[T]) FindAllPaginated(ctx context.Context, filter domain.Filter, req domain.PaginationRequest) (*domain.PaginationResult[T], error) {
	sort := req.Sort
	if len(sort) == 0 {
		sort = domain.DefaultSort
	}
	opts := &domain.QueryOptions{Sort: sort, Skip: req.Skip(), Limit: int64(req.Limit)}

	var (
		data  []*T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = r.FindAll(gctx, filter, opts)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = r.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.PaginationResult[T]{
		Data: data,
		Meta: domain.NewPaginationMeta(total, req.Page, req.Limit),
	}, nil
}

func (r *Repository[T]) stampUpdate(update domain.Update) (domain.Update, error) {
	return withSet(update, bson.M{domain.FieldUpdatedAt: r.now()})
}

func (r *Repository[T]) fail(op string, err error) error {
	err = translateError(op, err)
	r.logger.Debug().Err(err).Str("op", op).Msg("store operation failed")
	return err
}
