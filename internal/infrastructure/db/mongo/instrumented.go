package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"github.com/99minutos/backend-boilerplate/internal/api/metrics"
)

// instrumentedCollection records latency and outcome of every call on the
// wrapped collection.
type instrumentedCollection struct {
	next Collection
	name string
}

// Instrument wraps next so each store call feeds the store metrics.
func Instrument(next Collection, name string) Collection {
	return &instrumentedCollection{next: next, name: name}
}

// withReadConcern returns an instrumented clone of the wrapped collection
// that reads at level.
func (c *instrumentedCollection) withReadConcern(level string) (Collection, error) {
	var next Collection
	switch n := c.next.(type) {
	case *mongo.Collection:
		clone, err := n.Clone(options.Collection().SetReadConcern(&readconcern.ReadConcern{Level: level}))
		if err != nil {
			return nil, err
		}
		next = clone
	case readConcernSetter:
		clone, err := n.withReadConcern(level)
		if err != nil {
			return nil, err
		}
		next = clone
	default:
		return c, nil
	}
	return &instrumentedCollection{next: next, name: c.name}, nil
}

func (c *instrumentedCollection) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		result = "error"
	}
	metrics.StoreOperationDuration.WithLabelValues(c.name, op).Observe(time.Since(start).Seconds())
	metrics.StoreOperationsTotal.WithLabelValues(c.name, op, result).Inc()
}

func (c *instrumentedCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	start := time.Now()
	res, err := c.next.InsertOne(ctx, document, opts...)
	c.observe("insert_one", start, err)
	return res, err
}

func (c *instrumentedCollection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	start := time.Now()
	res, err := c.next.InsertMany(ctx, documents, opts...)
	c.observe("insert_many", start, err)
	return res, err
}

func (c *instrumentedCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	start := time.Now()
	res := c.next.FindOne(ctx, filter, opts...)
	c.observe("find_one", start, res.Err())
	return res
}

func (c *instrumentedCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	start := time.Now()
	cur, err := c.next.Find(ctx, filter, opts...)
	c.observe("find", start, err)
	return cur, err
}

func (c *instrumentedCollection) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	start := time.Now()
	res := c.next.FindOneAndUpdate(ctx, filter, update, opts...)
	c.observe("find_one_and_update", start, res.Err())
	return res
}

func (c *instrumentedCollection) FindOneAndDelete(ctx context.Context, filter interface{}, opts ...*options.FindOneAndDeleteOptions) *mongo.SingleResult {
	start := time.Now()
	res := c.next.FindOneAndDelete(ctx, filter, opts...)
	c.observe("find_one_and_delete", start, res.Err())
	return res
}

func (c *instrumentedCollection) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	start := time.Now()
	res, err := c.next.UpdateMany(ctx, filter, update, opts...)
	c.observe("update_many", start, err)
	return res, err
}

func (c *instrumentedCollection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	start := time.Now()
	res, err := c.next.DeleteMany(ctx, filter, opts...)
	c.observe("delete_many", start, err)
	return res, err
}

func (c *instrumentedCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	start := time.Now()
	n, err := c.next.CountDocuments(ctx, filter, opts...)
	c.observe("count", start, err)
	return n, err
}
