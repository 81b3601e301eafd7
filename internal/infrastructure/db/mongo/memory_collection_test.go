package mongo

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const codeDuplicateKey = 11000

// memoryCollection is an in-process stand-in for *mongo.Collection covering
// the query and update operators the repositories emit.
type memoryCollection struct {
	mu     sync.Mutex
	docs   []bson.M
	unique []string
	// failWrites, when set, is returned by the next write.
	failWrites error
	// readConcerns records every level a read asked for.
	readConcerns []string
}

var _ Collection = (*memoryCollection)(nil)

func newMemoryCollection(unique ...string) *memoryCollection {
	return &memoryCollection{unique: unique}
}

// raw returns a copy of the stored document with the given _id.
func (c *memoryCollection) raw(id primitive.ObjectID) bson.M {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.docs {
		if d["_id"] == id {
			out, _ := normalize(d)
			return out
		}
	}
	return nil
}

func (c *memoryCollection) withReadConcern(level string) (Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readConcerns = append(c.readConcerns, level)
	return c, nil
}

func (c *memoryCollection) takeFailure() error {
	err := c.failWrites
	c.failWrites = nil
	return err
}

func (c *memoryCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}
	doc, err := normalize(document)
	if err != nil {
		return nil, err
	}
	if err := c.checkUnique(doc, nil); err != nil {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: codeDuplicateKey, Message: err.Error()}}}
	}
	c.docs = append(c.docs, doc)
	return &mongo.InsertOneResult{InsertedID: doc["_id"]}, nil
}

func (c *memoryCollection) InsertMany(_ context.Context, documents []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}
	res := &mongo.InsertManyResult{}
	for i, d := range documents {
		doc, err := normalize(d)
		if err != nil {
			return res, err
		}
		if err := c.checkUnique(doc, nil); err != nil {
			return res, mongo.BulkWriteException{WriteErrors: []mongo.BulkWriteError{{
				WriteError: mongo.WriteError{Index: i, Code: codeDuplicateKey, Message: err.Error()},
			}}}
		}
		c.docs = append(c.docs, doc)
		res.InsertedIDs = append(res.InsertedIDs, doc["_id"])
	}
	return res, nil
}

func (c *memoryCollection) FindOne(_ context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	var (
		sortSpec, projection interface{}
		skip                 int64
	)
	for _, o := range opts {
		if o == nil {
			continue
		}
		if o.Sort != nil {
			sortSpec = o.Sort
		}
		if o.Projection != nil {
			projection = o.Projection
		}
		if o.Skip != nil {
			skip = *o.Skip
		}
	}
	matched, err := c.query(filter, sortSpec)
	if err != nil {
		return mongo.NewSingleResultFromDocument(bson.M{}, err, nil)
	}
	if int64(len(matched)) <= skip {
		return mongo.NewSingleResultFromDocument(bson.M{}, mongo.ErrNoDocuments, nil)
	}
	doc, err := project(matched[skip], projection)
	if err != nil {
		return mongo.NewSingleResultFromDocument(bson.M{}, err, nil)
	}
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}

func (c *memoryCollection) Find(_ context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var (
		sortSpec, projection interface{}
		skip, limit          int64
	)
	for _, o := range opts {
		if o == nil {
			continue
		}
		if o.Sort != nil {
			sortSpec = o.Sort
		}
		if o.Projection != nil {
			projection = o.Projection
		}
		if o.Skip != nil {
			skip = *o.Skip
		}
		if o.Limit != nil {
			limit = *o.Limit
		}
	}
	matched, err := c.query(filter, sortSpec)
	if err != nil {
		return nil, err
	}
	if skip >= int64(len(matched)) {
		matched = nil
	} else {
		matched = matched[skip:]
	}
	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	out := make([]interface{}, 0, len(matched))
	for _, d := range matched {
		doc, err := project(d, projection)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return mongo.NewCursorFromDocuments(out, nil, nil)
}

func (c *memoryCollection) FindOneAndUpdate(_ context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return mongo.NewSingleResultFromDocument(bson.M{}, err, nil)
	}
	after := false
	var sortSpec interface{}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if o.ReturnDocument != nil {
			after = *o.ReturnDocument == options.After
		}
		if o.Sort != nil {
			sortSpec = o.Sort
		}
	}
	matched, err := c.query(filter, sortSpec)
	if err != nil {
		return mongo.NewSingleResultFromDocument(bson.M{}, err, nil)
	}
	if len(matched) == 0 {
		return mongo.NewSingleResultFromDocument(bson.M{}, mongo.ErrNoDocuments, nil)
	}
	before, _ := normalize(matched[0])
	if _, err := c.apply(matched[0], update); err != nil {
		return mongo.NewSingleResultFromDocument(bson.M{}, err, nil)
	}
	if after {
		return mongo.NewSingleResultFromDocument(matched[0], nil, nil)
	}
	return mongo.NewSingleResultFromDocument(before, nil, nil)
}

func (c *memoryCollection) FindOneAndDelete(_ context.Context, filter interface{}, _ ...*options.FindOneAndDeleteOptions) *mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return mongo.NewSingleResultFromDocument(bson.M{}, err, nil)
	}
	matched, err := c.query(filter, nil)
	if err != nil {
		return mongo.NewSingleResultFromDocument(bson.M{}, err, nil)
	}
	if len(matched) == 0 {
		return mongo.NewSingleResultFromDocument(bson.M{}, mongo.ErrNoDocuments, nil)
	}
	c.remove(matched[:1])
	return mongo.NewSingleResultFromDocument(matched[0], nil, nil)
}

func (c *memoryCollection) UpdateMany(_ context.Context, filter interface{}, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}
	matched, err := c.query(filter, nil)
	if err != nil {
		return nil, err
	}
	res := &mongo.UpdateResult{MatchedCount: int64(len(matched))}
	for _, d := range matched {
		changed, err := c.apply(d, update)
		if err != nil {
			return nil, err
		}
		if changed {
			res.ModifiedCount++
		}
	}
	return res, nil
}

func (c *memoryCollection) DeleteMany(_ context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}
	matched, err := c.query(filter, nil)
	if err != nil {
		return nil, err
	}
	c.remove(matched)
	return &mongo.DeleteResult{DeletedCount: int64(len(matched))}, nil
}

func (c *memoryCollection) CountDocuments(_ context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	matched, err := c.query(filter, nil)
	if err != nil {
		return 0, err
	}
	n := int64(len(matched))
	for _, o := range opts {
		if o != nil && o.Limit != nil && *o.Limit > 0 && n > *o.Limit {
			n = *o.Limit
		}
	}
	return n, nil
}

// ── internals (callers hold mu) ───────────────────────────────────────────────

// query returns the live stored documents matching filter, sorted.
func (c *memoryCollection) query(filter interface{}, sortSpec interface{}) ([]bson.M, error) {
	f, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	var out []bson.M
	for _, d := range c.docs {
		ok, err := matches(d, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, d)
		}
	}
	if sortSpec != nil {
		spec, err := sortKeys(sortSpec)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(out, func(i, j int) bool {
			for _, k := range spec {
				cmp := compareOrdered(out[i][k.Key], out[j][k.Key])
				if cmp == 0 {
					continue
				}
				if k.Value.(int) < 0 {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}
	return out, nil
}

func (c *memoryCollection) remove(targets []bson.M) {
	kept := c.docs[:0]
	for _, d := range c.docs {
		drop := false
		for _, t := range targets {
			if d["_id"] == t["_id"] {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, d)
		}
	}
	c.docs = kept
}

// apply mutates doc in place and reports whether anything changed.
func (c *memoryCollection) apply(doc bson.M, update interface{}) (bool, error) {
	u, err := normalize(update)
	if err != nil {
		return false, err
	}
	before, _ := normalize(doc)
	for op, arg := range u {
		fields, ok := asDocument(arg)
		if !ok {
			return false, fmt.Errorf("memory collection: %s argument must be a document", op)
		}
		switch op {
		case "$set":
			for k, v := range fields {
				doc[k] = v
			}
		case "$unset":
			for k := range fields {
				delete(doc, k)
			}
		case "$inc":
			for k, v := range fields {
				cur, _ := number(doc[k])
				inc, _ := number(v)
				doc[k] = cur + inc
			}
		default:
			return false, fmt.Errorf("memory collection: unsupported update operator %s", op)
		}
	}
	if err := c.checkUnique(doc, doc); err != nil {
		for k := range doc {
			delete(doc, k)
		}
		for k, v := range before {
			doc[k] = v
		}
		return false, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: codeDuplicateKey, Message: err.Error()}}}
	}
	return !reflect.DeepEqual(before, doc), nil
}

func (c *memoryCollection) checkUnique(doc bson.M, self bson.M) error {
	fields := append([]string{"_id"}, c.unique...)
	for _, existing := range c.docs {
		if self != nil && existing["_id"] == self["_id"] {
			continue
		}
		for _, f := range fields {
			v, ok := doc[f]
			if ok && v != nil && equal(existing[f], v) {
				return fmt.Errorf("E11000 duplicate key error dup key: { %s: %v }", f, v)
			}
		}
	}
	return nil
}

// ── matching ──────────────────────────────────────────────────────────────────

// normalize round-trips v through BSON so typed maps, structs and times all
// collapse into the same value space the server would see.
func normalize(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func asDocument(v interface{}) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]interface{}:
		return d, true
	case bson.D:
		return d.Map(), true
	default:
		return nil, false
	}
}

func asArray(v interface{}) ([]interface{}, bool) {
	switch a := v.(type) {
	case bson.A:
		return a, true
	case []interface{}:
		return a, true
	default:
		return nil, false
	}
}

func matches(doc bson.M, filter bson.M) (bool, error) {
	for key, cond := range filter {
		switch key {
		case "$and", "$or", "$nor":
			clauses, ok := asArray(cond)
			if !ok {
				return false, fmt.Errorf("memory collection: %s needs an array", key)
			}
			anyMatch, allMatch := false, true
			for _, clause := range clauses {
				sub, ok := asDocument(clause)
				if !ok {
					return false, fmt.Errorf("memory collection: %s clause must be a document", key)
				}
				m, err := matches(doc, sub)
				if err != nil {
					return false, err
				}
				anyMatch = anyMatch || m
				allMatch = allMatch && m
			}
			if (key == "$and" && !allMatch) || (key == "$or" && !anyMatch) || (key == "$nor" && anyMatch) {
				return false, nil
			}
			continue
		}

		value, present := doc[key]
		if ops, ok := asDocument(cond); ok && isOperatorDoc(ops) {
			m, err := matchOperators(value, present, ops)
			if err != nil || !m {
				return false, err
			}
			continue
		}
		if !matchEquals(value, present, cond) {
			return false, nil
		}
	}
	return true, nil
}

func isOperatorDoc(d bson.M) bool {
	if len(d) == 0 {
		return false
	}
	for k := range d {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}
	return true
}

func matchEquals(value interface{}, present bool, cond interface{}) bool {
	if cond == nil {
		return !present || value == nil
	}
	if !present {
		return false
	}
	if re, ok := cond.(primitive.Regex); ok {
		return matchRegex(value, re.Pattern, re.Options)
	}
	if arr, ok := asArray(value); ok {
		for _, el := range arr {
			if equal(el, cond) {
				return true
			}
		}
	}
	return equal(value, cond)
}

func matchOperators(value interface{}, present bool, ops bson.M) (bool, error) {
	for op, arg := range ops {
		var ok bool
		switch op {
		case "$eq":
			ok = matchEquals(value, present, arg)
		case "$ne":
			ok = !matchEquals(value, present, arg)
		case "$in", "$nin":
			list, isList := asArray(arg)
			if !isList {
				return false, fmt.Errorf("memory collection: %s needs an array", op)
			}
			for _, candidate := range list {
				if matchEquals(value, present, candidate) {
					ok = true
					break
				}
			}
			if op == "$nin" {
				ok = !ok
			}
		case "$exists":
			want, _ := arg.(bool)
			ok = present == want
		case "$gt", "$gte", "$lt", "$lte":
			cmp, comparable := compare(value, arg)
			if present && comparable {
				switch op {
				case "$gt":
					ok = cmp > 0
				case "$gte":
					ok = cmp >= 0
				case "$lt":
					ok = cmp < 0
				case "$lte":
					ok = cmp <= 0
				}
			}
		case "$regex":
			pattern, _ := arg.(string)
			flags, _ := ops["$options"].(string)
			if re, isRegex := arg.(primitive.Regex); isRegex {
				pattern, flags = re.Pattern, re.Options
			}
			ok = present && matchRegex(value, pattern, flags)
		case "$options":
			ok = true
		default:
			return false, fmt.Errorf("memory collection: unsupported query operator %s", op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchRegex(value interface{}, pattern, opts string) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	if strings.Contains(opts, "i") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func compare(a, b interface{}) (int, bool) {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case primitive.DateTime:
		if y, ok := b.(primitive.DateTime); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
	case primitive.ObjectID:
		if y, ok := b.(primitive.ObjectID); ok {
			return bytes.Compare(x[:], y[:]), true
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, true
			case !x:
				return -1, true
			}
			return 1, true
		}
	}
	return 0, false
}

// compareOrdered sorts null and missing values first.
func compareOrdered(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	cmp, _ := compare(a, b)
	return cmp
}

func equal(a, b interface{}) bool {
	if cmp, ok := compare(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

func sortKeys(spec interface{}) (bson.D, error) {
	d, ok := spec.(bson.D)
	if !ok {
		return nil, fmt.Errorf("memory collection: sort must be bson.D, got %T", spec)
	}
	out := make(bson.D, 0, len(d))
	for _, e := range d {
		dir, ok := number(e.Value)
		if !ok {
			return nil, fmt.Errorf("memory collection: sort direction for %s must be numeric", e.Key)
		}
		out = append(out, bson.E{Key: e.Key, Value: int(dir)})
	}
	return out, nil
}

func project(doc bson.M, projection interface{}) (bson.M, error) {
	out, err := normalize(doc)
	if err != nil || projection == nil {
		return out, err
	}
	p, err := normalize(projection)
	if err != nil {
		return nil, err
	}
	included := func(k string) bool {
		n, _ := number(p[k])
		return n != 0
	}
	inclusive := false
	for k := range p {
		if k != "_id" && included(k) {
			inclusive = true
		}
	}
	if !inclusive {
		for k := range p {
			if !included(k) {
				delete(out, k)
			}
		}
		return out, nil
	}
	kept := bson.M{}
	for k, v := range out {
		if included(k) {
			kept[k] = v
		}
	}
	if _, listed := p["_id"]; !listed || included("_id") {
		kept["_id"] = out["_id"]
	}
	return kept, nil
}
