package domain

// Filter is a store-native query expression (equality, comparison, logical
// and existence operators). Repositories pass it through untouched apart
// from AND-ing in visibility predicates.
type Filter map[string]any

// Update is either a plain field map (treated as $set) or an operator
// document such as {"$set": {...}, "$unset": {...}}.
type Update map[string]any

// Projection is a field allow list (1) or deny list (0).
type Projection map[string]int

// SortField orders results by a single field.
type SortField struct {
	Field string
	Desc  bool
}

// QueryOptions is the options bag accepted by read operations. A nil
// *QueryOptions means store defaults.
type QueryOptions struct {
	Projection Projection
	Sort       []SortField
	Skip       int64
	Limit      int64
	// ReadConcern is a store read concern level such as "majority". Empty
	// keeps the collection default.
	ReadConcern string
}

// DefaultSort is applied by paginated reads when the request has none.
var DefaultSort = []SortField{{Field: FieldCreatedAt, Desc: true}}

// Visibility selects which records a soft-delete aware query considers.
type Visibility int

const (
	// VisibilityLive matches records without a deletion timestamp.
	VisibilityLive Visibility = iota
	// VisibilityAll matches live and soft-deleted records.
	VisibilityAll
	// VisibilityDeleted matches soft-deleted records only.
	VisibilityDeleted
)

func (v Visibility) String() string {
	switch v {
	case VisibilityAll:
		return "all"
	case VisibilityDeleted:
		return "deleted"
	default:
		return "live"
	}
}

// ParseVisibility maps "live", "all" and "deleted" to a Visibility.
// Anything else, including the empty string, is VisibilityLive.
func ParseVisibility(s string) Visibility {
	switch s {
	case "all":
		return VisibilityAll
	case "deleted":
		return VisibilityDeleted
	default:
		return VisibilityLive
	}
}

// Scope returns filter narrowed to the given visibility. The caller's filter
// is never mutated.
//
//	live    → {$and: [filter, {deleted_at: null}]}
//	deleted → {$and: [filter, {deleted_at: {$ne: null}}]}
//	all     → filter
func (v Visibility) Scope(filter Filter) Filter {
	var predicate Filter
	switch v {
	case VisibilityLive:
		predicate = Filter{FieldDeletedAt: nil}
	case VisibilityDeleted:
		predicate = Filter{FieldDeletedAt: Filter{"$ne": nil}}
	default:
		return filter
	}
	if len(filter) == 0 {
		return predicate
	}
	return Filter{"$and": []any{filter, predicate}}
}

// And combines filter with extra equality terms under $and.
func (f Filter) And(other Filter) Filter {
	switch {
	case len(f) == 0:
		return other
	case len(other) == 0:
		return f
	}
	return Filter{"$and": []any{f, other}}
}
