package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibility_Scope(t *testing.T) {
	live := Filter{FieldDeletedAt: nil}
	deleted := Filter{FieldDeletedAt: Filter{"$ne": nil}}
	byRole := Filter{"role": "admin"}

	assert.Equal(t, live, VisibilityLive.Scope(nil))
	assert.Equal(t, deleted, VisibilityDeleted.Scope(Filter{}))
	assert.Nil(t, VisibilityAll.Scope(nil))

	assert.Equal(t, Filter{"$and": []any{byRole, live}}, VisibilityLive.Scope(byRole))
	assert.Equal(t, Filter{"$and": []any{byRole, deleted}}, VisibilityDeleted.Scope(byRole))
	assert.Equal(t, byRole, VisibilityAll.Scope(byRole))
}

func TestVisibility_ScopeDoesNotMutateCallerFilter(t *testing.T) {
	f := Filter{"role": "admin"}
	_ = VisibilityLive.Scope(f)
	assert.Equal(t, Filter{"role": "admin"}, f)
}

func TestParseVisibility(t *testing.T) {
	for in, want := range map[string]Visibility{
		"":        VisibilityLive,
		"live":    VisibilityLive,
		"all":     VisibilityAll,
		"deleted": VisibilityDeleted,
		"bogus":   VisibilityLive,
	} {
		assert.Equal(t, want, ParseVisibility(in), in)
	}
	assert.Equal(t, "deleted", VisibilityDeleted.String())
}

func TestFilter_And(t *testing.T) {
	a := Filter{"role": "admin"}
	b := Filter{"status": "active"}

	assert.Equal(t, a, a.And(nil))
	assert.Equal(t, b, Filter(nil).And(b))
	assert.Equal(t, Filter{"$and": []any{a, b}}, a.And(b))
}

func TestValidationError(t *testing.T) {
	cause := errors.New("bad hex")
	err := error(NewValidationError(FieldID, "must be hex", cause))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "_id: must be hex")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldID, verr.Field)

	assert.Equal(t, "validation failed: empty", NewValidationError("", "empty", nil).Error())
}
