package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/odprema/internal/model"
)

func TestPropagateFillsOnlyUnset(t *testing.T) {
	r := New()
	r.Upsert(model.KindStore, key(1, 101), ref(7, "Backup store"), nil)
	r.Upsert(model.KindStore, key(1, 102), nil, nil)
	r.Upsert(model.KindStore, key(1, 103), nil, nil)

	changed := r.Propagate(model.KindStore, model.AttrLocation, model.Ref{ID: 55, Label: "Main store"}, 1)
	assert.True(t, changed)

	stores := r.Get(model.KindStore)
	require.Len(t, stores, 3)
	assert.Equal(t, int64(7), stores[0].Location.ID, "explicit per-item choice must survive")
	assert.Equal(t, int64(55), stores[1].Location.ID)
	assert.Equal(t, int64(55), stores[2].Location.ID)
}

func TestPropagateScopedToLineItem(t *testing.T) {
	r := New()
	r.Upsert(model.KindSite, key(1, 101), nil, nil)
	r.Upsert(model.KindSite, key(2, 201), nil, nil)

	r.Propagate(model.KindSite, model.AttrCustodian, model.Ref{ID: 9, Label: "Ana"}, 1)

	sites := r.Get(model.KindSite)
	require.NotNil(t, sites[0].Custodian)
	assert.Nil(t, sites[1].Custodian)
}

func TestPropagateReportsNoChange(t *testing.T) {
	r := New()
	r.Upsert(model.KindStore, key(1, 101), ref(7, "Backup store"), ref(9, "Ana"))

	assert.False(t, r.Propagate(model.KindStore, model.AttrLocation, model.Ref{ID: 55, Label: "Main store"}, 1))
	assert.False(t, r.Propagate(model.KindStore, model.AttrLocation, model.Ref{ID: 55, Label: "Main store"}, 3))
}

func TestPropagateRejectsKeyOnlyKinds(t *testing.T) {
	r := New()
	r.Upsert(model.KindSpare, key(1, 101), nil, nil)

	assert.False(t, r.Propagate(model.KindSpare, model.AttrLocation, model.Ref{ID: 55, Label: "Main store"}, 1))
	assert.Nil(t, r.Get(model.KindSpare)[0].Location)
}

func TestPropagateUnknownAttribute(t *testing.T) {
	r := New()
	r.Upsert(model.KindStore, key(1, 101), nil, nil)

	assert.False(t, r.Propagate(model.KindStore, "owner", model.Ref{ID: 9, Label: "Ana"}, 1))
}

func TestPropagateCopiesValuePerAssignment(t *testing.T) {
	r := New()
	r.Upsert(model.KindStore, key(1, 101), nil, nil)
	r.Upsert(model.KindStore, key(1, 102), nil, nil)

	r.Propagate(model.KindStore, model.AttrLocation, model.Ref{ID: 55, Label: "Main store"}, 1)

	stores := r.Get(model.KindStore)
	require.Len(t, stores, 2)
	assert.NotSame(t, stores[0].Location, stores[1].Location)
}
