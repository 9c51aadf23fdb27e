package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/odprema/internal/model"
)

func key(li, id int64) model.Key {
	return model.Key{LineItemID: li, ItemDetailsID: id}
}

func ref(id int64, label string) *model.Ref {
	return &model.Ref{ID: id, Label: label}
}

func TestUpsertInsertsThenReplaces(t *testing.T) {
	r := New()

	r.Upsert(model.KindStore, key(1, 101), nil, nil)
	require.Len(t, r.Get(model.KindStore), 1)
	assert.Nil(t, r.Get(model.KindStore)[0].Location)

	r.Upsert(model.KindStore, key(1, 101), ref(55, "Main store"), nil)
	stores := r.Get(model.KindStore)
	require.Len(t, stores, 1)
	require.NotNil(t, stores[0].Location)
	assert.Equal(t, int64(55), stores[0].Location.ID)
}

func TestUpsertTouchesOnlyTargetCollection(t *testing.T) {
	r := New()
	r.Upsert(model.KindSite, key(1, 101), nil, nil)

	// Exclusivity is the engine's job, not the registry's.
	r.Upsert(model.KindStore, key(1, 101), nil, nil)
	assert.Len(t, r.Get(model.KindStore), 1)
	assert.Len(t, r.Get(model.KindSite), 1)
}

func TestRemoveMissingIsNoop(t *testing.T) {
	r := New()
	r.Remove(model.KindStore, key(1, 101))
	assert.True(t, r.Empty())
}

func TestRemovePreservesOrder(t *testing.T) {
	r := New()
	r.Upsert(model.KindStore, key(1, 101), nil, nil)
	r.Upsert(model.KindStore, key(1, 102), nil, nil)
	r.Upsert(model.KindStore, key(1, 103), nil, nil)

	r.Remove(model.KindStore, key(1, 102))

	stores := r.Get(model.KindStore)
	require.Len(t, stores, 2)
	assert.Equal(t, int64(101), stores[0].ItemDetailsID)
	assert.Equal(t, int64(103), stores[1].ItemDetailsID)
}

func TestSetAttributeWithoutAssignmentIsNoop(t *testing.T) {
	r := New()
	r.SetAttribute(model.KindStore, key(1, 101), model.AttrLocation, ref(55, "Main store"))
	assert.True(t, r.Empty())
}

func TestSetAttributePartialUpdate(t *testing.T) {
	r := New()
	r.Upsert(model.KindSite, key(1, 101), ref(7, "POP Ljubljana"), nil)

	r.SetAttribute(model.KindSite, key(1, 101), model.AttrCustodian, ref(9, "Ana"))

	sites := r.Get(model.KindSite)
	require.Len(t, sites, 1)
	require.NotNil(t, sites[0].Location)
	require.NotNil(t, sites[0].Custodian)
	assert.Equal(t, int64(7), sites[0].Location.ID)
	assert.Equal(t, int64(9), sites[0].Custodian.ID)
}

func TestClearLineItemSpansAllCollections(t *testing.T) {
	r := New()
	r.Upsert(model.KindStore, key(1, 101), nil, nil)
	r.Upsert(model.KindSite, key(1, 102), nil, nil)
	r.Upsert(model.KindSpare, key(1, 103), nil, nil)
	r.Upsert(model.KindLive, key(2, 201), nil, nil)

	r.ClearLineItem(1)

	assert.Empty(t, r.Get(model.KindStore))
	assert.Empty(t, r.Get(model.KindSite))
	assert.Empty(t, r.Get(model.KindSpare))
	require.Len(t, r.Get(model.KindLive), 1)
	assert.Equal(t, int64(201), r.Get(model.KindLive)[0].ItemDetailsID)
}

func TestKindOf(t *testing.T) {
	r := New()
	r.Upsert(model.KindSpare, key(3, 301), nil, nil)

	k, ok := r.KindOf(key(3, 301))
	require.True(t, ok)
	assert.Equal(t, model.KindSpare, k)

	_, ok = r.KindOf(key(3, 302))
	assert.False(t, ok)
}
