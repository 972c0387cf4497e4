package engine

import (
	"testing"

	"logbook/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func urlAttachment(u string) *model.Attachment {
	return model.NewURLAttachment(registry.Lookup(model.KindURL), u, "")
}

func TestStoreOwnership(t *testing.T) {
	s := NewStore()
	entry := uuid.New()
	a, b := urlAttachment("https://a.example"), urlAttachment("https://b.example")

	require.NoError(t, s.Add(entry, a))
	require.NoError(t, s.Add(entry, b))
	assert.Error(t, s.Add(uuid.New(), a))
	assert.Equal(t, 2, s.Count(entry))
	assert.Equal(t, []*model.Attachment{a, b}, s.ForEntry(entry))

	owner, ok := s.Owner(a.ID())
	require.True(t, ok)
	assert.Equal(t, entry, owner)

	removed, ok := s.Remove(a.ID())
	require.True(t, ok)
	assert.Same(t, a, removed)
	_, ok = s.Owner(a.ID())
	assert.False(t, ok)
	_, ok = s.Remove(a.ID())
	assert.False(t, ok)
	require.NoError(t, s.Check())
}

func TestSynchronizerVisibility(t *testing.T) {
	s := NewStore()
	sync := NewSynchronizer(s.Get)
	entry := uuid.New()
	v := newFakeView()

	sync.OpenView(entry, v, nil)
	assert.False(t, v.visible)

	a := urlAttachment("https://a.example")
	require.NoError(t, s.Add(entry, a))
	sync.Attach(entry, a)
	assert.True(t, v.visible)
	assert.Equal(t, 1, sync.RowCount(a.ID()))
	assert.Len(t, sync.ViewRows(v.ViewID()), 1)

	assert.Equal(t, 1, sync.OnEdited(a))
	assert.Equal(t, 1, v.updates)

	assert.Equal(t, 1, sync.OnDeleted(a.ID()))
	assert.False(t, v.visible)
	assert.Empty(t, v.rows)
	assert.Zero(t, sync.OnEdited(a))
	require.NoError(t, sync.Check())
}

func TestSynchronizerGlobalReplaced(t *testing.T) {
	s := NewStore()
	sync := NewSynchronizer(s.Get)
	a := urlAttachment("https://a.example")
	require.NoError(t, s.Add(uuid.New(), a))

	first, second := newFakeView(), newFakeView()
	sync.SetGlobal(first, s.All())
	assert.Equal(t, 1, sync.RowCount(a.ID()))

	sync.SetGlobal(second, s.All())
	assert.Equal(t, 1, sync.RowCount(a.ID()))
	assert.Same(t, second, sync.Global())
	assert.Empty(t, sync.ViewRows(first.ViewID()))

	sync.SetGlobal(nil, nil)
	assert.Nil(t, sync.Global())
	assert.Zero(t, sync.RowCount(a.ID()))
	require.NoError(t, sync.Check())
}

func TestSynchronizerCloseEntry(t *testing.T) {
	s := NewStore()
	sync := NewSynchronizer(s.Get)
	entry, other := uuid.New(), uuid.New()
	a := urlAttachment("https://a.example")
	b := urlAttachment("https://b.example")
	require.NoError(t, s.Add(entry, a))
	require.NoError(t, s.Add(other, b))

	for i := 0; i < 2; i++ {
		sync.OpenView(entry, newFakeView(), s.ForEntry(entry))
	}
	keep := newFakeView()
	sync.OpenView(other, keep, s.ForEntry(other))
	require.Len(t, sync.ViewsOf(entry), 2)

	sync.CloseEntry(entry)
	assert.Empty(t, sync.ViewsOf(entry))
	assert.Zero(t, sync.RowCount(a.ID()))
	assert.Equal(t, 1, sync.RowCount(b.ID()))
	require.NoError(t, sync.Check())
}

func TestRowResolvesWeakly(t *testing.T) {
	s := NewStore()
	sync := NewSynchronizer(s.Get)
	entry := uuid.New()
	a := urlAttachment("https://a.example")
	require.NoError(t, s.Add(entry, a))

	v := newFakeView()
	sync.OpenView(entry, v, s.ForEntry(entry))
	row := v.rows[0]
	assert.Equal(t, a.ID(), row.AttachmentID())

	s.Remove(a.ID())
	_, ok := row.Attachment()
	assert.False(t, ok)
}
