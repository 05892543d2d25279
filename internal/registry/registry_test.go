package registry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/registry"
)

// ---- fake tag list store ----------------------------------------------------

type fakeTagList struct {
	mu    sync.Mutex
	tags  []domain.Tag
	err   error
	calls int
}

func (f *fakeTagList) GetTagList(_ context.Context) ([]domain.Tag, error) {
	return f.tags, f.err
}

func (f *fakeTagList) SetTagList(_ context.Context, tags []domain.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.tags = tags
	return nil
}

var (
	_ registry.TagListReader = (*fakeTagList)(nil)
	_ registry.TagListWriter = (*fakeTagList)(nil)
)

// ---- LookupOrCreate ---------------------------------------------------------

func TestLookupOrCreate_CreatesWithCountOne(t *testing.T) {
	reg := registry.New()

	got := reg.LookupOrCreate("home")

	assert.Equal(t, "home", got.Name)
	assert.Equal(t, 1, got.Count)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestLookupOrCreate_SameIdentityAndIncrements(t *testing.T) {
	reg := registry.New()

	first := reg.LookupOrCreate("home")
	second := reg.LookupOrCreate("home")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, 1, reg.Len())
}

func TestLookupOrCreate_EmptyNameIsIgnored(t *testing.T) {
	reg := registry.New()

	got := reg.LookupOrCreate("")

	assert.Equal(t, domain.Tag{}, got)
	assert.Zero(t, reg.Len())
}

func TestLookupOrCreate_ConcurrentSameName(t *testing.T) {
	reg := registry.New()
	const n = 64

	ids := make([]uuid.UUID, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = reg.LookupOrCreate("shared").ID
		}()
	}
	wg.Wait()

	tag, ok := reg.Get("shared")
	require.True(t, ok)
	assert.Equal(t, n, tag.Count, "no increment may be lost")
	for _, id := range ids {
		assert.Equal(t, tag.ID, id, "only one tag may exist for a name")
	}
}

// ---- Insert -----------------------------------------------------------------

func TestInsert_New(t *testing.T) {
	reg := registry.New()

	err := reg.Insert(domain.Tag{Name: "bank", Count: 3})

	require.NoError(t, err)
	got, ok := reg.Get("bank")
	require.True(t, ok)
	assert.Equal(t, 3, got.Count)
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestInsert_ConflictDoesNotOverwrite(t *testing.T) {
	reg := registry.New()
	orig := reg.LookupOrCreate("bank")

	err := reg.Insert(domain.Tag{Name: "bank", Count: 99})

	assert.ErrorIs(t, err, domain.ErrTagExists)
	got, _ := reg.Get("bank")
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, 1, got.Count)
}

func TestInsert_EmptyName(t *testing.T) {
	err := registry.New().Insert(domain.Tag{})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNew_FirstSeedWins(t *testing.T) {
	id := uuid.New()
	reg := registry.New(
		domain.Tag{ID: id, Name: "home", Count: 4},
		domain.Tag{Name: "home", Count: 7},
	)

	got, _ := reg.Get("home")
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 4, got.Count)
}

// ---- FilterByPrefix / List ---------------------------------------------------

func TestFilterByPrefix(t *testing.T) {
	reg := registry.New()
	for _, name := range []string{"utilities", "home", "house", "bank", "ho"} {
		reg.LookupOrCreate(name)
	}

	got := reg.FilterByPrefix("ho")

	names := make([]string, len(got))
	for i, tag := range got {
		names[i] = tag.Name
	}
	assert.Equal(t, []string{"ho", "home", "house"}, names)
}

func TestFilterByPrefix_CaseSensitiveAndEmpty(t *testing.T) {
	reg := registry.New()
	reg.LookupOrCreate("home")

	assert.Empty(t, reg.FilterByPrefix("Ho"))
	assert.NotNil(t, reg.FilterByPrefix("zzz"))
	assert.Len(t, reg.FilterByPrefix(""), 1)
}

func TestList_InsertionOrder(t *testing.T) {
	reg := registry.New()
	reg.LookupOrCreate("utilities")
	reg.LookupOrCreate("bank")
	reg.LookupOrCreate("home")

	got := reg.List()

	require.Len(t, got, 3)
	assert.Equal(t, "utilities", got[0].Name)
	assert.Equal(t, "bank", got[1].Name)
	assert.Equal(t, "home", got[2].Name)
}

// ---- Replace ------------------------------------------------------------------

func TestReplace_KeepsIdentityOfKnownNames(t *testing.T) {
	reg := registry.New()
	home := reg.LookupOrCreate("home")
	reg.LookupOrCreate("stale")

	reg.Replace([]domain.Tag{
		{Name: "home", Count: 5},
		{Name: "bank", Count: 2},
	})

	got, ok := reg.Get("home")
	require.True(t, ok)
	assert.Equal(t, home.ID, got.ID)
	assert.Equal(t, home.CreatedAt, got.CreatedAt)
	assert.Equal(t, 5, got.Count)

	_, ok = reg.Get("stale")
	assert.False(t, ok)
	assert.Equal(t, 2, reg.Len())
}

// ---- Load / Persist -------------------------------------------------------------

func TestLoad(t *testing.T) {
	store := &fakeTagList{tags: []domain.Tag{
		{ID: uuid.New(), Name: "home", Count: 2, CreatedAt: time.Now()},
	}}

	reg, err := registry.Load(context.Background(), store)

	require.NoError(t, err)
	got, ok := reg.Get("home")
	require.True(t, ok)
	assert.Equal(t, 2, got.Count)
}

func TestLoad_Error(t *testing.T) {
	store := &fakeTagList{err: errors.New("boom")}

	_, err := registry.Load(context.Background(), store)

	assert.ErrorContains(t, err, "boom")
}

func TestPersist_WritesSnapshot(t *testing.T) {
	reg := registry.New()
	reg.LookupOrCreate("home")
	reg.LookupOrCreate("home")
	store := &fakeTagList{}

	err := reg.Persist(context.Background(), store)

	require.NoError(t, err)
	require.Len(t, store.tags, 1)
	assert.Equal(t, 2, store.tags[0].Count)
}

func TestPersist_PropagatesError(t *testing.T) {
	store := &fakeTagList{err: errors.New("disk full")}

	err := registry.New().Persist(context.Background(), store)

	assert.ErrorContains(t, err, "disk full")
}
