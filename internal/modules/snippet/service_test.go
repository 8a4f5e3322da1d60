package snippet

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/aicody-snippets/core/internal/models"
)

// fakeStore keeps snippets in memory and evaluates ListFilter the way the
// real collection would, so service tests run without a database.
type fakeStore struct {
	items map[primitive.ObjectID]models.SnippetModel
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[primitive.ObjectID]models.SnippetModel)}
}

func (f *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.SnippetModel, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (f *fakeStore) Query(_ context.Context, filter ListFilter, key SortKey) ([]models.SnippetModel, error) {
	var out []models.SnippetModel
	for _, item := range f.items {
		if !filter.Owner.IsZero() && item.Owner != filter.Owner {
			continue
		}
		if filter.Public != nil && item.IsPublic != *filter.Public {
			continue
		}
		if filter.Language != "" && item.Language != filter.Language {
			continue
		}
		if filter.Search != "" && !matchesSearch(item, filter.Search) {
			continue
		}
		out = append(out, item)
	}
	sortSnippets(out, key)
	return out, nil
}

func matchesSearch(item models.SnippetModel, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(item.Title), term) ||
		strings.Contains(strings.ToLower(item.Description), term)
}

func sortSnippets(items []models.SnippetModel, key SortKey) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch key {
		case SortCreatedAsc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case SortTitleAsc:
			if a.Title != b.Title {
				return a.Title < b.Title
			}
		case SortTitleDesc:
			if a.Title != b.Title {
				return a.Title > b.Title
			}
		default: // SortCreatedDesc
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID.Hex() < b.ID.Hex()
	})
}

func (f *fakeStore) Insert(_ context.Context, s *models.SnippetModel) error {
	s.EnsureID(time.Now())
	f.items[s.ID] = *s
	return nil
}

func (f *fakeStore) Update(_ context.Context, s *models.SnippetModel) error {
	if _, ok := f.items[s.ID]; !ok {
		return ErrNotFound
	}
	f.items[s.ID] = *s
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, zap.NewNop()), store
}

func seed(t *testing.T, store *fakeStore, s models.SnippetModel) models.SnippetModel {
	t.Helper()
	require.NoError(t, store.Insert(context.Background(), &s))
	return s
}

func str(s string) *string       { return &s }
func boolean(b bool) *bool       { return &b }
func tags(v ...string) *[]string { return &v }

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	caller := newCaller(t)

	t.Run("assigns owner from caller identity", func(t *testing.T) {
		svc, _ := newTestService()
		item, err := svc.Create(ctx, caller, &CreateSnippetDTO{
			Title:    "Hello",
			Code:     "print('hi')",
			Language: "Python",
		})
		require.NoError(t, err)
		assert.Equal(t, caller.ID, item.Owner)
		assert.False(t, item.ID.IsZero())
		assert.False(t, item.CreatedAt.IsZero())
	})

	t.Run("lowercases language and defaults tags", func(t *testing.T) {
		svc, _ := newTestService()
		item, err := svc.Create(ctx, caller, &CreateSnippetDTO{
			Title:    "Hello",
			Code:     "x",
			Language: "  JavaScript ",
		})
		require.NoError(t, err)
		assert.Equal(t, "javascript", item.Language)
		require.NotNil(t, item.Tags)
		assert.Empty(t, item.Tags)
	})

	t.Run("defaults to private", func(t *testing.T) {
		svc, _ := newTestService()
		item, err := svc.Create(ctx, caller, &CreateSnippetDTO{
			Title:    "Hello",
			Code:     "x",
			Language: "go",
		})
		require.NoError(t, err)
		assert.False(t, item.IsPublic)
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, Caller{}, &CreateSnippetDTO{
			Title: "Hello", Code: "x", Language: "go",
		})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("collects one message per invalid field", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, caller, &CreateSnippetDTO{
			Title:       strings.Repeat("x", 101),
			Description: strings.Repeat("y", 501),
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ElementsMatch(t, []string{
			"Title cannot exceed 100 characters",
			"Description cannot exceed 500 characters",
			"Code content is required",
			"Programming language is required",
		}, verr.Messages())
	})

	t.Run("limits count runes not bytes", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, caller, &CreateSnippetDTO{
			Title:    strings.Repeat("日", 100),
			Code:     "x",
			Language: "go",
		})
		assert.NoError(t, err)
	})
}

func TestServiceGetByID(t *testing.T) {
	ctx := context.Background()
	owner := newCaller(t)
	stranger := newCaller(t)

	svc, store := newTestService()
	private := seed(t, store, models.SnippetModel{Title: "p", Code: "c", Language: "go", Owner: owner.ID})
	public := seed(t, store, models.SnippetModel{Title: "q", Code: "c", Language: "go", Owner: owner.ID, IsPublic: true})

	t.Run("public visible to anyone", func(t *testing.T) {
		item, err := svc.GetByID(ctx, Caller{}, public.ID)
		require.NoError(t, err)
		assert.Equal(t, public.ID, item.ID)
	})

	t.Run("private hidden from strangers as not found", func(t *testing.T) {
		_, err := svc.GetByID(ctx, stranger, private.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("private visible to owner", func(t *testing.T) {
		item, err := svc.GetByID(ctx, owner, private.ID)
		require.NoError(t, err)
		assert.Equal(t, private.ID, item.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := svc.GetByID(ctx, owner, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()
	alice := newCaller(t)
	bob := newCaller(t)

	svc, store := newTestService()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mk := func(title, lang string, owner primitive.ObjectID, public bool, age time.Duration) models.SnippetModel {
		s := models.SnippetModel{Title: title, Code: "c", Language: lang, Owner: owner, IsPublic: public}
		s.EnsureID(base.Add(age))
		store.items[s.ID] = s
		return s
	}
	aPriv := mk("alpha", "go", alice.ID, false, 0)
	aPub := mk("beta", "python", alice.ID, true, time.Hour)
	bPub := mk("gamma", "go", bob.ID, true, 2*time.Hour)
	mk("delta", "go", bob.ID, false, 3*time.Hour)

	ids := func(items []models.SnippetModel) []primitive.ObjectID {
		out := make([]primitive.ObjectID, len(items))
		for i, it := range items {
			out[i] = it.ID
		}
		return out
	}

	t.Run("public scope returns only public snippets", func(t *testing.T) {
		items, err := svc.List(ctx, Caller{}, ScopePublic, ListQuery{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []primitive.ObjectID{aPub.ID, bPub.ID}, ids(items))
	})

	t.Run("mine scope returns own public and private", func(t *testing.T) {
		items, err := svc.List(ctx, alice, ScopeMine, ListQuery{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []primitive.ObjectID{aPriv.ID, aPub.ID}, ids(items))
	})

	t.Run("language filter cannot expose private rows", func(t *testing.T) {
		items, err := svc.List(ctx, alice, ScopePublic, ListQuery{Language: "GO"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []primitive.ObjectID{bPub.ID}, ids(items))
	})

	t.Run("default order is newest first", func(t *testing.T) {
		items, err := svc.List(ctx, Caller{}, ScopePublic, ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{bPub.ID, aPub.ID}, ids(items))
	})

	t.Run("title ordering", func(t *testing.T) {
		items, err := svc.List(ctx, Caller{}, ScopePublic, ListQuery{Sort: "title"})
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{aPub.ID, bPub.ID}, ids(items))
	})

	t.Run("listing twice gives identical results", func(t *testing.T) {
		first, err := svc.List(ctx, alice, ScopeMine, ListQuery{})
		require.NoError(t, err)
		second, err := svc.List(ctx, alice, ScopeMine, ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, ids(first), ids(second))
	})

	t.Run("legacy scope splits on authentication", func(t *testing.T) {
		items, err := svc.List(ctx, bob, ScopeLegacy, ListQuery{})
		require.NoError(t, err)
		assert.Len(t, items, 2)

		items, err = svc.List(ctx, Caller{}, ScopeLegacy, ListQuery{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []primitive.ObjectID{aPub.ID, bPub.ID}, ids(items))
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	owner := newCaller(t)
	stranger := newCaller(t)

	t.Run("applies only present fields", func(t *testing.T) {
		svc, store := newTestService()
		orig := seed(t, store, models.SnippetModel{
			Title: "before", Description: "desc", Code: "c", Language: "go", Owner: owner.ID,
		})
		item, err := svc.Update(ctx, owner, orig.ID, &UpdateSnippetDTO{Title: str("after")})
		require.NoError(t, err)
		assert.Equal(t, "after", item.Title)
		assert.Equal(t, "desc", item.Description)
		assert.Equal(t, "go", item.Language)
	})

	t.Run("owner and creation time survive any payload", func(t *testing.T) {
		svc, store := newTestService()
		orig := seed(t, store, models.SnippetModel{Title: "t", Code: "c", Language: "go", Owner: owner.ID})
		item, err := svc.Update(ctx, owner, orig.ID, &UpdateSnippetDTO{
			Code:     str("c2"),
			Tags:     tags("a", "b"),
			IsPublic: boolean(true),
		})
		require.NoError(t, err)
		assert.Equal(t, owner.ID, item.Owner)
		assert.Equal(t, orig.CreatedAt, item.CreatedAt)
		assert.True(t, item.IsPublic)
	})

	t.Run("visibility toggle takes effect immediately", func(t *testing.T) {
		svc, store := newTestService()
		orig := seed(t, store, models.SnippetModel{Title: "t", Code: "c", Language: "go", Owner: owner.ID, IsPublic: true})

		_, err := svc.GetByID(ctx, stranger, orig.ID)
		require.NoError(t, err)

		_, err = svc.Update(ctx, owner, orig.ID, &UpdateSnippetDTO{IsPublic: boolean(false)})
		require.NoError(t, err)

		_, err = svc.GetByID(ctx, stranger, orig.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stranger cannot update a public snippet", func(t *testing.T) {
		svc, store := newTestService()
		orig := seed(t, store, models.SnippetModel{Title: "t", Code: "c", Language: "go", Owner: owner.ID, IsPublic: true})
		_, err := svc.Update(ctx, stranger, orig.ID, &UpdateSnippetDTO{Title: str("hijack")})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("stranger cannot learn a private snippet exists", func(t *testing.T) {
		svc, store := newTestService()
		orig := seed(t, store, models.SnippetModel{Title: "t", Code: "c", Language: "go", Owner: owner.ID})
		_, err := svc.Update(ctx, stranger, orig.ID, &UpdateSnippetDTO{Title: str("hijack")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("explicit empty code is rejected", func(t *testing.T) {
		svc, store := newTestService()
		orig := seed(t, store, models.SnippetModel{Title: "t", Code: "c", Language: "go", Owner: owner.ID})
		_, err := svc.Update(ctx, owner, orig.ID, &UpdateSnippetDTO{Code: str("")})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "code", verr.Fields[0].Field)
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	owner := newCaller(t)
	stranger := newCaller(t)

	t.Run("owner deletes, repeat delete is not found", func(t *testing.T) {
		svc, store := newTestService()
		orig := seed(t, store, models.SnippetModel{Title: "t", Code: "c", Language: "go", Owner: owner.ID})
		require.NoError(t, svc.Delete(ctx, owner, orig.ID))
		assert.ErrorIs(t, svc.Delete(ctx, owner, orig.ID), ErrNotFound)
	})

	t.Run("non-owner denials mirror update", func(t *testing.T) {
		svc, store := newTestService()
		pub := seed(t, store, models.SnippetModel{Title: "t", Code: "c", Language: "go", Owner: owner.ID, IsPublic: true})
		priv := seed(t, store, models.SnippetModel{Title: "t", Code: "c", Language: "go", Owner: owner.ID})
		assert.ErrorIs(t, svc.Delete(ctx, stranger, pub.ID), ErrForbidden)
		assert.ErrorIs(t, svc.Delete(ctx, stranger, priv.ID), ErrNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, Caller{}, pub.ID), ErrUnauthenticated)
	})
}
