package snippet

import (
	"strings"

	"github.com/aicody-snippets/core/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller identifies who is making a request. The zero value is anonymous.
type Caller struct {
	ID primitive.ObjectID
}

// Authenticated reports whether the caller carries a verified identity.
func (c Caller) Authenticated() bool { return !c.ID.IsZero() }

// Scope selects the base predicate of a list query.
type Scope int

const (
	// ScopePublic restricts to isPublic snippets, for any caller.
	ScopePublic Scope = iota
	// ScopeMine restricts to the caller's own snippets, public and private.
	// Requires an authenticated caller.
	ScopeMine
	// ScopeLegacy serves the pre-split list route: an authenticated caller
	// sees their own snippets, an anonymous one sees public snippets.
	// Kept for clients of the original combined endpoint only.
	ScopeLegacy
)

// SortKey is a validated result ordering. A leading '-' means descending.
type SortKey string

const (
	SortCreatedDesc SortKey = "-createdAt"
	SortCreatedAsc  SortKey = "createdAt"
	SortTitleAsc    SortKey = "title"
	SortTitleDesc   SortKey = "-title"
)

// ParseSortKey validates a caller-supplied sort value. Empty input selects
// the default, newest first. Anything outside the fixed set is rejected.
func ParseSortKey(raw string) (SortKey, error) {
	switch SortKey(strings.TrimSpace(raw)) {
	case "":
		return SortCreatedDesc, nil
	case SortCreatedDesc:
		return SortCreatedDesc, nil
	case SortCreatedAsc:
		return SortCreatedAsc, nil
	case SortTitleAsc:
		return SortTitleAsc, nil
	case SortTitleDesc:
		return SortTitleDesc, nil
	default:
		verr := &ValidationError{}
		verr.add("sort", "sort must be one of createdAt, -createdAt, title, -title")
		return "", verr
	}
}

// ListQuery carries the optional filters of a list request, as received.
type ListQuery struct {
	Language string
	Search   string
	Sort     string
}

// ListFilter is the combined predicate applied to the snippet collection.
// Zero-valued members impose no constraint. Language is always lowercase
// by the time it lands here.
type ListFilter struct {
	Owner    primitive.ObjectID // restrict to this owner when non-zero
	Public   *bool              // restrict visibility when set
	Language string             // exact match
	Search   string             // token match over title and description only
}

// BuildListFilter computes the predicate and ordering for a list request.
// This is the whole selection policy: visibility comes only from the
// scope, never from the optional filters.
func BuildListFilter(caller Caller, scope Scope, q ListQuery) (ListFilter, SortKey, error) {
	var f ListFilter

	switch scope {
	case ScopeMine:
		if !caller.Authenticated() {
			return f, "", ErrUnauthenticated
		}
		f.Owner = caller.ID
	case ScopeLegacy:
		if caller.Authenticated() {
			f.Owner = caller.ID
			break
		}
		fallthrough
	case ScopePublic:
		public := true
		f.Public = &public
	}

	if lang := strings.TrimSpace(q.Language); lang != "" {
		f.Language = strings.ToLower(lang)
	}
	f.Search = strings.TrimSpace(q.Search)

	sort, err := ParseSortKey(q.Sort)
	if err != nil {
		return ListFilter{}, "", err
	}
	return f, sort, nil
}

// CanRead decides read access to a single snippet: public snippets are
// readable by anyone, private ones only by their owner. A private snippet
// is reported as not found to everyone else, so its existence never leaks.
func CanRead(caller Caller, s *models.SnippetModel) error {
	if s.IsPublic {
		return nil
	}
	if caller.Authenticated() && caller.ID == s.Owner {
		return nil
	}
	return ErrNotFound
}

// CanMutate decides update/delete access: owner only. Non-owners of a
// public snippet get a plain forbidden; for a private snippet the denial
// is collapsed to not-found, same as CanRead.
func CanMutate(caller Caller, s *models.SnippetModel) error {
	if caller.Authenticated() && caller.ID == s.Owner {
		return nil
	}
	if s.IsPublic {
		if !caller.Authenticated() {
			return ErrUnauthenticated
		}
		return ErrForbidden
	}
	return ErrNotFound
}
