package snippet

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/aicody-snippets/core/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Service enforces visibility, ownership and field constraints for every
// snippet operation. It is stateless: each call is evaluated against a
// fresh store read, with no cross-call memory.
type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// List returns the snippets visible under the given scope, filtered and
// ordered per the query.
func (s *Service) List(ctx context.Context, caller Caller, scope Scope, q ListQuery) ([]models.SnippetModel, error) {
	filter, sort, err := BuildListFilter(caller, scope, q)
	if err != nil {
		return nil, err
	}
	return s.store.Query(ctx, filter, sort)
}

// GetByID returns a single snippet if the caller may read it. Existence is
// checked first, then visibility; a private snippet of another owner comes
// back as ErrNotFound either way.
func (s *Service) GetByID(ctx context.Context, caller Caller, id primitive.ObjectID) (*models.SnippetModel, error) {
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanRead(caller, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Create validates the payload and persists a new snippet owned by the
// caller. The owner always comes from the verified identity, never from
// the payload.
func (s *Service) Create(ctx context.Context, caller Caller, dto *CreateSnippetDTO) (*models.SnippetModel, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if err := validateCreate(dto); err != nil {
		return nil, err
	}

	tags := dto.Tags
	if tags == nil {
		tags = []string{}
	}
	item := &models.SnippetModel{
		Title:       strings.TrimSpace(dto.Title),
		Description: strings.TrimSpace(dto.Description),
		Code:        dto.Code,
		Language:    normalizeLanguage(dto.Language),
		Tags:        tags,
		IsPublic:    dto.IsPublic,
		Owner:       caller.ID,
	}
	if err := s.store.Insert(ctx, item); err != nil {
		s.log.Error("failed to create snippet", zap.Error(err))
		return nil, err
	}

	s.log.Info("snippet created",
		zap.String("id", item.ID.Hex()),
		zap.String("owner", item.Owner.Hex()),
		zap.Bool("public", item.IsPublic),
	)
	return item, nil
}

// Update applies a partial payload to an existing snippet after the owner
// check. Fetch-then-write keeps validation against the full document; the
// last writer wins on concurrent updates, as the store has no versioning.
func (s *Service) Update(ctx context.Context, caller Caller, id primitive.ObjectID, dto *UpdateSnippetDTO) (*models.SnippetModel, error) {
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanMutate(caller, item); err != nil {
		return nil, err
	}
	if err := validateUpdate(dto); err != nil {
		return nil, err
	}

	if dto.Title != nil {
		item.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		item.Description = strings.TrimSpace(*dto.Description)
	}
	if dto.Code != nil {
		item.Code = *dto.Code
	}
	if dto.Language != nil {
		item.Language = normalizeLanguage(*dto.Language)
	}
	if dto.Tags != nil {
		item.Tags = *dto.Tags
	}
	if dto.IsPublic != nil {
		item.IsPublic = *dto.IsPublic
	}

	if err := s.store.Update(ctx, item); err != nil {
		s.log.Error("failed to update snippet", zap.String("id", id.Hex()), zap.Error(err))
		return nil, err
	}

	s.log.Info("snippet updated", zap.String("id", item.ID.Hex()))
	return item, nil
}

// Delete removes a snippet after the owner check.
func (s *Service) Delete(ctx context.Context, caller Caller, id primitive.ObjectID) error {
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := CanMutate(caller, item); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("snippet deleted", zap.String("id", id.Hex()))
	return nil
}

func normalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// Validation messages mirror the ones the original API produced, so
// existing clients keep matching on them.
func validateCreate(dto *CreateSnippetDTO) error {
	verr := &ValidationError{}
	checkTitle(verr, dto.Title)
	checkDescription(verr, dto.Description)
	if dto.Code == "" {
		verr.add("code", "Code content is required")
	}
	if strings.TrimSpace(dto.Language) == "" {
		verr.add("language", "Programming language is required")
	}
	return verr.orNil()
}

func validateUpdate(dto *UpdateSnippetDTO) error {
	verr := &ValidationError{}
	if dto.Title != nil {
		checkTitle(verr, *dto.Title)
	}
	if dto.Description != nil {
		checkDescription(verr, *dto.Description)
	}
	if dto.Code != nil && *dto.Code == "" {
		verr.add("code", "Code content is required")
	}
	if dto.Language != nil && strings.TrimSpace(*dto.Language) == "" {
		verr.add("language", "Programming language is required")
	}
	return verr.orNil()
}

func checkTitle(verr *ValidationError, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		verr.add("title", "Title is required")
		return
	}
	if utf8.RuneCountInString(title) > models.SnippetTitleMaxLen {
		verr.add("title", "Title cannot exceed 100 characters")
	}
}

func checkDescription(verr *ValidationError, description string) {
	if utf8.RuneCountInString(strings.TrimSpace(description)) > models.SnippetDescriptionMaxLen {
		verr.add("description", "Description cannot exceed 500 characters")
	}
}
