package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Field limits enforced at the service boundary.
const (
	SnippetTitleMaxLen       = 100
	SnippetDescriptionMaxLen = 500
)

// SnippetModel stores a code snippet.
// Language is always persisted lowercase. Code is an opaque payload and is
// never parsed or validated against the declared language.
// The owner field keeps the legacy `user` document key from the original
// deployment so existing data stays readable.
type SnippetModel struct {
	Base        `bson:",inline"`
	Title       string             `json:"title"       bson:"title"`
	Description string             `json:"description" bson:"description"`
	Code        string             `json:"code"        bson:"code"`
	Language    string             `json:"language"    bson:"language"`
	Tags        []string           `json:"tags"        bson:"tags"`
	IsPublic    bool               `json:"isPublic"    bson:"isPublic"`
	Owner       primitive.ObjectID `json:"user"        bson:"user"`
}

func (SnippetModel) Collection() string { return "snippets" }
