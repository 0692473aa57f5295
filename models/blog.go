package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog is an editorial post shown on the public blog page. Written by
// admins, read by everyone.
type Blog struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Author          string             `json:"author" bson:"author"`
	ReadTime        string             `json:"readTime" bson:"readTime"` // e.g. "5 min read"
	Description     string             `json:"description" bson:"description"`
	FullDescription string             `json:"fullDescription" bson:"fullDescription"`
	ImageURL        string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Tags            []string           `json:"tags" bson:"tags"`
	PublishedDate   time.Time          `json:"publishedDate" bson:"publishedDate"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// BlogInput is the request body for creating or updating a post
type BlogInput struct {
	Title           string   `json:"title" validate:"required"`
	Author          string   `json:"author" validate:"required"`
	ReadTime        string   `json:"readTime,omitempty"`
	Description     string   `json:"description" validate:"required"`
	FullDescription string   `json:"fullDescription,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Tags            []string `json:"tags" validate:"required,min=1"`
}

// NormalizeTags trims whitespace and drops empty and duplicate entries,
// keeping first-seen order
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		normalized = append(normalized, trimmed)
	}
	return normalized
}
