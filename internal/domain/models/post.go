// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post moderation states.
const (
	PostPending  = "pending"
	PostApproved = "approved"
	PostRejected = "rejected"
)

// Post is a member-authored blog entry awaiting moderator review.
// Body is stored sanitized (see system/htmlsanitize).
type Post struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"`
	Body    string             `bson:"body" json:"body"`

	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`

	Status     string `bson:"status" json:"status"` // pending | approved | rejected
	ReviewNote string `bson:"review_note,omitempty" json:"review_note,omitempty"`

	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	ReviewedAt *time.Time `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
}
