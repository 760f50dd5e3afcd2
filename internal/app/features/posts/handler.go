// internal/app/features/posts/handler.go
package posts

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	poststore "github.com/dawitfm/famhub/internal/app/store/posts"
)

// Handler is the shared dependency container for the posts feature:
// member-authored entries with a pending/approved/rejected review flow.
type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Posts *poststore.Store
}

// NewHandler constructs a posts Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Log:   logger,
		Posts: poststore.New(db),
	}
}
