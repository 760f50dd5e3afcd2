// internal/app/features/students/handler.go
package students

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	studentstore "github.com/dawitfm/famhub/internal/app/store/students"
)

// Handler is the shared dependency container for the students feature.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Students *studentstore.Store
}

// NewHandler constructs a students Handler. It is typically called from
// the bootstrap BuildHandler function, where the application's DB and
// logger are already initialized.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Students: studentstore.New(db),
	}
}
