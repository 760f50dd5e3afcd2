// internal/app/features/families/handler.go
package families

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dawitfm/famhub/internal/app/assign"
	familystore "github.com/dawitfm/famhub/internal/app/store/families"
	studentstore "github.com/dawitfm/famhub/internal/app/store/students"
	"github.com/dawitfm/famhub/internal/app/system/httpjson"
)

// Handler is the shared dependency container for the families feature:
// CRUD over family documents plus the auto-assignment endpoints.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Families *familystore.Store
	Students *studentstore.Store
	Engine   *assign.Engine
}

// NewHandler constructs a families Handler. It is typically called from
// the bootstrap BuildHandler function, where the application's DB and
// logger are already initialized.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Families: familystore.New(db),
		Students: studentstore.New(db),
		Engine:   assign.NewEngine(db, logger),
	}
}

// writeEngineError maps assignment engine errors onto HTTP statuses.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case assign.IsValidation(err):
		httpjson.BadRequest(w, err.Error())
	case assign.IsNotFound(err):
		httpjson.NotFound(w, err.Error())
	case assign.IsConflict(err):
		httpjson.Conflict(w, err.Error())
	default:
		h.Log.Error("families: engine error", zap.Error(err))
		httpjson.ServerError(w)
	}
}
