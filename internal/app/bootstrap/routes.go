// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	familiesfeature "github.com/dawitfm/famhub/internal/app/features/families"
	healthfeature "github.com/dawitfm/famhub/internal/app/features/health"
	postsfeature "github.com/dawitfm/famhub/internal/app/features/posts"
	studentsfeature "github.com/dawitfm/famhub/internal/app/features/students"
	"github.com/dawitfm/famhub/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates a chi router and mounts the
// feature routers: health, students, families (including auto-assignment),
// and posts.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Student roster
	studentsHandler := studentsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/students", studentsfeature.Routes(studentsHandler))

	// Families and auto-assignment
	assignLimiter := ratelimit.New(appCfg.CommitRateLimit, time.Minute)
	familiesHandler := familiesfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/families", familiesfeature.Routes(familiesHandler, assignLimiter))

	// Member posts with moderation
	postsHandler := postsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler))

	return r, nil
}
