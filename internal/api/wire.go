package api

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/analysis"
	"github.com/jengzang/routescore-backend-go/internal/config"
	"github.com/jengzang/routescore-backend-go/internal/handler"
	"github.com/jengzang/routescore-backend-go/internal/repository"
	"github.com/jengzang/routescore-backend-go/internal/service"
	"github.com/jengzang/routescore-backend-go/internal/tuning"
)

// NewHandlers wires repositories, services and handlers over one database.
// fallback is the preset served as the "default" profile.
func NewHandlers(db *sql.DB, cfg *config.Config, fallback tuning.Params, log *zap.Logger) Handlers {
	profileService := service.NewProfileService(repository.NewProfileRepository(db), fallback, log)
	routeService := service.NewRouteService(
		repository.NewRouteRepository(db),
		profileService,
		analysis.NewEngine(log),
		cfg.ExtractionTimeout,
		log,
	)

	return Handlers{
		Routes:   handler.NewRouteHandler(routeService, cfg.MaxUploadBytes),
		Profiles: handler.NewProfileHandler(profileService),
	}
}
