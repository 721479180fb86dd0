package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/analysis"
	"github.com/jengzang/routescore-backend-go/internal/difficulty"
	"github.com/jengzang/routescore-backend-go/internal/logger"
	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/parser"
	"github.com/jengzang/routescore-backend-go/internal/repository"
)

var (
	ErrRouteNotFound      = errors.New("route not found")
	ErrNoMetrics          = errors.New("could not extract metrics from this file")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrExtractionTimedOut = errors.New("route extraction timed out")
)

// ScoreRequest describes one uploaded route file
type ScoreRequest struct {
	FileName  string
	Name      string // Overrides the name found in the file
	Format    string // Derived from FileName when empty
	Data      []byte
	Smoothing bool
	Profile   string
}

// ScoreResult is the outcome of scoring a file without storing it
type ScoreResult struct {
	Profile    string               `json:"profile"`
	Difficulty float64              `json:"difficulty"`
	Breakdown  difficulty.Breakdown `json:"breakdown"`
	Metrics    *models.RouteMetrics `json:"metrics"`
}

// RouteService handles business logic for scored routes
type RouteService struct {
	routeRepo *repository.RouteRepository
	profiles  *ProfileService
	engine    *analysis.Engine
	timeout   time.Duration
	log       *zap.Logger
}

// NewRouteService creates a new route service
func NewRouteService(
	routeRepo *repository.RouteRepository,
	profiles *ProfileService,
	engine *analysis.Engine,
	timeout time.Duration,
	log *zap.Logger,
) *RouteService {
	return &RouteService{
		routeRepo: routeRepo,
		profiles:  profiles,
		engine:    engine,
		timeout:   timeout,
		log:       logger.OrNop(log).Named("routes"),
	}
}

// Score extracts and scores a file
func (s *RouteService) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionTimedOut, err)
	}

	format, err := resolveFormat(req)
	if err != nil {
		return nil, err
	}

	profile, params, err := s.profiles.Resolve(ctx, req.Profile)
	if err != nil {
		return nil, err
	}

	opts := analysis.Options{ApplySmoothing: req.Smoothing, Params: params}
	metrics, err := s.extract(ctx, req.Data, format, opts)
	if err != nil {
		return nil, err
	}
	if !metrics.HasMetrics() {
		s.log.Info("no metrics extracted",
			zap.String("file", req.FileName),
			zap.String("diagnostic", metrics.RouteName),
		)
		return nil, fmt.Errorf("%w: %s", ErrNoMetrics, metrics.RouteName)
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		metrics.RouteName = name
	}

	breakdown := difficulty.Explain(difficulty.FromMetrics(metrics), params.Difficulty)
	return &ScoreResult{
		Profile:    profile,
		Difficulty: breakdown.Score,
		Breakdown:  breakdown,
		Metrics:    metrics,
	}, nil
}

// Create scores a file and stores the result
func (s *RouteService) Create(ctx context.Context, req ScoreRequest) (*models.Route, error) {
	result, err := s.Score(ctx, req)
	if err != nil {
		return nil, err
	}

	route := &models.Route{
		Name:       result.Metrics.RouteName,
		FileName:   req.FileName,
		Format:     result.Metrics.Format,
		Profile:    result.Profile,
		Difficulty: result.Difficulty,
		Metrics:    result.Metrics,
	}
	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to store route: %w", err)
	}

	s.log.Info("route scored",
		zap.String("id", route.ID),
		zap.String("name", route.Name),
		zap.Float64("difficulty", route.Difficulty),
	)
	return route, nil
}

// GetByID retrieves one route with its metrics
func (s *RouteService) GetByID(ctx context.Context, id string) (*models.Route, error) {
	route, err := s.routeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}
	return route, nil
}

// List retrieves route summaries with filtering and pagination
func (s *RouteService) List(ctx context.Context, filter models.RouteFilter) (*models.RoutesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	routes, total, err := s.routeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PageSize)))

	return &models.RoutesResponse{
		Data:       routes,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Rescore recomputes the difficulty of a stored route under another profile.
// Only the stored metric bundle is used; the file is not parsed again.
func (s *RouteService) Rescore(ctx context.Context, id, profileName string) (*models.Route, error) {
	route, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile, params, err := s.profiles.Resolve(ctx, profileName)
	if err != nil {
		return nil, err
	}

	score := difficulty.Compute(route.Metrics, params.Difficulty)
	ok, err := s.routeRepo.UpdateDifficulty(ctx, id, profile, score)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRouteNotFound
	}

	route.Profile = profile
	route.Difficulty = score
	return route, nil
}

// Delete removes a route
func (s *RouteService) Delete(ctx context.Context, id string) error {
	ok, err := s.routeRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRouteNotFound
	}
	return nil
}

// extract runs the pipeline under the service's wall-clock budget
func (s *RouteService) extract(ctx context.Context, data []byte, format parser.Format, opts analysis.Options) (*models.RouteMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionTimedOut, err)
	}

	done := make(chan *models.RouteMetrics, 1)
	go func() {
		done <- s.engine.ExtractBytes(data, format, opts)
	}()

	select {
	case metrics := <-done:
		return metrics, nil
	case <-ctx.Done():
		s.log.Warn("extraction abandoned", zap.Duration("timeout", s.timeout), zap.Error(ctx.Err()))
		return nil, fmt.Errorf("%w: %v", ErrExtractionTimedOut, ctx.Err())
	}
}

func resolveFormat(req ScoreRequest) (parser.Format, error) {
	if req.Format != "" {
		format := parser.ParseFormat(req.Format)
		for _, f := range parser.SupportedFormats() {
			if f == format {
				return format, nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}

	format, ok := parser.FormatFromFilename(req.FileName)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.FileName)
	}
	return format, nil
}
