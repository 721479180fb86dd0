package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/logger"
	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/repository"
	"github.com/jengzang/routescore-backend-go/internal/tuning"
)

// DefaultProfileName names the preset from the service configuration
const DefaultProfileName = "default"

var (
	ErrProfileNotFound = errors.New("tuning profile not found")
	ErrInvalidProfile  = errors.New("invalid tuning profile")
)

// SaveProfileRequest is the payload for creating or replacing a profile
type SaveProfileRequest struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	IsDefault   bool          `json:"is_default"`
	Params      tuning.Params `json:"params"`
}

// ProfileService resolves named tuning presets
type ProfileService struct {
	repo     *repository.ProfileRepository
	fallback tuning.Params
	log      *zap.Logger
}

// NewProfileService creates a profile service; fallback is served as the "default" profile
// until a stored profile is flagged default
func NewProfileService(repo *repository.ProfileRepository, fallback tuning.Params, log *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:     repo,
		fallback: fallback,
		log:      logger.OrNop(log).Named("profiles"),
	}
}

// Resolve returns the name and parameters to score with. An empty name selects the
// stored default profile, or the configured preset when none is flagged.
func (s *ProfileService) Resolve(ctx context.Context, name string) (string, tuning.Params, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		stored, err := s.repo.GetDefault(ctx)
		if err != nil {
			return "", tuning.Params{}, fmt.Errorf("failed to resolve default profile: %w", err)
		}
		if stored == nil {
			return DefaultProfileName, s.fallback, nil
		}
		params, err := decodeParams(stored)
		return stored.Name, params, err
	}

	stored, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return "", tuning.Params{}, fmt.Errorf("failed to resolve profile: %w", err)
	}
	if stored == nil {
		if name == DefaultProfileName {
			return DefaultProfileName, s.fallback, nil
		}
		return "", tuning.Params{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	params, err := decodeParams(stored)
	return stored.Name, params, err
}

// List returns the configured preset followed by every stored profile
func (s *ProfileService) List(ctx context.Context) ([]models.TuningProfileResponse, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	hasDefault := false
	out := make([]models.TuningProfileResponse, 0, len(stored)+1)
	for i := range stored {
		if stored[i].Name == DefaultProfileName {
			continue
		}
		view, err := toResponse(&stored[i])
		if err != nil {
			s.log.Warn("skipping unreadable profile", zap.String("name", stored[i].Name), zap.Error(err))
			continue
		}
		hasDefault = hasDefault || view.IsDefault
		out = append(out, view)
	}

	builtIn, err := s.Get(ctx, DefaultProfileName)
	if err != nil {
		return nil, err
	}
	if hasDefault {
		builtIn.IsDefault = false
	}

	return append([]models.TuningProfileResponse{*builtIn}, out...), nil
}

// Get returns one profile by name
func (s *ProfileService) Get(ctx context.Context, name string) (*models.TuningProfileResponse, error) {
	stored, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if stored != nil {
		view, err := toResponse(stored)
		if err != nil {
			return nil, err
		}
		return &view, nil
	}

	if name != DefaultProfileName {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	def, err := s.repo.GetDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get default profile: %w", err)
	}
	return &models.TuningProfileResponse{
		Name:      DefaultProfileName,
		IsDefault: def == nil,
		Params:    s.fallback,
		BuiltIn:   true,
	}, nil
}

// Save validates and stores a profile, replacing any profile with the same name
func (s *ProfileService) Save(ctx context.Context, req SaveProfileRequest) (*models.TuningProfileResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if err := req.Params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile params: %w", err)
	}

	profile := &models.TuningProfile{
		Name:        req.Name,
		Description: req.Description,
		IsDefault:   req.IsDefault,
		ParamsJSON:  string(paramsJSON),
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	s.log.Info("tuning profile saved", zap.String("name", profile.Name), zap.Bool("default", profile.IsDefault))

	view, err := toResponse(profile)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func decodeParams(p *models.TuningProfile) (tuning.Params, error) {
	params := tuning.Default()
	if err := json.Unmarshal([]byte(p.ParamsJSON), &params); err != nil {
		return tuning.Params{}, fmt.Errorf("failed to decode profile %s: %w", p.Name, err)
	}
	return params, nil
}

func toResponse(p *models.TuningProfile) (models.TuningProfileResponse, error) {
	params, err := decodeParams(p)
	if err != nil {
		return models.TuningProfileResponse{}, err
	}
	return models.TuningProfileResponse{
		Name:        p.Name,
		Description: p.Description,
		IsDefault:   p.IsDefault,
		Params:      params,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}
