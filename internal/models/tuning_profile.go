package models

import (
	"time"

	"github.com/jengzang/routescore-backend-go/internal/tuning"
)

// TuningProfile is a named, stored set of scoring parameters
type TuningProfile struct {
	ID int64 `json:"id" db:"id"`

	// Profile identification
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	IsDefault   bool   `json:"is_default" db:"is_default"`

	// Parameters (JSON)
	ParamsJSON string `json:"params_json" db:"params_json"` // JSON object with all tuning parameters

	// Metadata
	CreatedBy string    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TuningProfileResponse is a profile with its parameters decoded
type TuningProfileResponse struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	IsDefault   bool          `json:"is_default"`
	Params      tuning.Params `json:"params"`
	BuiltIn     bool          `json:"built_in"` // Not stored; served from the service configuration
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
