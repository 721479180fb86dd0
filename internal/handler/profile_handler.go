package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/routescore-backend-go/internal/service"
	"github.com/jengzang/routescore-backend-go/internal/tuning"
	"github.com/jengzang/routescore-backend-go/pkg/response"
)

// ProfileHandler handles HTTP requests for tuning profiles
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfiles handles GET /api/v1/profiles
func (h *ProfileHandler) GetProfiles(c *gin.Context) {
	profiles, err := h.profileService.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"data":  profiles,
		"count": len(profiles),
	})
}

// GetProfile handles GET /api/v1/profiles/:name
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, profile)
}

// SaveProfile handles POST /api/v1/profiles. Parameters left out of the body keep
// their reference value.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	req := service.SaveProfileRequest{Params: tuning.Default()}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.profileService.Save(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, profile)
}
