package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/service"
	"github.com/jengzang/routescore-backend-go/pkg/response"
)

// RouteHandler handles HTTP requests for scored routes
type RouteHandler struct {
	routeService   *service.RouteService
	maxUploadBytes int64
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeService *service.RouteService, maxUploadBytes int64) *RouteHandler {
	return &RouteHandler{
		routeService:   routeService,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateRoute handles POST /api/v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	req, ok := h.bindUpload(c)
	if !ok {
		return
	}

	route, err := h.routeService.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, route)
}

// ScoreRoute handles POST /api/v1/score
func (h *RouteHandler) ScoreRoute(c *gin.Context) {
	req, ok := h.bindUpload(c)
	if !ok {
		return
	}

	result, err := h.routeService.Score(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// GetRoutes handles GET /api/v1/routes
func (h *RouteHandler) GetRoutes(c *gin.Context) {
	var filter models.RouteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.routeService.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetRouteByID handles GET /api/v1/routes/:id
func (h *RouteHandler) GetRouteByID(c *gin.Context) {
	route, err := h.routeService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, route)
}

// RescoreRoute handles POST /api/v1/routes/:id/rescore?profile=
func (h *RouteHandler) RescoreRoute(c *gin.Context) {
	route, err := h.routeService.Rescore(c.Request.Context(), c.Param("id"), c.Query("profile"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, route)
}

// DeleteRoute handles DELETE /api/v1/routes/:id
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.routeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"id": c.Param("id")})
}

// bindUpload reads the multipart form shared by the upload endpoints
func (h *RouteHandler) bindUpload(c *gin.Context) (service.ScoreRequest, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "File too large")
			return service.ScoreRequest{}, false
		}
		response.BadRequest(c, "Missing route file in field \"file\"")
		return service.ScoreRequest{}, false
	}
	if header.Size > h.maxUploadBytes {
		response.Error(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large (limit %d bytes)", h.maxUploadBytes))
		return service.ScoreRequest{}, false
	}

	smoothing := true
	if raw := c.PostForm("smoothing"); raw != "" {
		smoothing, err = strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "Invalid smoothing parameter")
			return service.ScoreRequest{}, false
		}
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Unreadable route file")
		return service.ScoreRequest{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Unreadable route file")
		return service.ScoreRequest{}, false
	}

	return service.ScoreRequest{
		FileName:  header.Filename,
		Name:      c.PostForm("name"),
		Format:    c.PostForm("format"),
		Data:      data,
		Smoothing: smoothing,
		Profile:   c.PostForm("profile"),
	}, true
}

// writeServiceError maps service errors onto the response envelope
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoMetrics):
		response.UnprocessableEntity(c, service.ErrNoMetrics.Error())
	case errors.Is(err, service.ErrUnsupportedFormat):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidProfile):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrRouteNotFound):
		response.NotFound(c, "Route not found")
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrExtractionTimedOut):
		response.Error(c, http.StatusGatewayTimeout, "Route extraction took too long")
	default:
		_ = c.Error(err)
		response.InternalError(c, "Internal server error")
	}
}
