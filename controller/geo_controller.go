package controller

import (
	"movehub-backend/models"
	"movehub-backend/services"
	"movehub-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type GeoController struct {
	geoService services.GeoServiceInterface
	logger     logger.Logger
	validator  *validator.Validate
}

func NewGeoController(geoService services.GeoServiceInterface, logger logger.Logger) *GeoController {
	return &GeoController{
		geoService: geoService,
		logger:     logger,
		validator:  newValidator(),
	}
}

// Geocode handles POST /api/geo/geocode
// @Summary Resolve an address to coordinates
// @Description Uses the server side geocoder with the Vietnam bias. Unresolved addresses are 404.
// @Tags Geo
// @Accept json
// @Produce json
// @Param request body models.GeocodeRequest true "Address"
// @Success 200 {object} models.APIResponse{data=models.GeocodeResult}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /geo/geocode [post]
func (h *GeoController) Geocode(c *gin.Context) {
	var req models.GeocodeRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	result, err := h.geoService.Geocode(c.Request.Context(), req.Address, req.Focus)
	if err != nil {
		respondError(c, h.logger, "Failed to geocode address", err)
		return
	}

	respond(c, http.StatusOK, "Address resolved successfully", result)
}

// Distance handles POST /api/geo/distance
// @Summary Driving distance between two points
// @Description Falls back to a straight line estimate when the router is unavailable.
// @Tags Geo
// @Accept json
// @Produce json
// @Param request body models.DistanceRequest true "Origin and destination"
// @Success 200 {object} models.APIResponse{data=models.Route}
// @Failure 400 {object} models.APIResponse
// @Router /geo/distance [post]
func (h *GeoController) Distance(c *gin.Context) {
	var req models.DistanceRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	route := h.geoService.Distance(c.Request.Context(), req.Origin, req.Destination)
	respond(c, http.StatusOK, "Distance resolved successfully", route)
}
