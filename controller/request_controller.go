package controller

import (
	"movehub-backend/middelware"
	"movehub-backend/models"
	"movehub-backend/services"
	"movehub-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RequestController struct {
	requestService services.RequestServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewRequestController(requestService services.RequestServiceInterface, logger logger.Logger) *RequestController {
	return &RequestController{
		requestService: requestService,
		logger:         logger,
		validator:      newValidator(),
	}
}

// CreateRequest handles POST /api/requests
// @Summary Create a move request
// @Description Submit a new move request. The phone is normalised to 0XXXXXXXXX.
// @Tags Move Requests
// @Accept json
// @Produce json
// @Param request body models.CreateMoveRequest true "Move request"
// @Success 201 {object} models.APIResponse{data=models.MoveRequest}
// @Failure 400 {object} models.APIResponse
// @Router /requests [post]
func (h *RequestController) CreateRequest(c *gin.Context) {
	var req models.CreateMoveRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	request, err := h.requestService.Create(c.Request.Context(), &req, middelware.Actor(c, string(models.ActorCustomer)))
	if err != nil {
		respondError(c, h.logger, "Failed to create move request", err)
		return
	}

	respond(c, http.StatusCreated, "Move request created successfully", request)
}

// ListRequests handles GET /api/requests
// @Summary List move requests
// @Description Filter by customer phone and/or status. Legacy status values are accepted.
// @Tags Move Requests
// @Produce json
// @Param phone query string false "Customer phone"
// @Param status query string false "Request status"
// @Success 200 {object} models.APIResponse{data=[]models.MoveRequest}
// @Failure 400 {object} models.APIResponse
// @Router /requests [get]
func (h *RequestController) ListRequests(c *gin.Context) {
	filter := models.RequestFilter{
		Phone:  c.Query("phone"),
		Status: models.RequestStatus(c.Query("status")),
	}

	requests, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Failed to list move requests", err)
		return
	}

	respond(c, http.StatusOK, "Move requests retrieved successfully", requests)
}

// GetRequest handles GET /api/requests/:id
// @Summary Get a move request
// @Tags Move Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} models.APIResponse{data=models.MoveRequest}
// @Failure 404 {object} models.APIResponse
// @Router /requests/{id} [get]
func (h *RequestController) GetRequest(c *gin.Context) {
	request, err := h.requestService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get move request", err)
		return
	}

	respond(c, http.StatusOK, "Move request retrieved successfully", request)
}

// UpdateRequest handles PATCH /api/requests/:id
// @Summary Update a pending move request
// @Description Only requests in PENDING_CONFIRMATION can be edited. Name and phone cannot change.
// @Tags Move Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body models.UpdateMoveRequest true "Fields to change"
// @Success 200 {object} models.APIResponse{data=models.MoveRequest}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /requests/{id} [patch]
func (h *RequestController) UpdateRequest(c *gin.Context) {
	var req models.UpdateMoveRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	request, err := h.requestService.Update(c.Request.Context(), c.Param("id"), &req, middelware.Actor(c, string(models.ActorCustomer)))
	if err != nil {
		respondError(c, h.logger, "Failed to update move request", err)
		return
	}

	respond(c, http.StatusOK, "Move request updated successfully", request)
}

// CancelRequest handles POST /api/requests/:id/cancel
// @Summary Cancel a move request
// @Tags Move Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body models.CancelMoveRequest false "Cancellation reason"
// @Success 200 {object} models.APIResponse{data=models.MoveRequest}
// @Failure 404 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /requests/{id}/cancel [post]
func (h *RequestController) CancelRequest(c *gin.Context) {
	var req models.CancelMoveRequest
	if c.Request.ContentLength != 0 && !bind(c, h.validator, h.logger, &req) {
		return
	}

	request, err := h.requestService.Cancel(c.Request.Context(), c.Param("id"), middelware.Actor(c, string(models.ActorCustomer)), req.Reason)
	if err != nil {
		respondError(c, h.logger, "Failed to cancel move request", err)
		return
	}

	respond(c, http.StatusOK, "Move request cancelled successfully", request)
}

// TransitionRequest handles POST /api/requests/:id/status
// @Summary Move a request along its lifecycle
// @Tags Move Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body models.TransitionMoveRequest true "Target status"
// @Success 200 {object} models.APIResponse{data=models.MoveRequest}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /requests/{id}/status [post]
func (h *RequestController) TransitionRequest(c *gin.Context) {
	var req models.TransitionMoveRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	request, err := h.requestService.Transition(c.Request.Context(), c.Param("id"), req.Status, middelware.Actor(c, string(models.ActorStaff)), req.Note)
	if err != nil {
		respondError(c, h.logger, "Failed to change move request status", err)
		return
	}

	respond(c, http.StatusOK, "Move request status updated successfully", request)
}

// ApplyPayment handles POST /api/requests/:id/payment
// @Summary Apply a payment gateway outcome
// @Tags Move Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body models.PaymentNotification true "Payment outcome"
// @Success 200 {object} models.APIResponse{data=models.MoveRequest}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /requests/{id}/payment [post]
func (h *RequestController) ApplyPayment(c *gin.Context) {
	var req models.PaymentNotification
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	request, err := h.requestService.ApplyPayment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to apply payment", err)
		return
	}

	respond(c, http.StatusOK, "Payment applied successfully", request)
}
