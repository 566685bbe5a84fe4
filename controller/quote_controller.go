package controller

import (
	"movehub-backend/models"
	"movehub-backend/services"
	"movehub-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type QuoteController struct {
	quoteService services.QuoteServiceInterface
	logger       logger.Logger
	validator    *validator.Validate
}

func NewQuoteController(quoteService services.QuoteServiceInterface, logger logger.Logger) *QuoteController {
	return &QuoteController{
		quoteService: quoteService,
		logger:       logger,
		validator:    newValidator(),
	}
}

// Estimate handles POST /api/quotes/estimate
// @Summary Price a move without saving it
// @Description Resolves both locations, computes the route and prices it. A manual distance skips routing.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body models.EstimateRequest true "Estimate input"
// @Success 200 {object} models.APIResponse{data=models.EstimateResult}
// @Failure 400 {object} models.APIResponse
// @Router /quotes/estimate [post]
func (h *QuoteController) Estimate(c *gin.Context) {
	var req models.EstimateRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	result, err := h.quoteService.Estimate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to estimate quote", err)
		return
	}

	respond(c, http.StatusOK, "Quote estimated successfully", result)
}

// CreateQuote handles POST /api/quotes?requestId=
// @Summary Create a persisted quote for a move request
// @Tags Quotes
// @Accept json
// @Produce json
// @Param requestId query string true "Request ID"
// @Param request body models.EstimateRequest true "Estimate input"
// @Success 201 {object} models.APIResponse{data=models.Quote}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /quotes [post]
func (h *QuoteController) CreateQuote(c *gin.Context) {
	requestID := c.Query("requestId")
	if requestID == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Error: &models.APIError{
				Type:    models.ErrorTypeValidation,
				Details: "requestId is required",
				Field:   "requestId",
			},
		})
		return
	}

	var req models.EstimateRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	quote, err := h.quoteService.Create(c.Request.Context(), requestID, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create quote", err)
		return
	}

	respond(c, http.StatusCreated, "Quote created successfully", quote)
}

// ListQuotes handles GET /api/quotes/request/:requestId
// @Summary List quotes of a move request
// @Tags Quotes
// @Produce json
// @Param requestId path string true "Request ID"
// @Success 200 {object} models.APIResponse{data=[]models.Quote}
// @Router /quotes/request/{requestId} [get]
func (h *QuoteController) ListQuotes(c *gin.Context) {
	quotes, err := h.quoteService.ListByRequest(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		respondError(c, h.logger, "Failed to list quotes", err)
		return
	}

	respond(c, http.StatusOK, "Quotes retrieved successfully", quotes)
}

// GetQuote handles GET /api/quotes/:id
// @Summary Get a quote
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} models.APIResponse{data=models.Quote}
// @Failure 404 {object} models.APIResponse
// @Router /quotes/{id} [get]
func (h *QuoteController) GetQuote(c *gin.Context) {
	quote, err := h.quoteService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get quote", err)
		return
	}

	respond(c, http.StatusOK, "Quote retrieved successfully", quote)
}

// Negotiate handles POST /api/quotes/:id/negotiate
// @Summary Propose a price
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param request body models.NegotiateQuoteRequest true "Proposal"
// @Success 200 {object} models.APIResponse{data=models.Quote}
// @Failure 400 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /quotes/{id}/negotiate [post]
func (h *QuoteController) Negotiate(c *gin.Context) {
	var req models.NegotiateQuoteRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	quote, err := h.quoteService.Propose(c.Request.Context(), c.Param("id"), req.From, req.Price)
	if err != nil {
		respondError(c, h.logger, "Failed to negotiate quote", err)
		return
	}

	respond(c, http.StatusOK, "Price proposed successfully", quote)
}

// Counter handles POST /api/quotes/:id/counter
// @Summary Staff counter offer
// @Tags Quotes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param request body models.CounterQuoteRequest true "Counter price"
// @Success 200 {object} models.APIResponse{data=models.Quote}
// @Failure 400 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /quotes/{id}/counter [post]
func (h *QuoteController) Counter(c *gin.Context) {
	var req models.CounterQuoteRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	quote, err := h.quoteService.Counter(c.Request.Context(), c.Param("id"), req.Price)
	if err != nil {
		respondError(c, h.logger, "Failed to counter quote", err)
		return
	}

	respond(c, http.StatusOK, "Counter offer recorded successfully", quote)
}

// Accept handles POST /api/quotes/:id/accept
// @Summary Staff accepts the latest proposal
// @Tags Quotes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} models.APIResponse{data=models.Quote}
// @Failure 409 {object} models.APIResponse
// @Router /quotes/{id}/accept [post]
func (h *QuoteController) Accept(c *gin.Context) {
	quote, err := h.quoteService.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to accept quote", err)
		return
	}

	respond(c, http.StatusOK, "Quote accepted successfully", quote)
}

// Confirm handles POST /api/quotes/:id/confirm
// @Summary Customer confirms the quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param request body models.ConfirmQuoteRequest false "Optional final price"
// @Success 200 {object} models.APIResponse{data=models.Quote}
// @Failure 409 {object} models.APIResponse
// @Router /quotes/{id}/confirm [post]
func (h *QuoteController) Confirm(c *gin.Context) {
	var req models.ConfirmQuoteRequest
	if c.Request.ContentLength != 0 && !bind(c, h.validator, h.logger, &req) {
		return
	}

	quote, err := h.quoteService.Confirm(c.Request.Context(), c.Param("id"), req.FinalPrice)
	if err != nil {
		respondError(c, h.logger, "Failed to confirm quote", err)
		return
	}

	respond(c, http.StatusOK, "Quote confirmed successfully", quote)
}
