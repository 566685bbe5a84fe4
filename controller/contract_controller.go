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

type ContractController struct {
	contractService services.ContractServiceInterface
	logger          logger.Logger
	validator       *validator.Validate
}

func NewContractController(contractService services.ContractServiceInterface, logger logger.Logger) *ContractController {
	return &ContractController{
		contractService: contractService,
		logger:          logger,
		validator:       newValidator(),
	}
}

// CreateContract handles POST /api/contracts
// @Summary Draft a contract for a move request
// @Tags Contracts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateContractRequest true "Contract"
// @Success 201 {object} models.APIResponse{data=models.Contract}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /contracts [post]
func (h *ContractController) CreateContract(c *gin.Context) {
	var req models.CreateContractRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	contract, err := h.contractService.Create(c.Request.Context(), &req, middelware.Actor(c, string(models.ActorStaff)))
	if err != nil {
		respondError(c, h.logger, "Failed to create contract", err)
		return
	}

	respond(c, http.StatusCreated, "Contract created successfully", contract)
}

// ListContracts handles GET /api/contracts?requestId=
// @Summary List contracts, optionally of one move request
// @Tags Contracts
// @Produce json
// @Param requestId query string false "Request ID"
// @Success 200 {object} models.APIResponse{data=[]models.Contract}
// @Router /contracts [get]
func (h *ContractController) ListContracts(c *gin.Context) {
	contracts, err := h.contractService.List(c.Request.Context(), c.Query("requestId"))
	if err != nil {
		respondError(c, h.logger, "Failed to list contracts", err)
		return
	}

	respond(c, http.StatusOK, "Contracts retrieved successfully", contracts)
}

// GetContract handles GET /api/contracts/:id
// @Summary Get a contract
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} models.APIResponse{data=models.Contract}
// @Failure 404 {object} models.APIResponse
// @Router /contracts/{id} [get]
func (h *ContractController) GetContract(c *gin.Context) {
	contract, err := h.contractService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get contract", err)
		return
	}

	respond(c, http.StatusOK, "Contract retrieved successfully", contract)
}

// UpdateContract handles PATCH /api/contracts/:id
// @Summary Edit a draft contract
// @Tags Contracts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param request body models.UpdateContractRequest true "Fields to change"
// @Success 200 {object} models.APIResponse{data=models.Contract}
// @Failure 400 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /contracts/{id} [patch]
func (h *ContractController) UpdateContract(c *gin.Context) {
	var req models.UpdateContractRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	contract, err := h.contractService.Update(c.Request.Context(), c.Param("id"), &req, middelware.Actor(c, string(models.ActorStaff)))
	if err != nil {
		respondError(c, h.logger, "Failed to update contract", err)
		return
	}

	respond(c, http.StatusOK, "Contract updated successfully", contract)
}

// DeleteContract handles DELETE /api/contracts/:id
// @Summary Delete a draft contract
// @Tags Contracts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /contracts/{id} [delete]
func (h *ContractController) DeleteContract(c *gin.Context) {
	id := c.Param("id")
	if err := h.contractService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to delete contract", err)
		return
	}

	respond(c, http.StatusOK, "Contract deleted successfully", gin.H{"contractID": id})
}

func (h *ContractController) reply(c *gin.Context, message string, contract *models.Contract, err error) {
	if err != nil {
		respondError(c, h.logger, "Failed to update contract status", err)
		return
	}
	respond(c, http.StatusOK, message, contract)
}

// IssueContract handles POST /api/contracts/:id/issue
// @Summary Issue a draft contract to the customer
// @Tags Contracts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} models.APIResponse{data=models.Contract}
// @Failure 409 {object} models.APIResponse
// @Router /contracts/{id}/issue [post]
func (h *ContractController) IssueContract(c *gin.Context) {
	contract, err := h.contractService.Issue(c.Request.Context(), c.Param("id"), middelware.Actor(c, string(models.ActorStaff)))
	h.reply(c, "Contract issued successfully", contract, err)
}

// AcceptContract handles POST /api/contracts/:id/accept
// @Summary Customer accepts an issued contract
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} models.APIResponse{data=models.Contract}
// @Failure 409 {object} models.APIResponse
// @Router /contracts/{id}/accept [post]
func (h *ContractController) AcceptContract(c *gin.Context) {
	contract, err := h.contractService.Accept(c.Request.Context(), c.Param("id"), middelware.Actor(c, string(models.ActorCustomer)))
	h.reply(c, "Contract accepted successfully", contract, err)
}

// RejectContract handles POST /api/contracts/:id/reject
// @Summary Customer rejects an issued contract
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} models.APIResponse{data=models.Contract}
// @Failure 409 {object} models.APIResponse
// @Router /contracts/{id}/reject [post]
func (h *ContractController) RejectContract(c *gin.Context) {
	contract, err := h.contractService.Reject(c.Request.Context(), c.Param("id"), middelware.Actor(c, string(models.ActorCustomer)))
	h.reply(c, "Contract rejected successfully", contract, err)
}

// CancelContract handles POST /api/contracts/:id/cancel
// @Summary Cancel a draft or issued contract
// @Tags Contracts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} models.APIResponse{data=models.Contract}
// @Failure 409 {object} models.APIResponse
// @Router /contracts/{id}/cancel [post]
func (h *ContractController) CancelContract(c *gin.Context) {
	contract, err := h.contractService.Cancel(c.Request.Context(), c.Param("id"), middelware.Actor(c, string(models.ActorStaff)))
	h.reply(c, "Contract cancelled successfully", contract, err)
}
