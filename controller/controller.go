package controller

import (
	"movehub-backend/middelware"
	"movehub-backend/models"
	"movehub-backend/services"
	"movehub-backend/utils/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controller struct {
	Request        *RequestController
	Quote          *QuoteController
	Contract       *ContractController
	Geo            *GeoController
	Infrastructure *InfrastructureController

	jwtManager *middelware.JWTManager
	cors       *middelware.CORSMiddleware
	logging    *middelware.LoggingMiddleware
}

func NewController(svc services.ServiceContainerInterface, jwtManager *middelware.JWTManager, cfg *models.Config, log logger.Logger) *Controller {
	return &Controller{
		Request:        NewRequestController(svc.GetRequestService(), log),
		Quote:          NewQuoteController(svc.GetQuoteService(), log),
		Contract:       NewContractController(svc.GetContractService(), log),
		Geo:            NewGeoController(svc.GetGeoService(), log),
		Infrastructure: NewInfrastructureController(svc.GetInfrastructureService(), log),
		jwtManager:     jwtManager,
		cors:           middelware.NewCORSMiddleware(cfg),
		logging:        middelware.NewLoggingMiddleware(log, cfg.BasePath+"/health"),
	}
}

func (c *Controller) RegisterRoutes(r *gin.Engine, basePath string) {
	r.Use(c.logging.StructuredLogger(), c.logging.Recovery(), c.cors.CORS())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(basePath)

	// Health check endpoint (no auth required)
	api.GET("/health", c.Infrastructure.Health)

	auth := c.jwtManager.AuthMiddleware()
	staff := c.jwtManager.RequireRole(models.RoleStaff)
	payment := c.jwtManager.RequireRole(models.RolePayment)

	quotes := api.Group("/quotes")
	quotes.POST("/estimate", c.Quote.Estimate)
	quotes.POST("", c.Quote.CreateQuote)
	quotes.GET("/request/:requestId", c.Quote.ListQuotes)
	quotes.GET("/:id", c.Quote.GetQuote)
	quotes.POST("/:id/negotiate", c.Quote.Negotiate)
	quotes.POST("/:id/counter", auth, staff, c.Quote.Counter)
	quotes.POST("/:id/accept", auth, staff, c.Quote.Accept)
	quotes.POST("/:id/confirm", c.Quote.Confirm)

	geo := api.Group("/geo")
	geo.POST("/geocode", c.Geo.Geocode)
	geo.POST("/distance", c.Geo.Distance)

	requests := api.Group("/requests")
	requests.POST("", c.Request.CreateRequest)
	requests.GET("", c.Request.ListRequests)
	requests.GET("/:id", c.Request.GetRequest)
	requests.PATCH("/:id", c.Request.UpdateRequest)
	requests.POST("/:id/cancel", c.Request.CancelRequest)
	requests.POST("/:id/status", auth, staff, c.Request.TransitionRequest)
	requests.POST("/:id/payment", auth, payment, c.Request.ApplyPayment)

	// Staff draft and issue contracts, customers answer them
	contracts := api.Group("/contracts")
	contracts.POST("", auth, staff, c.Contract.CreateContract)
	contracts.GET("", c.Contract.ListContracts)
	contracts.GET("/:id", c.Contract.GetContract)
	contracts.PATCH("/:id", auth, staff, c.Contract.UpdateContract)
	contracts.DELETE("/:id", auth, staff, c.Contract.DeleteContract)
	contracts.POST("/:id/issue", auth, staff, c.Contract.IssueContract)
	contracts.POST("/:id/accept", c.Contract.AcceptContract)
	contracts.POST("/:id/reject", c.Contract.RejectContract)
	contracts.POST("/:id/cancel", auth, staff, c.Contract.CancelContract)
}
