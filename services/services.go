package services

import (
	"movehub-backend/dal"
	"movehub-backend/events"
	"movehub-backend/models"
	"movehub-backend/pricing"
	"movehub-backend/repository"
	"movehub-backend/utils/logger"
)

// Service implements ServiceContainerInterface
type Service struct {
	requestService        RequestServiceInterface
	quoteService          QuoteServiceInterface
	contractService       ContractServiceInterface
	geoService            GeoServiceInterface
	infrastructureService InfrastructureServiceInterface
}

// Dependencies are the outbound adapters the services are built on
type Dependencies struct {
	DB         dal.DatabaseClientInterface
	Geocoder   AddressResolver
	Router     RouteResolver
	Calculator *pricing.Calculator
	Publisher  events.Publisher
}

// NewService creates a new service container with all dependencies injected
func NewService(
	repoContainer repository.RepositoryContainerInterface,
	deps Dependencies,
	logger logger.Logger,
	config *models.Config,
) ServiceContainerInterface {
	requests := repoContainer.GetRequestRepository()
	quotes := repoContainer.GetQuoteRepository()

	return &Service{
		requestService:        NewRequestService(requests, deps.Publisher, config, logger),
		quoteService:          NewQuoteService(quotes, requests, deps.Geocoder, deps.Router, deps.Calculator, deps.Publisher, config, logger),
		contractService:       NewContractService(repoContainer.GetContractRepository(), requests, quotes, deps.Publisher, config, logger),
		geoService:            NewGeoService(deps.Geocoder, deps.Router, logger),
		infrastructureService: NewInfrastructureService(deps.DB, logger, config),
	}
}

// GetRequestService returns the move request service interface
func (s *Service) GetRequestService() RequestServiceInterface {
	return s.requestService
}

// GetQuoteService returns the quote service interface
func (s *Service) GetQuoteService() QuoteServiceInterface {
	return s.quoteService
}

// GetContractService returns the contract service interface
func (s *Service) GetContractService() ContractServiceInterface {
	return s.contractService
}

// GetGeoService returns the geo service interface
func (s *Service) GetGeoService() GeoServiceInterface {
	return s.geoService
}

// GetInfrastructureService returns the infrastructure service interface
func (s *Service) GetInfrastructureService() InfrastructureServiceInterface {
	return s.infrastructureService
}
