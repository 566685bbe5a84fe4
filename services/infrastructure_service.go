package services

import (
	"context"
	"movehub-backend/dal"
	"movehub-backend/models"
	"movehub-backend/repository"
	"movehub-backend/utils/logger"
	"sync"
	"time"
)

// WorkerStateProvider is implemented by the background worker
type WorkerStateProvider interface {
	State() models.WorkerState
}

type InfrastructureService struct {
	dbClient dal.DatabaseClientInterface
	logger   logger.Logger
	config   *models.Config

	mu     sync.RWMutex
	worker WorkerStateProvider
}

func NewInfrastructureService(dbClient dal.DatabaseClientInterface, logger logger.Logger, config *models.Config) *InfrastructureService {
	return &InfrastructureService{
		dbClient: dbClient,
		logger:   logger,
		config:   config,
	}
}

// AttachWorker makes the worker state part of the health report
func (s *InfrastructureService) AttachWorker(w WorkerStateProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worker = w
}

// Health describes every configured table and the worker. Any table that is not
// ACTIVE marks the service degraded.
func (s *InfrastructureService) Health(ctx context.Context) *models.HealthStatus {
	health := &models.HealthStatus{
		Status:    "ok",
		App:       s.config.AppName,
		Version:   s.config.AppVersion,
		Env:       s.config.AppEnv,
		Tables:    make(map[string]string, len(s.config.Tables)),
		CheckedAt: time.Now().UTC(),
	}

	for _, base := range s.config.Tables {
		name := repository.TableName(s.config, base)
		out, err := s.dbClient.DescribeTable(ctx, name)
		switch {
		case err != nil:
			s.logger.Debugf("Health check could not describe %s: %v", name, err)
			health.Tables[base] = "UNAVAILABLE"
		case out.Table == nil:
			health.Tables[base] = "UNKNOWN"
		default:
			health.Tables[base] = string(out.Table.TableStatus)
		}
		if health.Tables[base] != "ACTIVE" {
			health.Status = "degraded"
		}
	}

	s.mu.RLock()
	w := s.worker
	s.mu.RUnlock()
	if w != nil {
		state := w.State()
		health.Worker = &state
	}

	return health
}
