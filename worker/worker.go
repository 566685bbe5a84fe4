package worker

import (
	"context"
	"errors"
	"fmt"
	"movehub-backend/dal"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

const (
	JobBootstrapTables = "bootstrap_tables"
	JobExpireQuotes    = "expire_quotes"

	expiryLockKey = "movehub:worker:expire-quotes"
)

// QuoteSweeper is implemented by services.QuoteService
type QuoteSweeper interface {
	ExpireStale(ctx context.Context) (checked, expired int, err error)
}

// Worker runs the table bootstrap once and the quote expiry sweep on a cron schedule
type Worker struct {
	config       *models.Config
	logger       logger.Logger
	cron         *cron.Cron
	bootstrapper *TableBootstrapper
	sweeper      QuoteSweeper
	locker       Locker
	status       *StatusManager
	ownerID      string

	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewWorker wires the worker. locker is a RedisLocker when redis is enabled; a nil locker falls back to a FileLock.
func NewWorker(cfg *models.Config, log logger.Logger, db dal.DatabaseClientInterface, sweeper QuoteSweeper, locker Locker) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if sweeper == nil {
		return nil, fmt.Errorf("quote sweeper cannot be nil")
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}
	ownerID := fmt.Sprintf("worker-%s-%s", hostname, uuid.New().String()[:8])

	if locker == nil {
		locker = NewFileLock(cfg.Worker.LockFilePath, ownerID, cfg.AppEnv)
	}

	w := &Worker{
		config:  cfg,
		logger:  log.WithFields(map[string]interface{}{"component": "worker", "owner_id": ownerID}),
		cron:    cron.New(),
		sweeper: sweeper,
		locker:  locker,
		status:  NewStatusManager(),
		ownerID: ownerID,
	}
	if db != nil {
		w.bootstrapper = NewTableBootstrapper(db, cfg, w.logger)
	}
	return w, nil
}

// Bootstrap creates missing tables. It runs before the HTTP server starts serving.
func (w *Worker) Bootstrap(ctx context.Context) ([]models.TableStatus, error) {
	if w.bootstrapper == nil || !w.config.Worker.BootstrapTables {
		return nil, nil
	}

	start := w.status.Begin(JobBootstrapTables)
	tables, err := w.bootstrapper.EnsureTables(ctx)
	created := 0
	for _, t := range tables {
		if t.Status == "CREATED" {
			created++
		}
	}
	w.status.Finish(JobBootstrapTables, start, len(tables), created, false, err)
	if err != nil {
		return tables, fmt.Errorf("table bootstrap failed: %w", err)
	}

	w.logger.Infof("Table bootstrap finished: %d checked, %d created", len(tables), created)
	return tables, nil
}

// Start schedules the expiry sweep
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("worker is already running")
	}

	schedule := w.config.Worker.ExpirySchedule
	if err := w.cron.AddFunc(schedule, w.runExpirySweep); err != nil {
		return fmt.Errorf("failed to add cron job %q: %w", schedule, err)
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.cron.Start()
	w.isRunning = true

	w.logger.Infof("Worker started with expiry schedule %s", schedule)
	return nil
}

// Stop stops the scheduler and cancels a sweep in flight
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isRunning {
		return
	}
	w.cron.Stop()
	w.cancel()
	w.isRunning = false
	w.logger.Info("Worker stopped")
}

func (w *Worker) runExpirySweep() {
	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()

	timeout := w.config.Worker.LockTTL
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, _, err := w.SweepExpiredQuotes(ctx); err != nil {
		w.logger.Errorf("Quote expiry sweep failed: %v", err)
	}
}

// SweepExpiredQuotes expires stale quotes under the sweep lock.
// When another instance holds the lock the run is recorded as skipped.
func (w *Worker) SweepExpiredQuotes(ctx context.Context) (checked, expired int, err error) {
	start := w.status.Begin(JobExpireQuotes)

	lease, err := w.locker.Acquire(ctx, expiryLockKey, w.config.Worker.LockTTL)
	if errors.Is(err, ErrLockHeld) {
		w.logger.Debug("Expiry sweep lock held elsewhere, skipping")
		w.status.Finish(JobExpireQuotes, start, 0, 0, true, nil)
		return 0, 0, nil
	}
	if err != nil {
		w.status.Finish(JobExpireQuotes, start, 0, 0, false, err)
		return 0, 0, err
	}
	defer func() {
		if relErr := lease.Release(context.Background()); relErr != nil {
			w.logger.Warnf("Failed to release expiry lock: %v", relErr)
		}
	}()

	checked, expired, err = w.sweeper.ExpireStale(ctx)
	w.status.Finish(JobExpireQuotes, start, checked, expired, false, err)
	if err != nil {
		return checked, expired, err
	}

	if expired > 0 {
		w.logger.Infof("Expired %d of %d open quotes", expired, checked)
	}
	return checked, expired, nil
}

// State reports the worker for the health endpoint
func (w *Worker) State() models.WorkerState {
	w.mu.Lock()
	running := w.isRunning
	w.mu.Unlock()

	return models.WorkerState{
		OwnerID:   w.ownerID,
		IsRunning: running,
		Schedule:  w.config.Worker.ExpirySchedule,
		Jobs:      w.status.Snapshot(),
	}
}
