package repository

import (
	"context"
	"movehub-backend/dal"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"sort"
)

const (
	phoneIndex  = "phone-index"
	statusIndex = "status-index"
)

type RequestRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewRequestRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *RequestRepository {
	return &RequestRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *RequestRepository) table() string {
	return TableName(r.config, "requests")
}

// canonicalize rewrites legacy status values read from storage
func canonicalize(req *models.MoveRequest) {
	req.Status = req.Status.Canonical()
	for i := range req.StatusHistory {
		req.StatusHistory[i].From = req.StatusHistory[i].From.Canonical()
		req.StatusHistory[i].To = req.StatusHistory[i].To.Canonical()
	}
}

func (r *RequestRepository) Create(ctx context.Context, req *models.MoveRequest) error {
	r.logger.Infof("Creating move request: %s", req.RequestID)

	if err := insert(ctx, r.db, r.table(), "requestID", req); err != nil {
		r.logger.Errorf("Failed to create move request %s: %v", req.RequestID, err)
		return err
	}
	return nil
}

func (r *RequestRepository) Get(ctx context.Context, id string) (*models.MoveRequest, error) {
	var req models.MoveRequest
	if err := load(ctx, r.db, r.table(), "requestID", id, &req); err != nil {
		return nil, err
	}
	canonicalize(&req)
	return &req, nil
}

// Update replaces the request if nobody changed it since it was read
func (r *RequestRepository) Update(ctx context.Context, req *models.MoveRequest) error {
	if err := replaceVersioned(ctx, r.db, r.table(), req, &req.Version); err != nil {
		r.logger.Warnf("Failed to update move request %s: %v", req.RequestID, err)
		return err
	}
	r.logger.Infof("Move request updated: %s (version %d)", req.RequestID, req.Version)
	return nil
}

// List filters by phone (exact, canonical form) and status (canonical, legacy values included).
// Results are newest first.
func (r *RequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]*models.MoveRequest, error) {
	var (
		found []*models.MoveRequest
		err   error
	)

	switch {
	case filter.Phone != "":
		err = r.db.QueryByIndex(ctx, r.table(), phoneIndex, "customerPhone", filter.Phone, &found)
	case filter.Status != "":
		for _, s := range filter.Status.Aliases() {
			var page []*models.MoveRequest
			if err = r.db.QueryByIndex(ctx, r.table(), statusIndex, "status", string(s), &page); err != nil {
				break
			}
			found = append(found, page...)
		}
	default:
		err = r.db.Scan(ctx, r.table(), nil, &found)
	}
	if err != nil {
		r.logger.Errorf("Failed to list move requests: %v", err)
		return nil, err
	}

	want := filter.Status.Canonical()
	out := make([]*models.MoveRequest, 0, len(found))
	for _, req := range found {
		canonicalize(req)
		if want != "" && req.Status != want {
			continue
		}
		out = append(out, req)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	r.logger.Infof("Found %d move requests", len(out))
	return out, nil
}
