package repository

import (
	"context"
	"movehub-backend/dal"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"sort"
)

const requestIDIndex = "requestID-index"

type QuoteRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewQuoteRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *QuoteRepository {
	return &QuoteRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *QuoteRepository) table() string {
	return TableName(r.config, "quotes")
}

func (r *QuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	r.logger.Infof("Creating quote %s for request %s", quote.QuoteID, quote.RequestID)

	if err := insert(ctx, r.db, r.table(), "quoteID", quote); err != nil {
		r.logger.Errorf("Failed to create quote %s: %v", quote.QuoteID, err)
		return err
	}
	return nil
}

func (r *QuoteRepository) Get(ctx context.Context, id string) (*models.Quote, error) {
	var quote models.Quote
	if err := load(ctx, r.db, r.table(), "quoteID", id, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	if err := replaceVersioned(ctx, r.db, r.table(), quote, &quote.Version); err != nil {
		r.logger.Warnf("Failed to update quote %s: %v", quote.QuoteID, err)
		return err
	}
	r.logger.Infof("Quote updated: %s (%s, version %d)", quote.QuoteID, quote.Status, quote.Version)
	return nil
}

// ListByRequest returns the quotes of a request, oldest first
func (r *QuoteRepository) ListByRequest(ctx context.Context, requestID string) ([]*models.Quote, error) {
	var quotes []*models.Quote
	if err := r.db.QueryByIndex(ctx, r.table(), requestIDIndex, "requestID", requestID, &quotes); err != nil {
		r.logger.Errorf("Failed to list quotes of %s: %v", requestID, err)
		return nil, err
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt.Before(quotes[j].CreatedAt)
	})
	return quotes, nil
}

// ListOpen returns every quote that can still change
func (r *QuoteRepository) ListOpen(ctx context.Context) ([]*models.Quote, error) {
	filter := &models.Condition{
		Expression: "#status IN (:draft, :pending, :negotiating)",
		Names:      map[string]string{"#status": "status"},
		Values: map[string]interface{}{
			":draft":       string(models.QuoteStatusDraft),
			":pending":     string(models.QuoteStatusPending),
			":negotiating": string(models.QuoteStatusNegotiating),
		},
	}

	var quotes []*models.Quote
	if err := r.db.Scan(ctx, r.table(), filter, &quotes); err != nil {
		r.logger.Errorf("Failed to list open quotes: %v", err)
		return nil, err
	}
	return quotes, nil
}
