package services

import (
	"context"
	"errors"
	"fmt"
	"movehub-backend/events"
	"movehub-backend/models"
	"movehub-backend/repository"
	"movehub-backend/utils/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var contractTransitions = map[models.ContractStatus][]models.ContractStatus{
	models.ContractStatusDraft:  {models.ContractStatusIssued, models.ContractStatusCancelled},
	models.ContractStatusIssued: {models.ContractStatusAccepted, models.ContractStatusRejected, models.ContractStatusCancelled},
}

func canMoveContract(from, to models.ContractStatus) bool {
	for _, next := range contractTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ContractTotal is base + surcharges - discount. It fails on negative amounts or a negative total.
func ContractTotal(base int64, surcharges []models.Surcharge, discount int64) (int64, error) {
	if base < 0 {
		return 0, invalid("basePrice", "base price cannot be negative")
	}
	if discount < 0 {
		return 0, invalid("discount", "discount cannot be negative")
	}

	total := decimal.NewFromInt(base)
	for i, sc := range surcharges {
		if sc.Amount < 0 {
			return 0, invalid(fmt.Sprintf("surcharges[%d].amount", i), "surcharge cannot be negative")
		}
		if strings.TrimSpace(sc.Label) == "" {
			return 0, invalid(fmt.Sprintf("surcharges[%d].label", i), "surcharge label is required")
		}
		total = total.Add(decimal.NewFromInt(sc.Amount))
	}
	total = total.Sub(decimal.NewFromInt(discount))

	if total.IsNegative() {
		return 0, invalid("discount", "discount exceeds the contract amount")
	}
	return total.IntPart(), nil
}

type ContractService struct {
	contractRepo repository.ContractRepositoryInterface
	requestRepo  repository.RequestRepositoryInterface
	quoteRepo    repository.QuoteRepositoryInterface
	publisher    events.Publisher
	logger       logger.Logger
	maxRetries   int
	now          func() time.Time
}

func NewContractService(
	contractRepo repository.ContractRepositoryInterface,
	requestRepo repository.RequestRepositoryInterface,
	quoteRepo repository.QuoteRepositoryInterface,
	publisher events.Publisher,
	cfg *models.Config,
	logger logger.Logger,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		requestRepo:  requestRepo,
		quoteRepo:    quoteRepo,
		publisher:    publisher,
		logger:       logger,
		maxRetries:   cfg.Negotiation.MaxCASRetries,
		now:          time.Now,
	}
}

// Create drafts a contract from the request. With a confirmed quote and no base price,
// the quote's final price is used.
func (s *ContractService) Create(ctx context.Context, in *models.CreateContractRequest, actor string) (*models.Contract, error) {
	if strings.TrimSpace(in.RequestID) == "" {
		return nil, invalid("requestID", "request ID is required")
	}
	req, err := s.requestRepo.Get(ctx, in.RequestID)
	if err != nil {
		return nil, notFound(err, "move request", in.RequestID)
	}

	base := in.BasePrice
	if in.QuoteID != "" {
		quote, err := s.quoteRepo.Get(ctx, in.QuoteID)
		if err != nil {
			return nil, notFound(err, "quote", in.QuoteID)
		}
		if quote.RequestID != req.RequestID {
			return nil, invalid("quoteID", "quote belongs to another request")
		}
		if base == 0 && quote.FinalPrice != nil {
			base = *quote.FinalPrice
		}
	}

	surcharges := in.Surcharges
	if surcharges == nil {
		surcharges = []models.Surcharge{}
	}
	total, err := ContractTotal(base, surcharges, in.Discount)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	contract := &models.Contract{
		ContractID:    uuid.New().String(),
		RequestID:     req.RequestID,
		QuoteID:       in.QuoteID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Pickup:        req.Pickup,
		Delivery:      req.Delivery,
		MovingTime:    req.MovingTime,
		ServiceType:   req.ServiceType,
		Terms:         in.Terms,
		Pricing: models.ContractPricing{
			BasePrice:  base,
			Surcharges: surcharges,
			Discount:   in.Discount,
			Total:      total,
		},
		Status:    models.ContractStatusDraft,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		UpdatedBy: actor,
	}

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	s.publish(ctx, contract, "", actor)
	return contract, nil
}

func (s *ContractService) Get(ctx context.Context, id string) (*models.Contract, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("id", "contract ID is required")
	}
	contract, err := s.contractRepo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "contract", id)
	}
	return contract, nil
}

// List returns the contracts of a request, or every contract when requestID is empty
func (s *ContractService) List(ctx context.Context, requestID string) ([]*models.Contract, error) {
	return s.contractRepo.List(ctx, strings.TrimSpace(requestID))
}

// Update edits the terms and pricing of a draft
func (s *ContractService) Update(ctx context.Context, id string, patch *models.UpdateContractRequest, actor string) (*models.Contract, error) {
	return s.mutate(ctx, id, func(c *models.Contract) error {
		if c.Status != models.ContractStatusDraft {
			return ErrContractLocked
		}

		p := c.Pricing
		if patch.BasePrice != nil {
			p.BasePrice = *patch.BasePrice
		}
		if patch.Surcharges != nil {
			p.Surcharges = patch.Surcharges
		}
		if patch.Discount != nil {
			p.Discount = *patch.Discount
		}
		total, err := ContractTotal(p.BasePrice, p.Surcharges, p.Discount)
		if err != nil {
			return err
		}
		p.Total = total
		c.Pricing = p

		if patch.Terms != nil {
			c.Terms = *patch.Terms
		}
		c.UpdatedBy = actor
		return nil
	})
}

// Delete removes a draft
func (s *ContractService) Delete(ctx context.Context, id string) error {
	contract, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if contract.Status != models.ContractStatusDraft {
		return ErrContractLocked
	}

	if err := s.contractRepo.Delete(ctx, contract); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return ErrConcurrentUpdate
		}
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	return nil
}

func (s *ContractService) Issue(ctx context.Context, id, actor string) (*models.Contract, error) {
	return s.transition(ctx, id, models.ContractStatusIssued, actor)
}

func (s *ContractService) Accept(ctx context.Context, id, actor string) (*models.Contract, error) {
	return s.transition(ctx, id, models.ContractStatusAccepted, actor)
}

func (s *ContractService) Reject(ctx context.Context, id, actor string) (*models.Contract, error) {
	return s.transition(ctx, id, models.ContractStatusRejected, actor)
}

func (s *ContractService) Cancel(ctx context.Context, id, actor string) (*models.Contract, error) {
	return s.transition(ctx, id, models.ContractStatusCancelled, actor)
}

func (s *ContractService) transition(ctx context.Context, id string, to models.ContractStatus, actor string) (*models.Contract, error) {
	var from models.ContractStatus
	contract, err := s.mutate(ctx, id, func(c *models.Contract) error {
		from = c.Status
		if !canMoveContract(from, to) {
			return fmt.Errorf("%w: contract %s -> %s", ErrInvalidTransition, from, to)
		}
		c.Status = to
		c.UpdatedBy = actor
		now := s.now().UTC()
		switch to {
		case models.ContractStatusIssued:
			c.IssuedAt = &now
		case models.ContractStatusAccepted:
			c.AcceptedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, contract, from, actor)
	return contract, nil
}

func (s *ContractService) mutate(ctx context.Context, id string, fn func(*models.Contract) error) (*models.Contract, error) {
	for attempt := 0; ; attempt++ {
		contract, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(contract); err != nil {
			return nil, err
		}

		contract.UpdatedAt = s.now().UTC()
		err = s.contractRepo.Update(ctx, contract)
		if err == nil {
			return contract, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, fmt.Errorf("failed to update contract: %w", err)
		}
		if attempt >= s.maxRetries {
			return nil, ErrConcurrentUpdate
		}
		s.logger.Debugf("Version conflict on contract %s, retrying", id)
	}
}

func (s *ContractService) publish(ctx context.Context, c *models.Contract, from models.ContractStatus, actor string) {
	event := models.StatusEvent{
		Type:       models.EventContractStatusChanged,
		EntityID:   c.ContractID,
		RequestID:  c.RequestID,
		From:       string(from),
		To:         string(c.Status),
		Actor:      actor,
		Price:      &c.Pricing.Total,
		OccurredAt: c.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Errorf("Failed to publish %s for %s: %v", event.Type, c.ContractID, err)
	}
}
