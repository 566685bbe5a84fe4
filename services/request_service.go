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
)

// requestTransitions is the lifecycle graph for staff and payment driven changes
var requestTransitions = map[models.RequestStatus][]models.RequestStatus{
	models.RequestStatusPendingConfirmation: {
		models.RequestStatusUnderSurvey,
		models.RequestStatusWaitingPayment,
		models.RequestStatusRejected,
		models.RequestStatusCancelled,
	},
	models.RequestStatusUnderSurvey: {
		models.RequestStatusWaitingPayment,
		models.RequestStatusCancelled,
	},
	models.RequestStatusWaitingPayment: {
		models.RequestStatusInProgress,
		models.RequestStatusCancelled,
	},
	models.RequestStatusInProgress: {
		models.RequestStatusDone,
	},
}

// CanTransition reports whether a request may move from one status to another
func CanTransition(from, to models.RequestStatus) bool {
	for _, next := range requestTransitions[from.Canonical()] {
		if next == to.Canonical() {
			return true
		}
	}
	return false
}

var paymentTargets = map[models.PaymentOutcome]models.RequestStatus{
	models.PaymentOutcomePaid:    models.RequestStatusInProgress,
	models.PaymentOutcomePending: models.RequestStatusWaitingPayment,
	models.PaymentOutcomeFailed:  models.RequestStatusWaitingPayment,
}

type RequestService struct {
	requestRepo repository.RequestRepositoryInterface
	publisher   events.Publisher
	logger      logger.Logger
	rules       models.RequestConfig
	location    *time.Location
	maxRetries  int
	now         func() time.Time
}

func NewRequestService(requestRepo repository.RequestRepositoryInterface, publisher events.Publisher, cfg *models.Config, logger logger.Logger) *RequestService {
	loc, err := time.LoadLocation(cfg.Request.Timezone)
	if err != nil {
		logger.Warnf("Unknown timezone %q, falling back to UTC+7: %v", cfg.Request.Timezone, err)
		loc = time.FixedZone("ICT", 7*60*60)
	}

	return &RequestService{
		requestRepo: requestRepo,
		publisher:   publisher,
		logger:      logger,
		rules:       cfg.Request,
		location:    loc,
		maxRetries:  cfg.Negotiation.MaxCASRetries,
		now:         time.Now,
	}
}

func (s *RequestService) Create(ctx context.Context, in *models.CreateMoveRequest, actor string) (*models.MoveRequest, error) {
	name := strings.TrimSpace(in.CustomerName)
	if len([]rune(name)) < 2 {
		return nil, invalid("customerName", "customer name is required")
	}

	phone, err := NormalizePhone(in.CustomerPhone)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := ValidateMovingTime(in.MovingTime, now, s.location, s.rules.CutoffHour); err != nil {
		return nil, err
	}
	if err := ValidateImages(in.Images, s.rules.MaxImages, s.rules.MaxImageChars); err != nil {
		return nil, err
	}

	serviceType := in.ServiceType
	if serviceType == "" {
		serviceType = models.ServiceTypeStandard
	}

	req := &models.MoveRequest{
		RequestID:     uuid.New().String(),
		CustomerName:  name,
		CustomerPhone: phone,
		Pickup:        in.Pickup,
		Delivery:      in.Delivery,
		MovingTime:    in.MovingTime.UTC(),
		ServiceType:   serviceType,
		Items:         in.Items,
		Images:        in.Images,
		Notes:         strings.TrimSpace(in.Notes),
		Status:        models.RequestStatusPendingConfirmation,
		StatusHistory: []models.StatusChange{{
			To:    models.RequestStatusPendingConfirmation,
			Actor: actor,
			At:    now,
		}},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		UpdatedBy: actor,
	}
	if req.Items == nil {
		req.Items = []models.Item{}
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create move request: %w", err)
	}

	s.publish(ctx, req, "", actor)
	return req, nil
}

func (s *RequestService) Get(ctx context.Context, id string) (*models.MoveRequest, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("id", "request ID is required")
	}
	req, err := s.requestRepo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "move request", id)
	}
	return req, nil
}

func (s *RequestService) List(ctx context.Context, filter models.RequestFilter) ([]*models.MoveRequest, error) {
	if filter.Phone != "" {
		phone, err := NormalizePhone(filter.Phone)
		if err != nil {
			return nil, &ValidationError{Field: "phone", Message: "invalid phone number"}
		}
		filter.Phone = phone
	}
	if filter.Status != "" {
		if !filter.Status.IsKnown() {
			return nil, invalid("status", "unknown status %q", filter.Status)
		}
		filter.Status = filter.Status.Canonical()
	}
	return s.requestRepo.List(ctx, filter)
}

// Update patches a request that is still waiting for confirmation
func (s *RequestService) Update(ctx context.Context, id string, patch *models.UpdateMoveRequest, actor string) (*models.MoveRequest, error) {
	if patch.CustomerName != nil {
		return nil, invalid("customerName", "customer name cannot be changed")
	}
	if patch.CustomerPhone != nil {
		return nil, invalid("customerPhone", "customer phone cannot be changed")
	}
	if patch.Items != nil {
		return nil, invalid("items", "items are set by the staff survey")
	}
	if patch.MovingTime != nil {
		if err := ValidateMovingTime(*patch.MovingTime, s.now(), s.location, s.rules.CutoffHour); err != nil {
			return nil, err
		}
	}
	if patch.Images != nil {
		if err := ValidateImages(patch.Images, s.rules.MaxImages, s.rules.MaxImageChars); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, id, func(req *models.MoveRequest) (bool, error) {
		if req.Status != models.RequestStatusPendingConfirmation {
			return false, ErrRequestLocked
		}
		if patch.Pickup != nil {
			req.Pickup = *patch.Pickup
		}
		if patch.Delivery != nil {
			req.Delivery = *patch.Delivery
		}
		if patch.MovingTime != nil {
			req.MovingTime = patch.MovingTime.UTC()
		}
		if patch.ServiceType != nil {
			req.ServiceType = *patch.ServiceType
		}
		if patch.Images != nil {
			req.Images = patch.Images
		}
		if patch.Notes != nil {
			req.Notes = strings.TrimSpace(*patch.Notes)
		}
		req.UpdatedBy = actor
		return true, nil
	})
}

// Cancel is the customer facing cancellation
func (s *RequestService) Cancel(ctx context.Context, id, actor, reason string) (*models.MoveRequest, error) {
	var from models.RequestStatus
	req, err := s.mutate(ctx, id, func(req *models.MoveRequest) (bool, error) {
		switch req.Status {
		case models.RequestStatusPendingConfirmation, models.RequestStatusUnderSurvey, models.RequestStatusWaitingPayment:
		default:
			return false, fmt.Errorf("%w: cannot cancel a request in status %s", ErrInvalidTransition, req.Status)
		}
		from = req.Status
		s.setStatus(req, models.RequestStatusCancelled, actor, reason)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, req, from, actor)
	return req, nil
}

// Transition applies a staff status action along the lifecycle graph
func (s *RequestService) Transition(ctx context.Context, id string, to models.RequestStatus, actor, note string) (*models.MoveRequest, error) {
	if !to.IsKnown() {
		return nil, invalid("status", "unknown status %q", to)
	}
	return s.moveTo(ctx, id, to.Canonical(), actor, note)
}

// ApplyPayment records the outcome reported by the payment gateway webhook
func (s *RequestService) ApplyPayment(ctx context.Context, id string, n *models.PaymentNotification) (*models.MoveRequest, error) {
	to, ok := paymentTargets[n.Outcome]
	if !ok {
		return nil, invalid("outcome", "unknown payment outcome %q", n.Outcome)
	}

	note := "payment " + string(n.Outcome)
	if n.Reference != "" {
		note += " (" + n.Reference + ")"
	}
	return s.moveTo(ctx, id, to, string(models.RolePayment), note)
}

func (s *RequestService) moveTo(ctx context.Context, id string, to models.RequestStatus, actor, note string) (*models.MoveRequest, error) {
	var from models.RequestStatus
	req, err := s.mutate(ctx, id, func(req *models.MoveRequest) (bool, error) {
		from = req.Status
		if from == to {
			return false, nil
		}
		if from.IsTerminal() {
			return false, fmt.Errorf("%w: request is already %s", ErrInvalidTransition, from)
		}
		if !CanTransition(from, to) {
			return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		s.setStatus(req, to, actor, note)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if from != to {
		s.publish(ctx, req, from, actor)
	}
	return req, nil
}

func (s *RequestService) setStatus(req *models.MoveRequest, to models.RequestStatus, actor, note string) {
	req.StatusHistory = append(req.StatusHistory, models.StatusChange{
		From:  req.Status,
		To:    to,
		Actor: actor,
		Note:  strings.TrimSpace(note),
		At:    s.now().UTC(),
	})
	req.Status = to
	req.UpdatedBy = actor
}

// mutate reloads and re-applies fn until the versioned write wins or the retries run out.
// fn returning false means there is nothing to write.
func (s *RequestService) mutate(ctx context.Context, id string, fn func(*models.MoveRequest) (bool, error)) (*models.MoveRequest, error) {
	for attempt := 0; ; attempt++ {
		req, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		changed, err := fn(req)
		if err != nil {
			return nil, err
		}
		if !changed {
			return req, nil
		}

		req.UpdatedAt = s.now().UTC()
		err = s.requestRepo.Update(ctx, req)
		if err == nil {
			return req, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, fmt.Errorf("failed to update move request: %w", err)
		}
		if attempt >= s.maxRetries {
			s.logger.Warnf("Giving up on move request %s after %d attempts", id, attempt+1)
			return nil, ErrConcurrentUpdate
		}
		s.logger.Debugf("Version conflict on move request %s, retrying", id)
	}
}

func (s *RequestService) publish(ctx context.Context, req *models.MoveRequest, from models.RequestStatus, actor string) {
	event := models.StatusEvent{
		Type:       models.EventRequestStatusChanged,
		EntityID:   req.RequestID,
		RequestID:  req.RequestID,
		From:       string(from),
		To:         string(req.Status),
		Actor:      actor,
		OccurredAt: req.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Errorf("Failed to publish %s for %s: %v", event.Type, req.RequestID, err)
	}
}
