package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kurimacye/marketplace/internal/cache"
	"github.com/kurimacye/marketplace/internal/logging"
	"github.com/kurimacye/marketplace/internal/models"
	"github.com/kurimacye/marketplace/internal/momo"
	"github.com/kurimacye/marketplace/internal/mykafka"
	"github.com/kurimacye/marketplace/internal/repo"
)

// Bridge is the external payment collaborator. A failed bridge call
// surfaces as ErrPaymentBridge and never rolls back the order.
type Bridge interface {
	RequestToPay(ctx context.Context, pay momo.PayRequest) (string, error)
}

type PaymentService struct {
	Repo     *repo.GormRepo
	Bridge   Bridge
	Idem     cache.Cache // nil disables confirmation dedupe
	Producer *mykafka.Producer
	Currency string
}

func (s *PaymentService) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

// alreadyConfirmed reports whether a confirmation for this order was
// recorded before, so accidental retries return the stored order
// without rewriting paymentResult.
func (s *PaymentService) alreadyConfirmed(ctx context.Context, order *models.Order) bool {
	if order.IsPaid {
		return true
	}
	if s.Idem == nil {
		return false
	}
	v, err := s.Idem.Get(ctx, s.Idem.GenerateKey("payment", order.ID.String()))
	if err != nil {
		logging.FromContext(ctx).Warn("idempotency lookup failed", "error", err)
		return false
	}
	return v != ""
}

// PayWithMoMo asks the bridge for a request-to-pay and records the
// confirmation. The sandbox reports PENDING until the payer approves.
func (s *PaymentService) PayWithMoMo(ctx context.Context, orderID uuid.UUID, phone string) (*models.Order, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone number required: %w", ErrValidation)
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.alreadyConfirmed(ctx, order) {
		return order, nil
	}

	referenceID, err := s.Bridge.RequestToPay(ctx, momo.PayRequest{
		Amount:       fmt.Sprintf("%.2f", order.TotalPrice),
		Currency:     s.Currency,
		ExternalID:   order.ID.String(),
		Phone:        phone,
		PayerMessage: fmt.Sprintf("Payment for Order %s", order.ID),
		PayeeNote:    "Kuri-Macye",
	})
	if err != nil {
		return nil, fmt.Errorf("payment failed: %v: %w", err, ErrPaymentBridge)
	}

	return s.confirm(ctx, order, "MoMo", models.PaymentResult{
		ID:         referenceID,
		Status:     "PENDING",
		UpdateTime: time.Now().UTC().Format(time.RFC3339),
	})
}

// PayWithStripe records a simulated provider confirmation.
func (s *PaymentService) PayWithStripe(ctx context.Context, orderID uuid.UUID, paymentID string) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.alreadyConfirmed(ctx, order) {
		return order, nil
	}

	if paymentID == "" {
		paymentID = "STRIPE-" + strings.ToUpper(uuid.NewString()[:8])
	}

	return s.confirm(ctx, order, "Stripe", models.PaymentResult{
		ID:         paymentID,
		Status:     "SUCCESS",
		UpdateTime: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *PaymentService) confirm(ctx context.Context, order *models.Order, method string, result models.PaymentResult) (*models.Order, error) {
	now := time.Now().UTC()

	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentMethod = method
	order.PaymentResult = result
	paid := models.OrderStatusPaid
	Transition(order, &paid, nil, now)

	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	if s.Idem != nil {
		key := s.Idem.GenerateKey("payment", order.ID.String())
		if err := s.Idem.Set(ctx, key, result.ID, 24*time.Hour); err != nil {
			logging.FromContext(ctx).Warn("idempotency store failed", "error", err)
		}
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "order_events", order.ID.String(), map[string]any{
		"type":    "order_paid",
		"orderID": order.ID,
		"method":  method,
		"payment": result.ID,
	}); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}

	return order, nil
}
