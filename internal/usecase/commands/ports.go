package commands

import (
	"context"

	"slot-reservation-engine/internal/domain/booking"

	"github.com/google/uuid"
)

const (
	IntentStatusSucceeded       = "succeeded"
	IntentStatusCanceled        = "canceled"
	IntentStatusProcessing      = "processing"
	IntentStatusRequiresCapture = "requires_capture"
)

// PayerProfile is what the gateway needs to find or create a customer record.
type PayerProfile struct {
	CustomerID uuid.UUID
	Email      string
	Name       string
}

type OpenIntentParams struct {
	Amount         booking.Money
	Currency       string
	PayerID        string
	IdempotencyKey string
	Metadata       map[string]string
}

type OpenedIntent struct {
	ID           string
	ClientSecret string
}

// IntentStatus is the gateway's authoritative view of an intent. Amount is in minor units.
type IntentStatus struct {
	Status   string
	Amount   int64
	Currency string
}

func (s IntentStatus) Succeeded() bool {
	return s.Status == IntentStatusSucceeded
}

func (s IntentStatus) Canceled() bool {
	return s.Status == IntentStatusCanceled
}

// Cancelable reports whether the payer has not yet authorised the intent.
// processing and requires_capture may still settle and are not cancelable here.
func (s IntentStatus) Cancelable() bool {
	switch s.Status {
	case "requires_payment_method", "requires_confirmation", "requires_action":
		return true
	default:
		return false
	}
}

type PaymentGateway interface {
	EnsurePayerIdentity(ctx context.Context, profile PayerProfile) (string, error)
	OpenIntent(ctx context.Context, params OpenIntentParams) (*OpenedIntent, error)
	GetIntentStatus(ctx context.Context, intentID string) (*IntentStatus, error)
	// CancelIntent returns ErrIntentNotCancelable when the intent moved past a cancelable state.
	CancelIntent(ctx context.Context, intentID string) error
}
