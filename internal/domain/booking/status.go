package booking

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

func NewStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusSuccess, StatusFailed:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string { return string(s) }

func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "CARD"
	PaymentMethodCash PaymentMethod = "CASH"
)

func NewPaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentMethodCard, PaymentMethodCash:
		return m, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

func (m PaymentMethod) String() string { return string(m) }

// UsesGateway reports whether settlement is verified against the payment gateway.
func (m PaymentMethod) UsesGateway() bool {
	return m == PaymentMethodCard
}

// FailureReason records why a booking ended FAILED.
type FailureReason string

const (
	FailureSlotTaken           FailureReason = "slot_taken"
	FailurePaymentUnsuccessful FailureReason = "payment_unsuccessful"
	FailureAmountMismatch      FailureReason = "amount_mismatch"
	FailureExpired             FailureReason = "expired"
)
