package payment

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"slot-reservation-engine/internal/pkg/config"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/commands"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const metadataCustomerID = "customer_id"

var ErrIntentIncomplete = errs.New("gateway returned an incomplete intent")

// StripeGateway implements commands.PaymentGateway on top of the Stripe API.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(cfg config.PaymentConfig) *StripeGateway {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		LeveledLogger:     slogLeveledLogger{},
		MaxNetworkRetries: stripe.Int64(2),
	}
	if cfg.BackendURL != "" {
		backendCfg.URL = stripe.String(strings.TrimRight(cfg.BackendURL, "/"))
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, backends)
	return &StripeGateway{api: api}
}

// EnsurePayerIdentity finds the gateway customer tagged with our customer id, creating it on first use.
func (g *StripeGateway) EnsurePayerIdentity(ctx context.Context, profile commands.PayerProfile) (string, error) {
	search := &stripe.CustomerSearchParams{}
	search.Context = ctx
	search.Query = fmt.Sprintf("metadata['%s']:'%s'", metadataCustomerID, profile.CustomerID.String())

	iter := g.api.Customers.Search(search)
	if iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", errs.Wrap(err, "failed to search payer")
	}

	params := &stripe.CustomerParams{}
	params.Context = ctx
	if profile.Email != "" {
		params.Email = stripe.String(profile.Email)
	}
	if profile.Name != "" {
		params.Name = stripe.String(profile.Name)
	}
	params.AddMetadata(metadataCustomerID, profile.CustomerID.String())
	params.SetIdempotencyKey("payer-" + profile.CustomerID.String())

	cus, err := g.api.Customers.New(params)
	if err != nil {
		return "", errs.Wrap(err, "failed to create payer")
	}
	return cus.ID, nil
}

func (g *StripeGateway) OpenIntent(ctx context.Context, p commands.OpenIntentParams) (*commands.OpenedIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount.Cents()),
		Currency: stripe.String(strings.ToLower(p.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if p.PayerID != "" {
		params.Customer = stripe.String(p.PayerID)
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, errs.Wrap(err, "failed to open payment intent")
	}
	if pi.ID == "" || pi.ClientSecret == "" {
		return nil, ErrIntentIncomplete
	}
	return &commands.OpenedIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) GetIntentStatus(ctx context.Context, intentID string) (*commands.IntentStatus, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, errs.Wrap(err, "failed to fetch payment intent")
	}
	return &commands.IntentStatus{
		Status:   string(pi.Status),
		Amount:   pi.Amount,
		Currency: string(pi.Currency),
	}, nil
}

// CancelIntent marks an unexpected-state rejection with commands.ErrIntentNotCancelable;
// the caller re-reads the intent to learn whether it settled or was already canceled.
func (g *StripeGateway) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	_, err := g.api.PaymentIntents.Cancel(intentID, params)
	if err == nil {
		return nil
	}
	var serr *stripe.Error
	if errs.As(err, &serr) && serr.Code == stripe.ErrorCodePaymentIntentUnexpectedState {
		slog.WarnContext(ctx, "payment intent not cancelable", "intent_id", intentID, "error", serr.Msg)
		return errs.Mark(errs.Wrap(err, "payment intent not cancelable"), commands.ErrIntentNotCancelable)
	}
	return errs.Wrap(err, "failed to cancel payment intent")
}

// slogLeveledLogger routes the client's own logging into slog.
type slogLeveledLogger struct{}

func (slogLeveledLogger) Debugf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (slogLeveledLogger) Infof(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (slogLeveledLogger) Warnf(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (slogLeveledLogger) Errorf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...), "component", "stripe")
}
