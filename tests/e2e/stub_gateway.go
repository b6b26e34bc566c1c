//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"sync"

	"slot-reservation-engine/internal/usecase/commands"
)

// StubGateway is an in-memory payment gateway. Intents open as requires_payment_method
// until Settle is called.
type StubGateway struct {
	mu        sync.Mutex
	seq       int
	intents   map[string]*commands.IntentStatus
	cancelled map[string]bool
}

func NewStubGateway() *StubGateway {
	g := &StubGateway{}
	g.Reset()
	return g
}

func (g *StubGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents = map[string]*commands.IntentStatus{}
	g.cancelled = map[string]bool{}
}

func (g *StubGateway) EnsurePayerIdentity(_ context.Context, profile commands.PayerProfile) (string, error) {
	return "cus_" + profile.CustomerID.String()[:8], nil
}

func (g *StubGateway) OpenIntent(_ context.Context, params commands.OpenIntentParams) (*commands.OpenedIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("pi_stub_%d", g.seq)
	g.intents[id] = &commands.IntentStatus{
		Status:   "requires_payment_method",
		Amount:   params.Amount.Cents(),
		Currency: params.Currency,
	}
	return &commands.OpenedIntent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (g *StubGateway) GetIntentStatus(_ context.Context, intentID string) (*commands.IntentStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("no such intent: %s", intentID)
	}
	cp := *st
	return &cp, nil
}

func (g *StubGateway) CancelIntent(_ context.Context, intentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.intents[intentID]
	if ok && st.Status == commands.IntentStatusSucceeded {
		return commands.ErrIntentNotCancelable
	}
	g.cancelled[intentID] = true
	if ok {
		st.Status = commands.IntentStatusCanceled
	}
	return nil
}

// Settle marks the intent as paid. A non-zero amount overrides the captured amount.
func (g *StubGateway) Settle(intentID string, amount int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.intents[intentID]
	if !ok {
		return
	}
	st.Status = commands.IntentStatusSucceeded
	if amount != 0 {
		st.Amount = amount
	}
}

func (g *StubGateway) Cancelled(intentID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelled[intentID]
}
