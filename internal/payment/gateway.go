package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrDeclined means the gateway refused to capture funds.
	ErrDeclined = errors.New("payment declined")
	// ErrAmountMismatch means the settled amount differs from the
	// server-computed order total. This check is ours, not the
	// gateway's.
	ErrAmountMismatch = errors.New("settled amount does not match order total")
)

// Settlement is the gateway's confirmation of captured funds.
type Settlement struct {
	TransactionID string
	Amount        float64
}

// Gateway is the contract with an external payment provider. The
// amount passed to Settle is always computed server-side from the
// order items.
type Gateway interface {
	ClientToken(ctx context.Context) (string, error)
	Settle(ctx context.Context, amount float64, nonce string) (Settlement, error)
}

// FakeGateway settles everything locally, used for dev and tests.
// DeclineAll simulates a refusing provider; SkimAmount shaves the
// confirmed amount to exercise the tamper check.
type FakeGateway struct {
	DeclineAll bool
	SkimAmount float64
}

func (g *FakeGateway) ClientToken(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (g *FakeGateway) Settle(ctx context.Context, amount float64, nonce string) (Settlement, error) {
	if g.DeclineAll || nonce == "" {
		return Settlement{}, ErrDeclined
	}
	return Settlement{
		TransactionID: uuid.NewString(),
		Amount:        amount - g.SkimAmount,
	}, nil
}
