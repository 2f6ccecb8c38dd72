// internal/billing/billing.go
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"creditpix-back/internal/models"
)

// ErrUnknownBundle is returned when the requested bundle size is not offered.
var ErrUnknownBundle = errors.New("unknown credit bundle")

// Bundle is a fixed credit package at a fixed price.
type Bundle struct {
	Credits    int    `json:"credits"`
	PriceCents int    `json:"price_cents"`
	Currency   string `json:"currency"`
}

// Bundles are the offered packages, smallest first.
var Bundles = []Bundle{
	{Credits: 10, PriceCents: 999, Currency: "EUR"},
	{Credits: 25, PriceCents: 1999, Currency: "EUR"},
	{Credits: 50, PriceCents: 3499, Currency: "EUR"},
	{Credits: 100, PriceCents: 5999, Currency: "EUR"},
}

// Accounts is the slice of the session provider billing needs: read the
// authoritative balance, persist the new one.
type Accounts interface {
	Profile(ctx context.Context, userID uint) (*models.User, error)
	UpdateCredits(ctx context.Context, userID uint, newBalance int) error
}

// Service sells credit bundles. Payment is simulated with a fixed delay; no
// money moves anywhere.
type Service struct {
	accounts     Accounts
	paymentDelay time.Duration
	logger       *slog.Logger
}

func NewService(accounts Accounts, paymentDelay time.Duration, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, paymentDelay: paymentDelay, logger: logger}
}

// Purchase credits a bundle onto the user's balance after the simulated
// payment completes. Returns the new balance.
func (s *Service) Purchase(ctx context.Context, userID uint, bundleCredits int) (int, error) {
	bundle, ok := findBundle(bundleCredits)
	if !ok {
		return 0, fmt.Errorf("%w: %d credits", ErrUnknownBundle, bundleCredits)
	}

	// Simulated payment round trip.
	select {
	case <-time.After(s.paymentDelay):
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	user, err := s.accounts.Profile(ctx, userID)
	if err != nil {
		return 0, err
	}

	newBalance := user.Credits + bundle.Credits
	if err := s.accounts.UpdateCredits(ctx, userID, newBalance); err != nil {
		return 0, err
	}

	s.logger.Info("credits purchased",
		"user_id", userID,
		"credits", bundle.Credits,
		"price_cents", bundle.PriceCents,
		"balance", newBalance,
	)
	return newBalance, nil
}

func findBundle(credits int) (Bundle, bool) {
	for _, b := range Bundles {
		if b.Credits == credits {
			return b, true
		}
	}
	return Bundle{}, false
}
