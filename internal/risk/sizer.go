package risk

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"sync"

	"go.uber.org/zap"

	"MarketConfluence/internal/model"
)

// Sizer turns a plan's entry and stop into a position that risks a fixed share of the account.
type Sizer struct {
	mu       sync.Mutex
	account  *Account
	filePath string
	log      *zap.Logger
}

// NewSizer creates a Sizer. When filePath is set the account is loaded from it and
// balance changes are written back; a fresh file is seeded with balance and riskPct.
// A stored balance, zero included, wins over balance.
func NewSizer(filePath string, balance, riskPct float64, log *zap.Logger) (*Sizer, error) {
	if riskPct <= 0 || riskPct > 100 {
		return nil, fmt.Errorf("risk percent must be within (0,100], got %.2f", riskPct)
	}
	if balance < 0 {
		return nil, fmt.Errorf("balance must be non-negative, got %.2f", balance)
	}

	acc := &Account{Balance: balance, RiskPct: riskPct}
	if filePath != "" {
		loaded, err := LoadAccount(filePath)
		switch {
		case err == nil:
			acc = loaded
			if acc.RiskPct <= 0 || acc.RiskPct > 100 {
				acc.RiskPct = riskPct
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("load account: %w", err)
		}
	}

	s := &Sizer{account: acc, filePath: filePath, log: log}
	if err := s.save(acc); err != nil {
		return nil, err
	}
	return s, nil
}

// Account returns a copy of the current account.
func (s *Sizer) Account() Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.account
}

// Enabled reports whether there is a balance to size against.
func (s *Sizer) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.Balance > 0
}

// SetBalance replaces the account balance.
func (s *Sizer) SetBalance(balance float64) error {
	if balance < 0 || math.IsNaN(balance) || math.IsInf(balance, 0) {
		return fmt.Errorf("invalid balance %v", balance)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.account
	next.Balance = balance
	if err := s.save(&next); err != nil {
		s.log.Error("failed to save account", zap.Error(err))
		return err
	}
	s.account = &next
	return nil
}

// Size computes the quantity risking RiskPct of the balance between entry and stop.
// The position is capped so its notional never exceeds the balance.
func (s *Sizer) Size(entry, stop float64) (*model.PositionSize, error) {
	s.mu.Lock()
	acc := *s.account
	s.mu.Unlock()

	switch {
	case acc.Balance <= 0:
		return nil, fmt.Errorf("account balance must be positive, got %.2f", acc.Balance)
	case entry <= 0 || stop <= 0:
		return nil, fmt.Errorf("entry and stop must be positive, got %.4f/%.4f", entry, stop)
	case entry == stop:
		return nil, fmt.Errorf("entry and stop are both %.4f", entry)
	}

	distance := math.Abs(entry - stop)
	riskAmount := acc.Balance * acc.RiskPct / 100
	qty := riskAmount / distance

	// Cap to available balance
	if qty*entry > acc.Balance {
		qty = acc.Balance / entry
		riskAmount = qty * distance
	}

	return &model.PositionSize{
		Balance:    acc.Balance,
		RiskPct:    acc.RiskPct,
		RiskAmount: riskAmount,
		Entry:      entry,
		Stop:       stop,
		Quantity:   qty,
		Notional:   qty * entry,
	}, nil
}

func (s *Sizer) save(acc *Account) error {
	if s.filePath == "" {
		return nil
	}
	return SaveAccount(s.filePath, acc)
}
