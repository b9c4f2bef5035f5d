package wallet

import (
	"errors"
	"time"
)

var ErrInvalidAmount = errors.New("invalid diamond amount")

// Wallet holds a user's diamond balance.
type Wallet struct {
	UserID    string    `json:"user_id"`
	Diamonds  int64     `json:"diamonds"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Wallet) Credit(amount int64, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	w.Diamonds += amount
	w.UpdatedAt = now
	return nil
}
