// Package economy provides the player's wallet, the price list, and the
// weapon upgrade track. Every purchase debits atomically with the action it
// pays for: if the action fails, nothing is spent.
package economy

import (
	"errors"
	"fmt"
)

// Errors returned by economy operations.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMaxLevelReached   = errors.New("max level reached")
	ErrNoSeeds           = errors.New("no seeds")
)

// Prices lists what each purchase costs, in wheat.
type Prices struct {
	Seed          int `json:"seed"`
	Land          int `json:"land"`
	Structure     int `json:"structure"`
	WeaponUpgrade int `json:"weapon_upgrade"`
}

// DefaultPrices returns the standard shop prices.
func DefaultPrices() Prices {
	return Prices{
		Seed:          1,
		Land:          5,
		Structure:     50,
		WeaponUpgrade: 200,
	}
}

// Wallet is the player's economic state.
type Wallet struct {
	Balance     int `json:"balance"`      // Wheat; never negative
	Seeds       int `json:"seeds"`        // Seeds in hand
	WeaponLevel int `json:"weapon_level"` // Index into the weapon table

	prices Prices
}

// NewWallet creates a wallet with a starting balance and seed count.
func NewWallet(prices Prices, balance, seeds int) *Wallet {
	return &Wallet{
		Balance: max(balance, 0),
		Seeds:   max(seeds, 0),
		prices:  prices,
	}
}

// Prices returns the wallet's price list.
func (w *Wallet) Prices() Prices {
	return w.prices
}

// CanAfford reports whether the balance covers cost.
func (w *Wallet) CanAfford(cost int) bool {
	return cost <= w.Balance
}

// Spend runs apply and debits cost only if it succeeds. With an
// insufficient balance apply is never called.
func (w *Wallet) Spend(cost int, apply func() error) error {
	if cost < 0 {
		return fmt.Errorf("spend: negative cost %d", cost)
	}
	if !w.CanAfford(cost) {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, cost, w.Balance)
	}
	if apply != nil {
		if err := apply(); err != nil {
			return err
		}
	}
	w.Balance -= cost
	return nil
}

// Credit adds a payout. Non-positive amounts are ignored.
func (w *Wallet) Credit(amount int) {
	if amount > 0 {
		w.Balance += amount
	}
}

// BuySeed trades wheat for one seed.
func (w *Wallet) BuySeed() error {
	return w.Spend(w.prices.Seed, func() error {
		w.Seeds++
		return nil
	})
}

// TakeSeed consumes one seed together with the planting action.
func (w *Wallet) TakeSeed(apply func() error) error {
	if w.Seeds <= 0 {
		return ErrNoSeeds
	}
	if apply != nil {
		if err := apply(); err != nil {
			return err
		}
	}
	w.Seeds--
	return nil
}
