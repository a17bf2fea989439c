package economy

import "fmt"

// Weapon tiers, weakest first.
var (
	weaponDamage = [...]int{1, 3, 6, 10, 25}
	weaponNames  = [...]string{"Wood", "Stone", "Iron", "Diamond", "Netherite"}
)

// MaxWeaponLevel is the highest upgrade level.
const MaxWeaponLevel = len(weaponDamage) - 1

// WeaponDamage returns the damage dealt per hit at the given level.
func WeaponDamage(level int) int {
	if level < 0 {
		level = 0
	}
	if level > MaxWeaponLevel {
		level = MaxWeaponLevel
	}
	return weaponDamage[level]
}

// WeaponName returns the display name for a level.
func WeaponName(level int) string {
	if level < 0 || level > MaxWeaponLevel {
		return "Unknown"
	}
	return weaponNames[level]
}

// WeaponDamage returns the damage of the player's current weapon.
func (w *Wallet) WeaponDamage() int {
	return WeaponDamage(w.WeaponLevel)
}

// UpgradeWeapon buys the next weapon tier.
func (w *Wallet) UpgradeWeapon() error {
	if w.WeaponLevel >= MaxWeaponLevel {
		return fmt.Errorf("%w: %s is the best weapon", ErrMaxLevelReached, WeaponName(w.WeaponLevel))
	}
	return w.Spend(w.prices.WeaponUpgrade, func() error {
		w.WeaponLevel++
		return nil
	})
}
