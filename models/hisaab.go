package models

import "time"

const (
	// DefaultDescription is stored when the form leaves description empty.
	DefaultDescription = "No description provided"
	// DefaultPasscode is the sentinel stored when no passcode is given.
	DefaultPasscode = "none"
)

// Hisaab is a single ledger entry belonging to a user.
// Amount is kept as submitted; it is not required to be numeric.
type Hisaab struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UserID      uint      `gorm:"index;not null" json:"-"`
	Date        time.Time `gorm:"not null" json:"date"`
	Amount      string    `gorm:"type:text;not null" json:"amount"`
	Description string    `gorm:"type:text" json:"description"`
	Encrypt     bool      `gorm:"default:false;not null" json:"encrypt"`
	Passcode    string    `gorm:"type:text" json:"passcode"`
}
