package models

import (
	"time"
)

// User model. Hisaabs are kept in insertion order (ascending ID).
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Username  string    `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Password  []byte    `gorm:"not null" json:"-"` // bcrypt hash
	Name      string    `gorm:"type:text" json:"name"`
	Image     string    `gorm:"type:text" json:"image,omitempty"`
	Hisaabs   []Hisaab  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"hisaabs"`
}

// DisplayName falls back to "User" when no name was given at signup.
func (u *User) DisplayName() string {
	if u.Name == "" {
		return "User"
	}
	return u.Name
}

// FindHisaab returns the entry with the given id from the loaded list.
func (u *User) FindHisaab(id uint) (*Hisaab, bool) {
	for i := range u.Hisaabs {
		if u.Hisaabs[i].ID == id {
			return &u.Hisaabs[i], true
		}
	}
	return nil, false
}
