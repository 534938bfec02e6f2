package models

import (
	"time"

	"gorm.io/gorm"
)

// Group represents a game table run by a master.
// The master is always present in the Players set.
type Group struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"size:500;not null" json:"description"`
	Schedule    string         `gorm:"size:100;not null" json:"schedule"`
	Location    string         `gorm:"size:100;not null" json:"location"`
	Chronicle   string         `gorm:"size:500;not null" json:"chronicle"`
	Master      uint           `gorm:"index;not null" json:"master"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	MasterUser *User  `gorm:"foreignKey:Master" json:"masterUser,omitempty"`
	Players    []User `gorm:"many2many:groups_users" json:"players,omitempty"`
}

// TableName specifies the table name for Group model
func (Group) TableName() string {
	return "groups"
}
