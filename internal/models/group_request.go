package models

import "time"

// RequestStatus represents the state of a join request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
)

// GroupRequest represents a user's request to join a group.
// The partial unique index enforces at most one PENDING request
// per (group, user) pair at the database level.
type GroupRequest struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;uniqueIndex:idx_group_requests_pending,where:status = 'PENDING'" json:"userId"`
	GroupID   uint          `gorm:"not null;uniqueIndex:idx_group_requests_pending,where:status = 'PENDING'" json:"groupId"`
	Status    RequestStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Relations
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

// TableName specifies the table name for GroupRequest model
func (GroupRequest) TableName() string {
	return "group_requests"
}
