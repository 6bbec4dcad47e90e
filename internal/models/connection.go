package models

import (
	"time"

	"gorm.io/gorm"
)

// ConnectionStatus represents the status of a connection between two users.
type ConnectionStatus string

const (
	// ConnectionStatusPending indicates a connection request awaiting a response.
	ConnectionStatusPending ConnectionStatus = "pending"
	// ConnectionStatusAccepted indicates an accepted connection.
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	// ConnectionStatusDeclined indicates a declined connection request.
	ConnectionStatusDeclined ConnectionStatus = "declined"
	// ConnectionStatusBlocked indicates one side blocked the other.
	ConnectionStatusBlocked ConnectionStatus = "blocked"
)

// Connection is an undirected relationship between two users. Direction is
// preserved via RequesterID to distinguish sent vs received requests. The pair
// is stored canonically in UserLowID/UserHighID so the unique index holds
// regardless of which side initiated: at most one row per unordered user pair.
type Connection struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	UserLowID   uint             `gorm:"not null;uniqueIndex:idx_connection_pair" json:"-"`
	UserHighID  uint             `gorm:"not null;uniqueIndex:idx_connection_pair" json:"-"`
	RequesterID uint             `gorm:"not null;index" json:"requester_id"`
	AddresseeID uint             `gorm:"not null;index" json:"addressee_id"`
	Status      ConnectionStatus `gorm:"type:varchar(20);default:'pending';index:idx_connections_status" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relationships
	Requester User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Addressee User `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
}

// BeforeSave keeps the canonical pair columns in sync with the directed pair.
func (c *Connection) BeforeSave(*gorm.DB) error {
	if c.RequesterID < c.AddresseeID {
		c.UserLowID, c.UserHighID = c.RequesterID, c.AddresseeID
	} else {
		c.UserLowID, c.UserHighID = c.AddresseeID, c.RequesterID
	}
	return nil
}

// TableName specifies the table name for GORM
func (Connection) TableName() string {
	return "connections"
}
