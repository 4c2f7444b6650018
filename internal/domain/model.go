package domain

import "time"

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListParams holds the caller-supplied listing parameters after HTTP binding.
// TenantID is set only for tenant-scoped listings.
type ListParams struct {
	Keyword  string
	Order    Order
	Limit    int
	Page     int
	TenantID *uint
}
