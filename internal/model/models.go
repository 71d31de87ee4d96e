package model

import (
	"time"
)

// Organization 餐厅集团 / 商户
type Organization struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location 门店
type Location struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StaffAssignment 服务员在某门店的任职，收款地址挂在这里
// 收款地址只从这里读，绝不信任客户端提交的地址
type StaffAssignment struct {
	ID                  uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID      uint64    `gorm:"not null;index" json:"organization_id"`
	LocationID          uint64    `gorm:"not null;index" json:"location_id"`
	ServerID            uint64    `gorm:"not null;index" json:"server_id"`
	ServerDisplayName   string    `gorm:"type:varchar(255);not null" json:"server_display_name"`
	ServerEmail         string    `gorm:"type:varchar(255)" json:"server_email"`
	PayoutWalletAddress string    `gorm:"type:varchar(42)" json:"payout_wallet_address"`
	IsActive            bool      `gorm:"not null" json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// QRCode 桌卡二维码，code 为公开标识
type QRCode struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Code         string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	AssignmentID uint64    `gorm:"not null;index" json:"assignment_id"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OutboxMessage 本地消息表 (Transactional Outbox)
type OutboxMessage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"event_id"`
	Topic     string    `gorm:"type:varchar(255);not null" json:"topic"`
	Key       string    `gorm:"type:varchar(255)" json:"key"` // Kafka 分区键 (tx_hash)
	Payload   []byte    `gorm:"type:text;not null" json:"payload"`
	Status    string    `gorm:"type:varchar(50);not null;default:'PENDING';index" json:"status"` // PENDING, SENT, FAILED
	Attempts  int       `gorm:"not null;default:0" json:"attempts"`
	LastError string    `gorm:"type:text" json:"last_error"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

func (Location) TableName() string {
	return "locations"
}

func (StaffAssignment) TableName() string {
	return "staff_assignments"
}

func (QRCode) TableName() string {
	return "qr_codes"
}

func (OutboxMessage) TableName() string {
	return "outbox_messages"
}
