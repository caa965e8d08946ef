package repository

import "time"

// User is one row per (wallet_address, wallet_type) pair. The nonce column
// holds the single live login challenge; issuing a new nonce invalidates the
// previous one.
type User struct {
	ID            uint64     `gorm:"primaryKey"`
	WalletAddress string     `gorm:"size:64;uniqueIndex:idx_wallet_identity;not null"`
	WalletType    string     `gorm:"size:16;uniqueIndex:idx_wallet_identity;not null"`
	Nonce         string     `gorm:"size:64;not null"`
	CreatedAt     time.Time  `gorm:"not null"`
	LastLogin     *time.Time
	LoginCount    int        `gorm:"not null;default:0"`
}

type Tip struct {
	ID          uint64    `gorm:"primaryKey"`
	PostID      *int64    `gorm:"index"`
	FromAddress string    `gorm:"size:64;not null"`
	ToAddress   string    `gorm:"size:64;not null"`
	Amount      string    `gorm:"size:78;not null"` // decimal as string, no floating point
	Currency    string    `gorm:"size:16;not null"`
	Chain       string    `gorm:"size:16;not null"`
	TxHash      string    `gorm:"size:128;not null"`
	Verified    bool      `gorm:"not null;default:false;index"`
	CreatedAt   time.Time `gorm:"not null;index"`
}
