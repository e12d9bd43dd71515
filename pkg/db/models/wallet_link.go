package models

import (
	"time"

	"github.com/google/uuid"
)

// WalletLink records an external wallet address linked to a user account.
// One link per user may be primary; the primary link is the wallet of record
// for collection creation and minting.
type WalletLink struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Address   string    `gorm:"column:address;not null;uniqueIndex"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	LinkedAt  time.Time `gorm:"column:linked_at;autoCreateTime"`
}
