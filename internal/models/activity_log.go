package models

import "time"

// ActivityLog: Kim ne yaptı kaydı. İş akışının parçası değildir; yazılamazsa
// işlem yine de başarılı sayılır (bkz. activity.Log).
type ActivityLog struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index;not null"`
	User      User
	Action    string    `gorm:"size:255;not null"`
	Details   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}
