package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleStoreAdmin UserRole = "store_admin"
	RoleStoreUser  UserRole = "store_user"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	StoreID      *uint
	Store        *Store
	Username     string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	FullName     string   `gorm:"size:100"`
	Email        string   `gorm:"size:100"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
