package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name              string     `json:"name" binding:"required"`
	Email             string     `json:"email" gorm:"uniqueIndex" binding:"required,email"`
	Phone             string     `json:"phone"`
	Address           string     `json:"address"`
	Password          string     `json:"password" binding:"required,min=8"`
	Role              string     `json:"role"`
	IsVerified        bool       `json:"isVerified"`
	VerificationToken string     `json:"-"`
	ResetToken        string     `json:"-"`
	ResetTokenExpiry  *time.Time `json:"-"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
