package models

import (
	"time"

	"projectdb/workload"

	"gorm.io/gorm"
)

type User struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	DeletedAt          gorm.DeletedAt   `gorm:"index" json:"-"`
	Username           string           `gorm:"uniqueIndex;not null;size:100" json:"username"`
	FullName           string           `gorm:"not null;size:200" json:"full_name"`
	PasswordHash       string           `gorm:"not null" json:"-"`
	Role               workload.Role    `gorm:"not null;size:20" json:"role"`
	MustChangePassword bool             `gorm:"default:true" json:"must_change_password"`
	WorkloadPlans      []WorkloadPlan   `gorm:"foreignKey:UserID" json:"-"`
	WorkloadActuals    []WorkloadActual `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) IsPrivileged() bool {
	return workload.IsPrivileged(u.Role)
}

// Viewer is the identity the editability policy evaluates.
func (u *User) Viewer() workload.Viewer {
	return workload.Viewer{ID: u.ID, Role: u.Role}
}
