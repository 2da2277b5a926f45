package models

import (
	"time"

	"projectdb/workload"
)

// Dates are stored as YYYY-MM-DD keys rather than date columns so that no
// driver or session time zone can move a record to a neighbouring day.

type WorkloadPlan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_plan_tuple" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_plan_tuple" json:"project_id"`
	Project   Project   `gorm:"foreignKey:ProjectID" json:"-"`
	Date      string    `gorm:"not null;size:10;uniqueIndex:idx_plan_tuple;index" json:"date"`
}

func (p *WorkloadPlan) Engine() workload.Plan {
	return workload.Plan{
		ID:        p.ID,
		UserID:    p.UserID,
		ProjectID: p.ProjectID,
		Date:      p.Date,
		CreatedAt: p.CreatedAt,
	}
}

func (p *WorkloadPlan) Tuple() workload.TupleKey {
	return workload.TupleKey{UserID: p.UserID, ProjectID: p.ProjectID, Date: p.Date}
}

type WorkloadActual struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_actual_tuple" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	ProjectID   uint      `gorm:"not null;uniqueIndex:idx_actual_tuple" json:"project_id"`
	Project     Project   `gorm:"foreignKey:ProjectID" json:"-"`
	Date        string    `gorm:"not null;size:10;uniqueIndex:idx_actual_tuple;index" json:"date"`
	HoursWorked float64   `gorm:"not null" json:"hours_worked"`
	UserText    string    `gorm:"not null;size:1000" json:"user_text"`
}

func (a *WorkloadActual) Engine() workload.Actual {
	return workload.Actual{
		ID:          a.ID,
		UserID:      a.UserID,
		ProjectID:   a.ProjectID,
		Date:        a.Date,
		HoursWorked: a.HoursWorked,
		UserText:    a.UserText,
		CreatedAt:   a.CreatedAt,
	}
}

func (a *WorkloadActual) Tuple() workload.TupleKey {
	return workload.TupleKey{UserID: a.UserID, ProjectID: a.ProjectID, Date: a.Date}
}
