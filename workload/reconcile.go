package workload

import (
	"sort"
	"time"
)

// Plan is an intention for a user to work on a project on a date.
type Plan struct {
	ID        uint
	UserID    uint
	ProjectID uint
	Date      string
	CreatedAt time.Time
}

// Actual is a report of work performed by a user on a project on a date.
type Actual struct {
	ID          uint
	UserID      uint
	ProjectID   uint
	Date        string
	HoursWorked float64
	UserText    string
	CreatedAt   time.Time
}

// Unified merges the plan and actual sharing a (user, project, date) tuple.
// At least one side is present for every value Reconcile returns.
type Unified struct {
	UserID          uint       `json:"user_id"`
	ProjectID       uint       `json:"project_id"`
	Date            string     `json:"date"`
	PlanID          *uint      `json:"plan_id,omitempty"`
	ActualID        *uint      `json:"actual_id,omitempty"`
	HoursWorked     *float64   `json:"hours_worked,omitempty"`
	UserText        *string    `json:"user_text,omitempty"`
	PlanCreatedAt   *time.Time `json:"plan_created_at,omitempty"`
	ActualCreatedAt *time.Time `json:"actual_created_at,omitempty"`
}

func (u Unified) HasPlan() bool   { return u.PlanID != nil }
func (u Unified) HasActual() bool { return u.ActualID != nil }

type TupleKey struct {
	UserID    uint
	ProjectID uint
	Date      string
}

func (u Unified) Tuple() TupleKey {
	return TupleKey{UserID: u.UserID, ProjectID: u.ProjectID, Date: u.Date}
}

// Reconcile joins plans and actuals by (user, project, date). Output order is
// the order in which each tuple was first seen. If the at-most-one invariant is
// violated upstream the later record of a kind overwrites the earlier one.
func Reconcile(plans []Plan, actuals []Actual) []Unified {
	index := make(map[TupleKey]int, len(plans)+len(actuals))
	out := make([]Unified, 0, len(plans)+len(actuals))

	entry := func(k TupleKey) *Unified {
		if i, ok := index[k]; ok {
			return &out[i]
		}
		index[k] = len(out)
		out = append(out, Unified{UserID: k.UserID, ProjectID: k.ProjectID, Date: k.Date})
		return &out[len(out)-1]
	}

	for _, p := range plans {
		u := entry(TupleKey{UserID: p.UserID, ProjectID: p.ProjectID, Date: p.Date})
		id, createdAt := p.ID, p.CreatedAt
		u.PlanID = &id
		u.PlanCreatedAt = &createdAt
	}
	for _, a := range actuals {
		u := entry(TupleKey{UserID: a.UserID, ProjectID: a.ProjectID, Date: a.Date})
		id, hours, text, createdAt := a.ID, a.HoursWorked, a.UserText, a.CreatedAt
		u.ActualID = &id
		u.HoursWorked = &hours
		u.UserText = &text
		u.ActualCreatedAt = &createdAt
	}
	return out
}

// GroupByDate buckets reconciled records by their date key.
func GroupByDate(unified []Unified) map[string][]Unified {
	out := make(map[string][]Unified)
	for _, u := range unified {
		out[u.Date] = append(out[u.Date], u)
	}
	return out
}

// SortUnified orders records by employee display name, then project name,
// then date. Missing names sort by id.
func SortUnified(unified []Unified, userNames, projectNames map[uint]string) {
	sort.SliceStable(unified, func(i, j int) bool {
		a, b := unified[i], unified[j]
		if an, bn := userNames[a.UserID], userNames[b.UserID]; an != bn {
			return an < bn
		}
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if an, bn := projectNames[a.ProjectID], projectNames[b.ProjectID]; an != bn {
			return an < bn
		}
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		return a.Date < b.Date
	})
}
