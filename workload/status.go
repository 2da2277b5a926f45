package workload

import "errors"

type Status string

const (
	StatusCompleted Status = "completed"
	StatusMissing   Status = "missing"
	StatusOvertime  Status = "overtime"
	StatusPlanned   Status = "planned"
)

// ErrEmptyWorkload flags a record with neither a plan nor an actual.
// Reconcile never produces one.
var ErrEmptyWorkload = errors.New("workload has neither plan nor actual")

// Classify derives a status from plan/actual presence alone.
func Classify(u Unified) Status {
	switch {
	case u.HasPlan() && u.HasActual():
		return StatusCompleted
	case u.HasPlan():
		return StatusMissing
	case u.HasActual():
		return StatusOvertime
	default:
		// Unreachable for reconciled records.
		return StatusPlanned
	}
}

// ClassifyChecked is Classify that reports the empty record instead of
// mapping it to StatusPlanned.
func ClassifyChecked(u Unified) (Status, error) {
	if !u.HasPlan() && !u.HasActual() {
		return "", ErrEmptyWorkload
	}
	return Classify(u), nil
}

type Summary struct {
	Completed  int     `json:"completed"`
	Missing    int     `json:"missing"`
	Overtime   int     `json:"overtime"`
	Planned    int     `json:"planned"`
	TotalHours float64 `json:"total_hours"`
}

func Summarize(unified []Unified) Summary {
	var s Summary
	for _, u := range unified {
		switch Classify(u) {
		case StatusCompleted:
			s.Completed++
		case StatusMissing:
			s.Missing++
		case StatusOvertime:
			s.Overtime++
		case StatusPlanned:
			s.Planned++
		}
		if u.HoursWorked != nil {
			s.TotalHours += *u.HoursWorked
		}
	}
	return s
}

// Filter keeps the records whose status is one of statuses.
func Filter(unified []Unified, statuses ...Status) []Unified {
	want := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []Unified
	for _, u := range unified {
		if want[Classify(u)] {
			out = append(out, u)
		}
	}
	return out
}
