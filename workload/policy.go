package workload

import (
	"errors"
	"fmt"
)

var ErrActionDenied = errors.New("action denied")

type Action string

const (
	ActionCreatePlan   Action = "create_plan"
	ActionEditPlan     Action = "edit_plan"
	ActionDeletePlan   Action = "delete_plan"
	ActionCreateActual Action = "create_actual"
	ActionEditActual   Action = "edit_actual"
	ActionDeleteActual Action = "delete_actual"
)

func (a Action) onPlan() bool {
	return a == ActionCreatePlan || a == ActionEditPlan || a == ActionDeletePlan
}

// Viewer is the identity requesting or evaluating a mutation.
type Viewer struct {
	ID   uint
	Role Role
}

func (v Viewer) Privileged() bool {
	return IsPrivileged(v.Role)
}

// Policy decides which plan/actual mutations a viewer may perform.
//
// Privileged viewers may act on any record on any date. Everyone else may only
// act on their own records: plans strictly after today, actuals today or later.
// Deleting follows the same rule as editing.
type Policy struct {
	codec *DateCodec
}

func NewPolicy(codec *DateCodec) *Policy {
	return &Policy{codec: codec}
}

func (p *Policy) Allowed(v Viewer, action Action, userID uint, date string) bool {
	if v.Privileged() {
		return true
	}
	if v.ID == 0 || v.ID != userID {
		return false
	}
	if action.onPlan() {
		return p.codec.IsFuture(date)
	}
	return !p.codec.IsPast(date)
}

// Authorize is Allowed reported as an error wrapping ErrActionDenied.
func (p *Policy) Authorize(v Viewer, action Action, userID uint, date string) error {
	if p.Allowed(v, action, userID, date) {
		return nil
	}
	return fmt.Errorf("%w: %s for user %d on %s", ErrActionDenied, action, userID, date)
}

func (p *Policy) CanCreatePlan(v Viewer, targetUserID uint, date string) bool {
	return p.Allowed(v, ActionCreatePlan, targetUserID, date)
}

func (p *Policy) CanEditOrDeletePlan(v Viewer, plan Plan) bool {
	return p.Allowed(v, ActionEditPlan, plan.UserID, plan.Date)
}

func (p *Policy) CanCreateActual(v Viewer, targetUserID uint, date string) bool {
	return p.Allowed(v, ActionCreateActual, targetUserID, date)
}

func (p *Policy) CanEditOrDeleteActual(v Viewer, actual Actual) bool {
	return p.Allowed(v, ActionEditActual, actual.UserID, actual.Date)
}

// AuthorizeMove checks an edit that may change a record's owner or date: the
// viewer must be allowed to edit the record as it is and to create it where it
// is going.
func (p *Policy) AuthorizeMove(v Viewer, edit, create Action, from, to TupleKey) error {
	if err := p.Authorize(v, edit, from.UserID, from.Date); err != nil {
		return err
	}
	if from.UserID != to.UserID && !v.Privileged() {
		return fmt.Errorf("%w: reassigning user %d to %d", ErrActionDenied, from.UserID, to.UserID)
	}
	if from == to {
		return nil
	}
	return p.Authorize(v, create, to.UserID, to.Date)
}

// RecordPermissions is the set of mutations a viewer may offer for one
// reconciled record.
type RecordPermissions struct {
	CanCreatePlan   bool `json:"can_create_plan"`
	CanEditPlan     bool `json:"can_edit_plan"`
	CanCreateActual bool `json:"can_create_actual"`
	CanEditActual   bool `json:"can_edit_actual"`
}

func (p *Policy) Permissions(v Viewer, u Unified) RecordPermissions {
	planAllowed := p.Allowed(v, ActionEditPlan, u.UserID, u.Date)
	actualAllowed := p.Allowed(v, ActionEditActual, u.UserID, u.Date)
	return RecordPermissions{
		CanCreatePlan:   !u.HasPlan() && planAllowed,
		CanEditPlan:     u.HasPlan() && planAllowed,
		CanCreateActual: !u.HasActual() && actualAllowed,
		CanEditActual:   u.HasActual() && actualAllowed,
	}
}
