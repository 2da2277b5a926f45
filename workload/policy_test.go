package workload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	yesterday = "2024-03-14"
	today     = "2024-03-15"
	tomorrow  = "2024-03-16"
)

func newPolicy() *Policy {
	// Late afternoon so a time-of-day leak would be visible.
	now := time.Date(2024, time.March, 15, 16, 30, 0, 0, time.UTC)
	return NewPolicy(NewDateCodec(time.UTC, FixedClock(now)))
}

var (
	employee = Viewer{ID: 1, Role: RoleEmployee}
	manager  = Viewer{ID: 50, Role: RoleManager}
	admin    = Viewer{ID: 99, Role: RoleAdmin}
)

func TestPolicy_PlanCreationScenario(t *testing.T) {
	p := newPolicy()

	assert.False(t, p.CanCreatePlan(employee, 1, yesterday))
	assert.True(t, p.CanCreatePlan(employee, 1, tomorrow))
	assert.True(t, p.CanCreatePlan(manager, 1, yesterday))
}

func TestPolicy_EmployeeRules(t *testing.T) {
	p := newPolicy()

	cases := []struct {
		action Action
		date   string
		want   bool
	}{
		{ActionCreatePlan, yesterday, false},
		{ActionCreatePlan, today, false},
		{ActionCreatePlan, tomorrow, true},
		{ActionEditPlan, today, false},
		{ActionEditPlan, tomorrow, true},
		{ActionDeletePlan, today, false},
		{ActionDeletePlan, tomorrow, true},
		{ActionCreateActual, yesterday, false},
		{ActionCreateActual, today, true},
		{ActionCreateActual, tomorrow, true},
		{ActionEditActual, yesterday, false},
		{ActionEditActual, today, true},
		{ActionDeleteActual, yesterday, false},
		{ActionDeleteActual, today, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.Allowed(employee, tc.action, employee.ID, tc.date), "%s on %s", tc.action, tc.date)
	}
}

func TestPolicy_EmployeeCannotActForOthers(t *testing.T) {
	p := newPolicy()

	for _, action := range []Action{ActionCreatePlan, ActionEditPlan, ActionDeletePlan, ActionCreateActual, ActionEditActual, ActionDeleteActual} {
		assert.False(t, p.Allowed(employee, action, 2, tomorrow), action)
	}
	assert.False(t, p.CanEditOrDeletePlan(employee, Plan{UserID: 2, Date: tomorrow}))
	assert.False(t, p.CanEditOrDeleteActual(employee, Actual{UserID: 2, Date: today}))
	assert.True(t, p.CanEditOrDeleteActual(employee, Actual{UserID: 1, Date: today}))
}

func TestPolicy_PrivilegedMayCorrectThePast(t *testing.T) {
	p := newPolicy()

	for _, v := range []Viewer{manager, admin} {
		assert.True(t, p.CanEditOrDeletePlan(v, Plan{UserID: 1, Date: "2020-01-01"}))
		assert.True(t, p.CanCreateActual(v, 1, yesterday))
		assert.True(t, p.CanEditOrDeleteActual(v, Actual{UserID: 7, Date: "2020-01-01"}))
	}
}

func TestPolicy_UnknownRoleIsNotPrivileged(t *testing.T) {
	p := newPolicy()
	rogue := Viewer{ID: 5, Role: Role("Superuser")}

	assert.False(t, p.CanCreatePlan(rogue, 1, tomorrow))
	assert.False(t, p.CanCreateActual(rogue, 5, yesterday))
	assert.True(t, p.CanCreateActual(rogue, 5, today), "falls back to owner rules")
}

func TestPolicy_AnonymousViewerDenied(t *testing.T) {
	p := newPolicy()
	assert.False(t, p.CanCreateActual(Viewer{Role: RoleEmployee}, 0, tomorrow))
}

func TestPolicy_Authorize(t *testing.T) {
	p := newPolicy()

	require.NoError(t, p.Authorize(employee, ActionCreateActual, 1, today))
	err := p.Authorize(employee, ActionCreatePlan, 1, today)
	assert.ErrorIs(t, err, ErrActionDenied)
}

func TestPolicy_AuthorizeMove(t *testing.T) {
	p := newPolicy()
	from := TupleKey{UserID: 1, ProjectID: 1, Date: tomorrow}

	// Moving a future plan into the past is denied even though the record is editable.
	err := p.AuthorizeMove(employee, ActionEditPlan, ActionCreatePlan, from, TupleKey{UserID: 1, ProjectID: 1, Date: yesterday})
	assert.ErrorIs(t, err, ErrActionDenied)

	require.NoError(t, p.AuthorizeMove(employee, ActionEditPlan, ActionCreatePlan, from, TupleKey{UserID: 1, ProjectID: 2, Date: "2024-03-20"}))

	err = p.AuthorizeMove(employee, ActionEditPlan, ActionCreatePlan, from, TupleKey{UserID: 2, ProjectID: 1, Date: tomorrow})
	assert.ErrorIs(t, err, ErrActionDenied)

	require.NoError(t, p.AuthorizeMove(manager, ActionEditActual, ActionCreateActual,
		TupleKey{UserID: 1, ProjectID: 1, Date: yesterday}, TupleKey{UserID: 2, ProjectID: 1, Date: "2024-01-01"}))

	// Unchanged tuple only needs the edit check: today's actual stays editable.
	require.NoError(t, p.AuthorizeMove(employee, ActionEditActual, ActionCreateActual,
		TupleKey{UserID: 1, ProjectID: 1, Date: today}, TupleKey{UserID: 1, ProjectID: 1, Date: today}))
}

func TestPolicy_Permissions(t *testing.T) {
	p := newPolicy()

	missingToday := Unified{UserID: 1, ProjectID: 1, Date: today, PlanID: ptr(uint(3))}
	assert.Equal(t, RecordPermissions{CanCreateActual: true}, p.Permissions(employee, missingToday))

	futurePlan := Unified{UserID: 1, ProjectID: 1, Date: tomorrow, PlanID: ptr(uint(3))}
	assert.Equal(t, RecordPermissions{CanEditPlan: true, CanCreateActual: true}, p.Permissions(employee, futurePlan))

	pastOvertime := Unified{UserID: 1, ProjectID: 1, Date: yesterday, ActualID: ptr(uint(4))}
	assert.Equal(t, RecordPermissions{}, p.Permissions(employee, pastOvertime))
	assert.Equal(t, RecordPermissions{CanCreatePlan: true, CanEditActual: true}, p.Permissions(manager, pastOvertime))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("manager")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, r)
	assert.True(t, IsPrivileged(r))
	assert.False(t, IsPrivileged(RoleEmployee))

	_, err = ParseRole("HR")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
