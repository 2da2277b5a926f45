package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"projectdb/config"
	"projectdb/testutil"
	"projectdb/workload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testApp wires an App with a clock pinned to Friday 2024-03-15 and a
// throwaway SQLite database.
func testApp(t *testing.T) (*App, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	return &App{
		Config: &config.Config{MissingReportSchedule: "0 0 9 * * *"},
		Codec:  workload.NewDateCodec(time.UTC, workload.FixedClock(now)),
		OpenDB: func() (*gorm.DB, error) { return db, nil },
	}, db
}

func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestCalendarCmd_Week(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "calendar")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "2024-03-11 Mon past", lines[0])
	assert.Equal(t, "2024-03-15 Fri today", lines[4])
	assert.Equal(t, "2024-03-16 Sat weekend", lines[5])
	assert.Equal(t, "2024-03-17 Sun weekend", lines[6])
}

func TestCalendarCmd_Month(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "calendar", "--date", "2024-04-10", "--mode", "month", "--selected", "2024-04-10")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 35)
	assert.Equal(t, "2024-04-01 Mon -", lines[0])
	assert.Equal(t, "2024-04-10 Wed selected", lines[9])
	assert.Equal(t, "2024-05-05 Sun outside,weekend", lines[34])
}

func TestCalendarCmd_RejectsBadInput(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "calendar", "--mode", "year")
	assert.ErrorIs(t, err, workload.ErrInvalidViewMode)

	_, err = executeCmd(t, app, "calendar", "--date", "2024-13-01")
	assert.ErrorIs(t, err, workload.ErrInvalidDateKey)
}

func TestScanMissingCmd(t *testing.T) {
	app, db := testApp(t)
	anna := testutil.CreateUser(t, db, "anna", "Anna Smirnova", workload.RoleEmployee)
	boris := testutil.CreateUser(t, db, "boris", "Boris Orlov", workload.RoleEmployee)
	tower := testutil.CreateProject(t, db, "Riverside Tower")

	testutil.CreatePlan(t, db, anna.ID, tower.ID, "2024-03-14")
	testutil.CreatePlan(t, db, boris.ID, tower.ID, "2024-03-14")
	testutil.CreateActual(t, db, boris.ID, tower.ID, "2024-03-14", 8, "framed the third floor partitions")

	out, err := executeCmd(t, app, "scan-missing")
	require.NoError(t, err)
	assert.Contains(t, out, "1 missing report(s) for 2024-03-14")
	assert.Contains(t, out, "Anna Smirnova\tRiverside Tower")
	assert.NotContains(t, out, "Boris Orlov")

	out, err = executeCmd(t, app, "scan-missing", "--date", "2024-03-13")
	require.NoError(t, err)
	assert.Contains(t, out, "No missing reports for 2024-03-13")
}

func TestScanMissingCmd_SeveralDays(t *testing.T) {
	app, db := testApp(t)
	anna := testutil.CreateUser(t, db, "anna", "Anna Smirnova", workload.RoleEmployee)
	tower := testutil.CreateProject(t, db, "Riverside Tower")
	testutil.CreatePlan(t, db, anna.ID, tower.ID, "2024-02-29")
	testutil.CreatePlan(t, db, anna.ID, tower.ID, "2024-03-01")

	out, err := executeCmd(t, app, "scan-missing", "--date", "2024-03-01", "--days", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "No missing reports for 2024-02-28", lines[0])
	assert.Equal(t, "1 missing report(s) for 2024-02-29", lines[1])
	assert.Equal(t, "1 missing report(s) for 2024-03-01", lines[3])

	_, err = executeCmd(t, app, "scan-missing", "--days", "0")
	assert.Error(t, err)
}
