package testutil

import (
	"path/filepath"
	"testing"

	"projectdb/database"
	"projectdb/models"
	"projectdb/workload"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated SQLite database in the test's temp dir.
// The connection is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"), logger.Discard)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose password equals its username and who does
// not need to change it.
func CreateUser(t *testing.T, db *gorm.DB, username, fullName string, role workload.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(username), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	u := &models.User{
		Username:     username,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	// gorm writes the column default for a false bool on insert.
	if err := db.Model(u).Update("must_change_password", false).Error; err != nil {
		t.Fatalf("clearing password change flag for %s: %v", username, err)
	}
	return u
}

func CreateProject(t *testing.T, db *gorm.DB, name string) *models.Project {
	t.Helper()
	p := &models.Project{Name: name}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("creating project %s: %v", name, err)
	}
	return p
}

func CreatePlan(t *testing.T, db *gorm.DB, userID, projectID uint, date string) *models.WorkloadPlan {
	t.Helper()
	p := &models.WorkloadPlan{UserID: userID, ProjectID: projectID, Date: date}
	if err := db.Omit("User", "Project").Create(p).Error; err != nil {
		t.Fatalf("creating plan: %v", err)
	}
	return p
}

func CreateActual(t *testing.T, db *gorm.DB, userID, projectID uint, date string, hours float64, text string) *models.WorkloadActual {
	t.Helper()
	a := &models.WorkloadActual{UserID: userID, ProjectID: projectID, Date: date, HoursWorked: hours, UserText: text}
	if err := db.Omit("User", "Project").Create(a).Error; err != nil {
		t.Fatalf("creating actual: %v", err)
	}
	return a
}
