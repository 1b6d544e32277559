package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"orgst/config"
	"orgst/models"
)

// newTestDB opens a fresh in-memory database with the full schema and the
// default role/skill seeds.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig.SecretKey = "test-secret"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// A second pooled connection would get its own empty :memory: database.
	sqlDB.SetMaxOpenConns(1)

	if err := config.MigrateDB(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if err := models.SeedRoles(db); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	if err := models.SeedSkills(db); err != nil {
		t.Fatalf("seed skills: %v", err)
	}
	return db
}

// newTestUser creates an active user with the given roles attached
func newTestUser(t *testing.T, db *gorm.DB, username, email string, roleKeys ...string) *models.User {
	t.Helper()

	user := models.User{Username: username, Email: email, IsActive: true}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	for _, key := range roleKeys {
		var role models.Role
		if err := db.Where("key = ?", key).First(&role).Error; err != nil {
			t.Fatalf("find role %s: %v", key, err)
		}
		if err := db.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error; err != nil {
			t.Fatalf("attach role %s: %v", key, err)
		}
	}
	return &user
}

// newTestProject creates a project owned by the user, with owner membership
// and the default board.
func newTestProject(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Project {
	t.Helper()

	project, err := CreateProject(db, owner, name, nil)
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return project
}

// boardColumns returns the board's non-archived columns ordered by position
func boardColumns(t *testing.T, db *gorm.DB, boardID uint) []models.Column {
	t.Helper()

	var cols []models.Column
	if err := db.Where("board_id = ? AND is_archived = ?", boardID, false).
		Order("position").Find(&cols).Error; err != nil {
		t.Fatalf("load columns: %v", err)
	}
	return cols
}

// columnPositions returns the positions of a column's tasks ordered by position
func columnPositions(t *testing.T, db *gorm.DB, columnID uint) []int {
	t.Helper()

	var tasks []models.Task
	if err := db.Where("column_id = ?", columnID).Order("position").Find(&tasks).Error; err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	positions := make([]int, len(tasks))
	for i, task := range tasks {
		positions[i] = task.Position
	}
	return positions
}

// assertCompact fails unless positions are exactly 1..N in order
func assertCompact(t *testing.T, positions []int) {
	t.Helper()

	for i, pos := range positions {
		if pos != i+1 {
			t.Fatalf("positions not compact: got %v", positions)
		}
	}
}
