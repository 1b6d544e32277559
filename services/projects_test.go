package services

import (
	"testing"

	"orgst/models"
)

func TestCreateProjectSetsUpOwnerAndBoard(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")

	project := newTestProject(t, db, owner, "Launchpad")

	var member models.ProjectMember
	if err := db.Where("project_id = ? AND user_id = ?", project.ID, owner.ID).
		First(&member).Error; err != nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if member.Role != models.MemberRoleOwner {
		t.Fatalf("expected owner role, got %s", member.Role)
	}

	var board models.Board
	if err := db.Where("project_id = ?", project.ID).First(&board).Error; err != nil {
		t.Fatalf("default board missing: %v", err)
	}
	cols := boardColumns(t, db, board.ID)
	if len(cols) != 3 {
		t.Fatalf("expected 3 default columns, got %d", len(cols))
	}
}

func TestListProjectsForReturnsOnlyMemberships(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice", "alice@orgst.dev")
	bob := newTestUser(t, db, "bob", "bob@orgst.dev")

	mine := newTestProject(t, db, alice, "Mine")
	newTestProject(t, db, bob, "Theirs")

	projects, err := ListProjectsFor(db, alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != mine.ID {
		t.Fatalf("expected only alice's project, got %d results", len(projects))
	}
}

func TestGetBoardOrdersColumnsAndTasks(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	project := newTestProject(t, db, owner, "Launchpad")

	board, err := GetBoard(db, project.ID)
	if err != nil {
		t.Fatalf("get board: %v", err)
	}
	cols := board.Columns

	addTask(t, db, project, cols[0].ID, owner, "second")
	addTask(t, db, project, cols[0].ID, owner, "third")

	// Reverse the columns and reload
	if err := ReorderColumns(db, board.ID, []uint{cols[2].ID, cols[1].ID, cols[0].ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	board, err = GetBoard(db, project.ID)
	if err != nil {
		t.Fatalf("reload board: %v", err)
	}
	if board.Columns[2].ID != cols[0].ID {
		t.Fatalf("expected backlog column last after reorder")
	}
	tasks := board.Columns[2].Tasks
	if len(tasks) != 2 || tasks[0].Position != 1 || tasks[1].Position != 2 {
		t.Fatalf("tasks not ordered by position: %+v", tasks)
	}
}
