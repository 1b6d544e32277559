package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"orgst/models"
)

func addTask(t *testing.T, db *gorm.DB, project *models.Project, columnID uint, creator *models.User, title string) *models.Task {
	t.Helper()

	task := models.Task{
		ProjectID:   project.ID,
		ColumnID:    columnID,
		Title:       title,
		CreatedByID: creator.ID,
	}
	if err := CreateTask(db, &task); err != nil {
		t.Fatalf("create task %s: %v", title, err)
	}
	return &task
}

func TestCreateDefaultBoardIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	project := newTestProject(t, db, owner, "Apollo")

	board, err := CreateDefaultBoard(db, project.ID)
	if err != nil {
		t.Fatalf("create default board: %v", err)
	}
	again, err := CreateDefaultBoard(db, project.ID)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if board.ID != again.ID {
		t.Fatal("expected the existing board back")
	}

	cols := boardColumns(t, db, board.ID)
	if len(cols) != 3 {
		t.Fatalf("expected 3 default columns, got %d", len(cols))
	}
	names := []string{"Backlog", "Doing", "Done"}
	for i, col := range cols {
		if col.Name != names[i] || col.Position != i+1 {
			t.Fatalf("unexpected column %d: %s at %d", i, col.Name, col.Position)
		}
	}
}

func TestReorderColumns(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	project := newTestProject(t, db, owner, "Apollo")

	board, err := CreateDefaultBoard(db, project.ID)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	cols := boardColumns(t, db, board.ID)

	reversed := []uint{cols[2].ID, cols[1].ID, cols[0].ID}
	if err := ReorderColumns(db, board.ID, reversed); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	after := boardColumns(t, db, board.ID)
	for i, id := range reversed {
		if after[i].ID != id || after[i].Position != i+1 {
			t.Fatalf("column %d: expected id %d at position %d, got id %d at %d",
				i, id, i+1, after[i].ID, after[i].Position)
		}
	}
}

func TestReorderColumnsRejectsWrongIDSet(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	project := newTestProject(t, db, owner, "Apollo")

	board, err := CreateDefaultBoard(db, project.ID)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	cols := boardColumns(t, db, board.ID)

	cases := map[string][]uint{
		"missing id":   {cols[0].ID, cols[1].ID},
		"foreign id":   {cols[0].ID, cols[1].ID, cols[2].ID + 1000},
		"duplicate id": {cols[0].ID, cols[1].ID, cols[1].ID},
	}
	for name, ids := range cases {
		if err := ReorderColumns(db, board.ID, ids); !errors.Is(err, ErrColumnSetMismatch) {
			t.Fatalf("%s: expected ErrColumnSetMismatch, got %v", name, err)
		}
	}

	after := boardColumns(t, db, board.ID)
	for i, col := range after {
		if col.ID != cols[i].ID || col.Position != i+1 {
			t.Fatal("positions must be untouched after a rejected reorder")
		}
	}
}

func TestMoveTaskWithinColumn(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	project := newTestProject(t, db, owner, "Apollo")
	board, _ := CreateDefaultBoard(db, project.ID)
	cols := boardColumns(t, db, board.ID)

	var tasks []*models.Task
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		tasks = append(tasks, addTask(t, db, project, cols[0].ID, owner, title))
	}

	// Move the last task to the second slot.
	if err := MoveTask(db, tasks[4].ID, cols[0].ID, 2); err != nil {
		t.Fatalf("move: %v", err)
	}

	assertCompact(t, columnPositions(t, db, cols[0].ID))

	var moved models.Task
	if err := db.First(&moved, tasks[4].ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if moved.Position != 2 || moved.ColumnID != cols[0].ID {
		t.Fatalf("expected position 2, got column %d position %d", moved.ColumnID, moved.Position)
	}
}

func TestMoveTaskAcrossColumns(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	project := newTestProject(t, db, owner, "Apollo")
	board, _ := CreateDefaultBoard(db, project.ID)
	cols := boardColumns(t, db, board.ID)

	t1 := addTask(t, db, project, cols[0].ID, owner, "a")
	addTask(t, db, project, cols[0].ID, owner, "b")
	addTask(t, db, project, cols[1].ID, owner, "x")
	addTask(t, db, project, cols[1].ID, owner, "y")

	if err := MoveTask(db, t1.ID, cols[1].ID, 1); err != nil {
		t.Fatalf("move: %v", err)
	}

	assertCompact(t, columnPositions(t, db, cols[0].ID))
	assertCompact(t, columnPositions(t, db, cols[1].ID))

	var moved models.Task
	if err := db.First(&moved, t1.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if moved.ColumnID != cols[1].ID || moved.Position != 1 {
		t.Fatalf("expected column %d position 1, got column %d position %d",
			cols[1].ID, moved.ColumnID, moved.Position)
	}
	if n := len(columnPositions(t, db, cols[0].ID)); n != 1 {
		t.Fatalf("source column should have 1 task, has %d", n)
	}
	if n := len(columnPositions(t, db, cols[1].ID)); n != 3 {
		t.Fatalf("destination column should have 3 tasks, has %d", n)
	}
}

func TestMoveTaskClampsOutOfRangePosition(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	project := newTestProject(t, db, owner, "Apollo")
	board, _ := CreateDefaultBoard(db, project.ID)
	cols := boardColumns(t, db, board.ID)

	t1 := addTask(t, db, project, cols[0].ID, owner, "a")
	addTask(t, db, project, cols[1].ID, owner, "x")
	addTask(t, db, project, cols[1].ID, owner, "y")

	// Destination holds 2 tasks; a cross-column move may target at most 3.
	if err := MoveTask(db, t1.ID, cols[1].ID, 99); err != nil {
		t.Fatalf("move: %v", err)
	}

	var moved models.Task
	if err := db.First(&moved, t1.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if moved.Position != 3 {
		t.Fatalf("expected clamp to position 3, got %d", moved.Position)
	}
	assertCompact(t, columnPositions(t, db, cols[1].ID))
}

func TestMoveTaskRejectsCrossProject(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	projectA := newTestProject(t, db, owner, "Apollo")
	projectB := newTestProject(t, db, owner, "Borealis")

	boardA, _ := CreateDefaultBoard(db, projectA.ID)
	boardB, _ := CreateDefaultBoard(db, projectB.ID)
	colsA := boardColumns(t, db, boardA.ID)
	colsB := boardColumns(t, db, boardB.ID)

	task := addTask(t, db, projectA, colsA[0].ID, owner, "a")
	other := addTask(t, db, projectB, colsB[0].ID, owner, "b")

	if err := MoveTask(db, task.ID, colsB[0].ID, 1); !errors.Is(err, ErrCrossProjectMove) {
		t.Fatalf("expected ErrCrossProjectMove, got %v", err)
	}

	var reloaded models.Task
	if err := db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.ColumnID != colsA[0].ID || reloaded.Position != 1 {
		t.Fatal("source task must be unchanged")
	}
	var reloadedOther models.Task
	if err := db.First(&reloadedOther, other.ID).Error; err != nil {
		t.Fatalf("reload other: %v", err)
	}
	if reloadedOther.Position != 1 {
		t.Fatal("destination column must be unchanged")
	}
}

func TestMoveTaskRejectsNonPositivePosition(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	project := newTestProject(t, db, owner, "Apollo")
	board, _ := CreateDefaultBoard(db, project.ID)
	cols := boardColumns(t, db, board.ID)

	task := addTask(t, db, project, cols[0].ID, owner, "a")

	if err := MoveTask(db, task.ID, cols[0].ID, 0); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestMoveTaskNoOp(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	project := newTestProject(t, db, owner, "Apollo")
	board, _ := CreateDefaultBoard(db, project.ID)
	cols := boardColumns(t, db, board.ID)

	addTask(t, db, project, cols[0].ID, owner, "a")
	task := addTask(t, db, project, cols[0].ID, owner, "b")

	if err := MoveTask(db, task.ID, cols[0].ID, 2); err != nil {
		t.Fatalf("no-op move: %v", err)
	}
	assertCompact(t, columnPositions(t, db, cols[0].ID))
}

func TestMoveTaskSequenceKeepsCompactness(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner", "owner@orgst.dev")
	project := newTestProject(t, db, owner, "Apollo")
	board, _ := CreateDefaultBoard(db, project.ID)
	cols := boardColumns(t, db, board.ID)

	var tasks []*models.Task
	for _, title := range []string{"a", "b", "c", "d"} {
		tasks = append(tasks, addTask(t, db, project, cols[0].ID, owner, title))
	}

	moves := []struct {
		task     *models.Task
		toColumn uint
		toPos    int
	}{
		{tasks[0], cols[1].ID, 1},
		{tasks[3], cols[1].ID, 1},
		{tasks[1], cols[2].ID, 5},
		{tasks[0], cols[0].ID, 1},
		{tasks[2], cols[1].ID, 2},
	}
	for i, m := range moves {
		if err := MoveTask(db, m.task.ID, m.toColumn, m.toPos); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		for _, col := range cols {
			assertCompact(t, columnPositions(t, db, col.ID))
		}
	}
}
