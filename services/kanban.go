package services

import (
	"errors"

	"gorm.io/gorm"

	"orgst/models"
)

// defaultColumns are created alongside a new board, positions 1..3.
var defaultColumns = []string{"Backlog", "Doing", "Done"}

// CreateDefaultBoard returns the project's board, creating it together with
// the default columns when it does not exist yet. Idempotent.
func CreateDefaultBoard(db *gorm.DB, projectID uint) (*models.Board, error) {
	var board models.Board
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("project_id = ?", projectID).First(&board).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		board = models.Board{ProjectID: projectID, Name: "Board"}
		if err := tx.Create(&board).Error; err != nil {
			return err
		}
		for i, name := range defaultColumns {
			if err := tx.Create(&models.Column{
				BoardID:  board.ID,
				Name:     name,
				Position: i + 1,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// ReorderColumns rewrites the positions of a board's non-archived columns to
// follow orderedIDs. orderedIDs must be exactly a permutation of the board's
// current column-id set; any mismatch fails the whole operation and leaves
// every position untouched.
func ReorderColumns(db *gorm.DB, boardID uint, orderedIDs []uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var cols []models.Column
		if err := lockForUpdate(tx).
			Where("board_id = ? AND is_archived = ?", boardID, false).
			Order("position").
			Find(&cols).Error; err != nil {
			return err
		}

		if len(cols) != len(orderedIDs) {
			return ErrColumnSetMismatch
		}
		existing := make(map[uint]bool, len(cols))
		for _, col := range cols {
			existing[col.ID] = true
		}
		idToPos := make(map[uint]int, len(orderedIDs))
		for i, id := range orderedIDs {
			if !existing[id] || idToPos[id] != 0 {
				return ErrColumnSetMismatch
			}
			idToPos[id] = i + 1
		}

		for i := range cols {
			newPos := idToPos[cols[i].ID]
			if cols[i].Position == newPos {
				continue
			}
			if err := tx.Model(&cols[i]).Update("position", newPos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// MoveTask moves a task to a column/position, keeping both columns' positions
// compact 1..N. Locks the task row, then the destination column row. A target
// position past the end of the destination is clamped down rather than
// rejected, so stale UIs do not have to retry.
func MoveTask(db *gorm.DB, taskID, toColumnID uint, toPosition int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := lockForUpdate(tx).First(&task, taskID).Error; err != nil {
			return err
		}
		var dest models.Column
		if err := lockForUpdate(tx).First(&dest, toColumnID).Error; err != nil {
			return err
		}

		var destBoard models.Board
		if err := tx.First(&destBoard, dest.BoardID).Error; err != nil {
			return err
		}
		if destBoard.ProjectID != task.ProjectID {
			return ErrCrossProjectMove
		}
		if toPosition < 1 {
			return ErrInvalidPosition
		}

		fromColumnID := task.ColumnID
		fromPosition := task.Position

		// Upper bound: len(dest) for a same-column move, len(dest)+1 across
		// columns. Requests past the bound are clamped.
		var destCount int64
		if err := tx.Model(&models.Task{}).Where("column_id = ?", dest.ID).Count(&destCount).Error; err != nil {
			return err
		}
		maxPos := int(destCount)
		if fromColumnID != dest.ID {
			maxPos++
		}
		if toPosition > maxPos {
			toPosition = maxPos
		}

		if fromColumnID == dest.ID && toPosition == fromPosition {
			return nil
		}

		// Close the gap left in the source column, then open a slot in the
		// destination. Both shifts are relative arithmetic so concurrent
		// movers serialized by the row locks never see torn positions.
		if err := tx.Model(&models.Task{}).
			Where("column_id = ? AND position > ?", fromColumnID, fromPosition).
			UpdateColumn("position", gorm.Expr("position - 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).
			Where("column_id = ? AND position >= ?", dest.ID, toPosition).
			UpdateColumn("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}

		return tx.Model(&task).Updates(map[string]interface{}{
			"column_id": dest.ID,
			"position":  toPosition,
		}).Error
	})
}

// CreateTask appends a task at the end of its column. The column must belong
// to the task's project.
func CreateTask(db *gorm.DB, task *models.Task) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var column models.Column
		if err := lockForUpdate(tx).First(&column, task.ColumnID).Error; err != nil {
			return err
		}
		var board models.Board
		if err := tx.First(&board, column.BoardID).Error; err != nil {
			return err
		}
		if board.ProjectID != task.ProjectID {
			return ErrCrossProjectMove
		}

		var count int64
		if err := tx.Model(&models.Task{}).Where("column_id = ?", column.ID).Count(&count).Error; err != nil {
			return err
		}
		task.Position = int(count) + 1
		return tx.Create(task).Error
	})
}
