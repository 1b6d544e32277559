package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"orgst/models"
	"orgst/services"
	"orgst/utils"
)

type KanbanController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewKanbanController(db *gorm.DB, logger *log.Logger) *KanbanController {
	return &KanbanController{
		DB:     db,
		Logger: logger,
	}
}

// ReorderColumns applies a full ordering to a project's board columns
func (kc *KanbanController) ReorderColumns(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	projectID := utils.ParseUint(c.Params("id"))
	if projectID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", nil)
	}
	if !services.CanWriteProject(kc.DB, user, projectID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", nil)
	}

	var input struct {
		ColumnIDs []uint `json:"column_ids" validate:"required,min=1"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	var board models.Board
	if err := kc.DB.Where("project_id = ?", projectID).First(&board).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "BOARD_NOT_FOUND", nil)
	}

	if err := services.ReorderColumns(kc.DB, board.ID, input.ColumnIDs); err != nil {
		if errors.Is(err, services.ErrColumnSetMismatch) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "COLUMN_SET_MISMATCH", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "COLUMN_REORDER_FAILED", err)
	}

	return c.JSON(fiber.Map{
		"message": "Columns reordered",
	})
}

// CreateTask appends a task to the end of a column
func (kc *KanbanController) CreateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	projectID := utils.ParseUint(c.Params("id"))
	if projectID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", nil)
	}
	if !services.IsProjectMember(kc.DB, user, projectID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", nil)
	}

	var input struct {
		ColumnID    uint       `json:"column_id" validate:"required"`
		Title       string     `json:"title" validate:"required,max=300"`
		Description string     `json:"description" validate:"omitempty,max=5000"`
		Priority    int        `json:"priority" validate:"omitempty,gte=1,lte=4"`
		DueDate     *time.Time `json:"due_date"`
		AssigneeID  *uint      `json:"assignee_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	priority := input.Priority
	if priority == 0 {
		priority = models.PriorityMedium
	}

	task := models.Task{
		ProjectID:   projectID,
		ColumnID:    input.ColumnID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssigneeID:  input.AssigneeID,
		CreatedByID: user.ID,
	}

	if err := services.CreateTask(kc.DB, &task); err != nil {
		if errors.Is(err, services.ErrCrossProjectMove) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "CROSS_PROJECT_MOVE", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "TASK_CREATE_FAILED", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// MoveTask moves a task to a column and position, clamping out-of-range
// positions to the nearest valid slot
func (kc *KanbanController) MoveTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	taskID := utils.ParseUint(c.Params("id"))
	if taskID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TASK_ID", nil)
	}

	var task models.Task
	if err := kc.DB.First(&task, taskID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "TASK_NOT_FOUND", nil)
	}
	if !services.IsProjectMember(kc.DB, user, task.ProjectID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", nil)
	}

	var input struct {
		ColumnID uint `json:"column_id" validate:"required"`
		Position int  `json:"position" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	if err := services.MoveTask(kc.DB, taskID, input.ColumnID, input.Position); err != nil {
		switch {
		case errors.Is(err, services.ErrCrossProjectMove):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "CROSS_PROJECT_MOVE", nil)
		case errors.Is(err, services.ErrInvalidPosition):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_POSITION", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "TASK_MOVE_FAILED", err)
	}

	if err := kc.DB.First(&task, taskID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "TASK_LOAD_FAILED", err)
	}
	return c.JSON(utils.SuccessResponse(task))
}
