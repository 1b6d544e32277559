package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"orgst/models"
	"orgst/services"
	"orgst/utils"
)

type ProjectController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewProjectController(db *gorm.DB, logger *log.Logger) *ProjectController {
	return &ProjectController{
		DB:     db,
		Logger: logger,
	}
}

// CreateProject creates a project with the caller as owner, plus its board
func (pc *ProjectController) CreateProject(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name        string  `json:"name" validate:"required,max=200"`
		Description *string `json:"description" validate:"omitempty,max=2000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	var existing models.Project
	if err := pc.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "PROJECT_NAME_TAKEN", nil)
	}

	project, err := services.CreateProject(pc.DB, user, input.Name, input.Description)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "PROJECT_CREATE_FAILED", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(project))
}

// ListProjects returns the projects the caller is a member of
func (pc *ProjectController) ListProjects(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	projects, err := services.ListProjectsFor(pc.DB, user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "PROJECT_LIST_FAILED", err)
	}
	return c.JSON(utils.SuccessResponse(projects))
}

// GetBoard returns the project board with columns and tasks in order
func (pc *ProjectController) GetBoard(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	projectID := utils.ParseUint(c.Params("id"))
	if projectID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", nil)
	}
	if !services.IsProjectMember(pc.DB, user, projectID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", nil)
	}

	board, err := services.GetBoard(pc.DB, projectID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "BOARD_LOAD_FAILED", err)
	}
	return c.JSON(utils.SuccessResponse(board))
}
