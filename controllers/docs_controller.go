package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"orgst/models"
	"orgst/services"
	"orgst/utils"
)

type DocController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewDocController(db *gorm.DB, logger *log.Logger) *DocController {
	return &DocController{
		DB:     db,
		Logger: logger,
	}
}

// CreateDocument creates a wiki document with its first version
func (dc *DocController) CreateDocument(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Title      string   `json:"title" validate:"required,max=200"`
		BodyMD     string   `json:"body_md"`
		Visibility string   `json:"visibility" validate:"omitempty,oneof=private community mentors_only"`
		Tags       []string `json:"tags"`
		ProjectID  *uint    `json:"project_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	if input.ProjectID != nil && !services.IsProjectMember(dc.DB, user, *input.ProjectID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", nil)
	}

	doc, err := services.CreateDocument(dc.DB, services.CreateDocumentInput{
		Title:      input.Title,
		BodyMD:     input.BodyMD,
		CreatedBy:  user,
		Visibility: input.Visibility,
		TagNames:   input.Tags,
		ProjectID:  input.ProjectID,
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "DOCUMENT_CREATE_FAILED", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(doc))
}

// ListDocuments returns the documents visible to the caller
func (dc *DocController) ListDocuments(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var projectID *uint
	if id := utils.ParseUint(c.Query("project_id")); id != 0 {
		projectID = &id
	}

	docs, err := services.ListDocuments(dc.DB, user, c.Query("q"), c.Query("tag"), projectID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "DOCUMENT_LIST_FAILED", err)
	}
	return c.JSON(utils.SuccessResponse(docs))
}

// GetDocument returns a document by slug with its versions. Documents the
// caller may not read are indistinguishable from missing ones.
func (dc *DocController) GetDocument(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	doc, err := services.GetDocumentBySlug(dc.DB, c.Params("slug"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "DOCUMENT_LOAD_FAILED", err)
	}
	if doc == nil || !services.CanViewDocument(dc.DB, user, doc) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "DOCUMENT_NOT_FOUND", nil)
	}

	var versions []models.DocumentVersion
	if err := dc.DB.Where("document_id = ?", doc.ID).
		Order("version_number").Find(&versions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "DOCUMENT_LOAD_FAILED", err)
	}

	return c.JSON(fiber.Map{
		"document": doc,
		"versions": versions,
	})
}

// AddVersion appends a new version to a document
func (dc *DocController) AddVersion(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	doc, err := services.GetDocumentBySlug(dc.DB, c.Params("slug"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "DOCUMENT_LOAD_FAILED", err)
	}
	if doc == nil || !services.CanViewDocument(dc.DB, user, doc) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "DOCUMENT_NOT_FOUND", nil)
	}

	var input struct {
		BodyMD string `json:"body_md" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	version, err := services.AddVersion(dc.DB, doc, input.BodyMD, user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "VERSION_CREATE_FAILED", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(version))
}
