package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"orgst/models"
	"orgst/services"
	"orgst/utils"
)

type MemberController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewMemberController(db *gorm.DB, logger *log.Logger) *MemberController {
	return &MemberController{
		DB:     db,
		Logger: logger,
	}
}

// ListSkills returns the skill catalog
func (mc *MemberController) ListSkills(c *fiber.Ctx) error {
	var skills []models.Skill
	if err := mc.DB.Order("category, name").Find(&skills).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "SKILL_LIST_FAILED", err)
	}
	return c.JSON(utils.SuccessResponse(skills))
}

// ListMembers returns the member directory. Supports q (email or display
// name), role and comma-separated skills filters.
func (mc *MemberController) ListMembers(c *fiber.Ctx) error {
	var skills []string
	if raw := c.Query("skills"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				skills = append(skills, trimmed)
			}
		}
	}

	members, err := services.ListMembers(mc.DB, c.Query("q"), c.Query("role"), skills)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "MEMBER_LIST_FAILED", err)
	}
	return c.JSON(utils.SuccessResponse(members))
}

// GetMember returns one directory entry
func (mc *MemberController) GetMember(c *fiber.Ctx) error {
	userID := utils.ParseUint(c.Params("id"))
	if userID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_MEMBER_ID", nil)
	}

	member, err := services.GetMember(mc.DB, userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "MEMBER_LOAD_FAILED", err)
	}
	if member == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "MEMBER_NOT_FOUND", nil)
	}
	return c.JSON(utils.SuccessResponse(member))
}

// UpdateMySkills replaces the caller's entire skill set
func (mc *MemberController) UpdateMySkills(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Skills []services.UserSkillInput `json:"skills" validate:"required,dive"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	if err := services.ReplaceUserSkills(mc.DB, user, input.Skills); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "SKILL_UPDATE_FAILED", err)
	}

	var skills []models.UserSkill
	if err := mc.DB.Preload("Skill").Where("user_id = ?", user.ID).Find(&skills).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "SKILL_LOAD_FAILED", err)
	}
	return c.JSON(utils.SuccessResponse(skills))
}
