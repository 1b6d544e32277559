package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"orgst/config"
	"orgst/models"
	"orgst/utils"
)

type LoginRequest struct {
	// Identifier is an email address or a username
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))

	var user models.User
	if err := config.DB.Where("email = ? OR username = ?", identifier, identifier).
		First(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", nil)
	}

	if !user.CheckPassword(req.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", nil)
	}

	if !user.IsActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "ACCOUNT_INACTIVE", nil)
	}

	accessToken, refreshToken, err := utils.GenerateJWTToken(&user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "TOKEN_GENERATION_FAILED", err)
	}

	return c.JSON(AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &user,
	})
}

func Logout(c *fiber.Ctx) error {
	// Stateless JWTs: the client discards its tokens
	return c.SendStatus(fiber.StatusOK)
}

func GetCurrentUser(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var full models.User
	if err := config.DB.Preload("Profile").
		Preload("UserRoles.Role").
		Preload("Skills.Skill").
		First(&full, user.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "USER_LOAD_FAILED", err)
	}
	return c.JSON(&full)
}

func ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	user := c.Locals("user").(*models.User)

	if !user.CheckPassword(req.CurrentPassword) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_CURRENT_PASSWORD", nil)
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "PASSWORD_HASH_FAILED", err)
	}

	// A provisioned account is allowed back into the API once it has chosen
	// its own password.
	user.MustChangePassword = false

	if err := config.DB.Save(user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "PASSWORD_UPDATE_FAILED", err)
	}

	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}

func RefreshToken(c *fiber.Ctx) error {
	var req RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}

	accessToken, refreshToken, err := utils.RefreshTokens(req.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_REFRESH_TOKEN", err)
	}

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}
