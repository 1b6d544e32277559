package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"orgst/models"
	"orgst/services"
	"orgst/utils"
)

type InvitationController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewInvitationController(db *gorm.DB, logger *log.Logger) *InvitationController {
	return &InvitationController{
		DB:     db,
		Logger: logger,
	}
}

// CreateInvitation issues a new invitation and emails the invite link. Only
// admins, cofounders and superusers may invite.
func (ic *InvitationController) CreateInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if !services.CanCreateInvitation(ic.DB, user) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", nil)
	}

	var input struct {
		Email         string   `json:"email" validate:"required,email"`
		Roles         []string `json:"roles"`
		ExpiresInDays int      `json:"expires_in_days" validate:"omitempty,gte=1,lte=90"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	created, err := services.CreateInvitation(ic.DB, user, input.Email, input.Roles, input.ExpiresInDays)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmail) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_EMAIL", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "INVITATION_CREATE_FAILED", err)
	}

	// Delivery failures don't invalidate the invitation; the token is still
	// returned to the caller.
	expiresInDays := input.ExpiresInDays
	if expiresInDays <= 0 {
		expiresInDays = services.DefaultInviteExpiryDays
	}
	if err := utils.SendInvitationEmail(created.Invitation.Email, created.Token, expiresInDays); err != nil {
		ic.Logger.Printf("failed to send invitation email to %s: %v", created.Invitation.Email, err)
		utils.LogError("invitation_email_failed", err, map[string]interface{}{
			"invitation_id": created.Invitation.ID,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"invitation": created.Invitation,
		"token":      created.Token,
	})
}

// ListInvitations returns invitations, optionally filtered by status
func (ic *InvitationController) ListInvitations(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if !services.CanCreateInvitation(ic.DB, user) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", nil)
	}

	query := ic.DB.Preload("Roles.Role").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invitations []models.Invitation
	if err := query.Find(&invitations).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "INVITATION_LIST_FAILED", err)
	}
	return c.JSON(utils.SuccessResponse(invitations))
}

// ValidateInvitation checks a plaintext token without consuming it. Public
// endpoint; never reveals whether the address is known.
func (ic *InvitationController) ValidateInvitation(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "TOKEN_REQUIRED", nil)
	}

	inv, err := services.ValidateInvitationToken(ic.DB, token)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "INVITATION_VALIDATE_FAILED", err)
	}
	if inv == nil {
		return c.JSON(fiber.Map{"valid": false})
	}

	return c.JSON(fiber.Map{
		"valid":      true,
		"email":      inv.Email,
		"roles":      inv.RoleKeys(),
		"expires_at": inv.ExpiresAt,
	})
}

// AcceptInvitation redeems a token, creating the account and logging it in
func (ic *InvitationController) AcceptInvitation(c *fiber.Ctx) error {
	var input struct {
		Token       string `json:"token" validate:"required"`
		Password    string `json:"password" validate:"required,min=8"`
		DisplayName string `json:"display_name" validate:"required,max=100"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err)
	}

	user, err := services.AcceptInvitation(ic.DB, input.Token, input.Password, input.DisplayName)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrExpiredInvitation) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_OR_EXPIRED_INVITATION", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "INVITATION_ACCEPT_FAILED", err)
	}

	accessToken, refreshToken, err := utils.GenerateJWTToken(user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "TOKEN_GENERATION_FAILED", err)
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// ProvisionInvitation turns a pending invitation into a restricted staff
// account without the invitee's involvement. Superusers only.
func (ic *InvitationController) ProvisionInvitation(c *fiber.Ctx) error {
	admin := c.Locals("user").(*models.User)

	if !admin.IsSuperuser {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", nil)
	}

	invitationID := utils.ParseUint(c.Params("id"))
	if invitationID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_INVITATION_ID", nil)
	}

	user, tempPassword, err := services.ProvisionAdminOnlyInvitation(ic.DB, invitationID, admin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvitationNotPending):
			return utils.ErrorResponse(c, fiber.StatusConflict, "INVITATION_NOT_PENDING", nil)
		case errors.Is(err, services.ErrInvalidOrExpiredInvitation):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_OR_EXPIRED_INVITATION", nil)
		case errors.Is(err, services.ErrRoleNotAllowed):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "ROLE_NOT_ALLOWED", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "INVITATION_PROVISION_FAILED", err)
	}

	ic.Logger.Printf("provisioned staff account %s from invitation %d", user.Username, invitationID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":          user,
		"temp_password": tempPassword,
	})
}

// RevokeInvitation cancels a pending invitation. Superusers only.
func (ic *InvitationController) RevokeInvitation(c *fiber.Ctx) error {
	admin := c.Locals("user").(*models.User)

	if !admin.IsSuperuser {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", nil)
	}

	invitationID := utils.ParseUint(c.Params("id"))
	if invitationID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_INVITATION_ID", nil)
	}

	if err := services.RevokeInvitation(ic.DB, invitationID); err != nil {
		if errors.Is(err, services.ErrInvitationNotPending) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "INVITATION_NOT_PENDING", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "INVITATION_REVOKE_FAILED", err)
	}

	return c.JSON(fiber.Map{
		"message": "Invitation revoked",
	})
}
