package controllers

import (
	"errors"
	"time"

	"tailor-app/middleware"
	"tailor-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PartyController struct {
	DB *gorm.DB
}

func NewPartyController(db *gorm.DB) *PartyController {
	return &PartyController{DB: db}
}

func (c *PartyController) GetAllParties(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.Party{}).Preload("Members.Customer")

	if eventFrom := ctx.Query("event_from"); eventFrom != "" {
		query = query.Where("event_date >= ?", eventFrom)
	}
	if eventTo := ctx.Query("event_to"); eventTo != "" {
		query = query.Where("event_date <= ?", eventTo)
	}

	var parties []models.Party
	if err := query.Order("event_date ASC").Find(&parties).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Parties found", "data": parties})
}

func (c *PartyController) GetPartyByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var party models.Party
	if err := c.DB.Preload("Members.Customer").First(&party, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Party not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Party found", "data": party})
}

func (c *PartyController) CreateParty(ctx *fiber.Ctx) error {
	var input struct {
		Name      string     `json:"name" validate:"required"`
		EventDate *time.Time `json:"event_date"`
		Notes     string     `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	party := models.Party{
		Name:      input.Name,
		EventDate: input.EventDate,
		Notes:     input.Notes,
		CreatedBy: int(middleware.ActingUserID(ctx)),
	}

	if err := c.DB.Create(&party).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Party created successfully", "data": party})
}

// partyUpdateInput carries a partial update; nil fields are left untouched.
type partyUpdateInput struct {
	Name      *string    `json:"name"`
	EventDate *time.Time `json:"event_date"`
	Notes     *string    `json:"notes"`
}

func (in partyUpdateInput) changes(actingUser int) map[string]interface{} {
	updates := map[string]interface{}{"updated_by": actingUser}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.EventDate != nil {
		updates["event_date"] = *in.EventDate
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	return updates
}

func (c *PartyController) UpdateParty(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input partyUpdateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var party models.Party
	if err := c.DB.First(&party, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Party not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Model(&party).Updates(input.changes(int(middleware.ActingUserID(ctx)))).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Party updated successfully", "data": party})
}

// AddMember links a customer into a party with a role and measurements.
func (c *PartyController) AddMember(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		CustomerId   uint   `json:"customer_id" validate:"required"`
		MemberRole   string `json:"member_role"`
		Measurements string `json:"measurements"`
		Notes        string `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var party models.Party
	if err := c.DB.First(&party, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Party not found"})
	}

	var customer models.Customer
	if err := c.DB.First(&customer, input.CustomerId).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	if input.MemberRole == "" {
		input.MemberRole = "member"
	}

	member := models.PartyMember{
		PartyId:      party.ID,
		CustomerId:   customer.ID,
		MemberRole:   input.MemberRole,
		Measurements: input.Measurements,
		Notes:        input.Notes,
		CreatedBy:    int(middleware.ActingUserID(ctx)),
	}

	if err := c.DB.Create(&member).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Member added successfully", "data": member})
}

// memberUpdateInput carries a partial update; nil fields are left untouched.
type memberUpdateInput struct {
	MemberRole   *string `json:"member_role"`
	Measurements *string `json:"measurements"`
	Notes        *string `json:"notes"`
}

func (in memberUpdateInput) changes(actingUser int) map[string]interface{} {
	updates := map[string]interface{}{"updated_by": actingUser}
	if in.MemberRole != nil {
		updates["member_role"] = *in.MemberRole
	}
	if in.Measurements != nil {
		updates["measurements"] = *in.Measurements
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	return updates
}

func (c *PartyController) UpdateMember(ctx *fiber.Ctx) error {
	memberID, err := ctx.ParamsInt("member_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid member ID"})
	}

	var input memberUpdateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var member models.PartyMember
	if err := c.DB.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Model(&member).Updates(input.changes(int(middleware.ActingUserID(ctx)))).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Member updated successfully", "data": member})
}

func (c *PartyController) RemoveMember(ctx *fiber.Ctx) error {
	memberID, err := ctx.ParamsInt("member_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid member ID"})
	}

	result := c.DB.Delete(&models.PartyMember{}, memberID)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": result.Error.Error()})
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Member removed successfully"})
}
