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

type AppointmentController struct {
	DB *gorm.DB
}

func NewAppointmentController(db *gorm.DB) *AppointmentController {
	return &AppointmentController{DB: db}
}

func (c *AppointmentController) GetAllAppointments(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.Appointment{}).Preload("Customer").Preload("Party")

	if from := ctx.Query("from"); from != "" {
		query = query.Where("starts_at >= ?", from)
	}
	if to := ctx.Query("to"); to != "" {
		query = query.Where("starts_at <= ?", to)
	}
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Order("starts_at ASC").Find(&appointments).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Appointments found", "data": appointments})
}

func (c *AppointmentController) CreateAppointment(ctx *fiber.Ctx) error {
	var input struct {
		CustomerId      uint                   `json:"customer_id" validate:"required"`
		PartyId         *uint                  `json:"party_id"`
		Type            models.AppointmentType `json:"type"`
		StartsAt        time.Time              `json:"starts_at" validate:"required"`
		DurationMinutes int                    `json:"duration_minutes"`
		Notes           string                 `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Type == "" {
		input.Type = models.AppointmentFitting
	}
	if !input.Type.Valid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment type"})
	}
	if input.DurationMinutes <= 0 {
		input.DurationMinutes = 30
	}

	var customer models.Customer
	if err := c.DB.First(&customer, input.CustomerId).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	appointment := models.Appointment{
		CustomerId:      input.CustomerId,
		PartyId:         input.PartyId,
		Type:            input.Type,
		StartsAt:        input.StartsAt,
		DurationMinutes: input.DurationMinutes,
		Status:          models.AppointmentScheduled,
		Notes:           input.Notes,
		CreatedBy:       int(middleware.ActingUserID(ctx)),
	}

	if err := c.DB.Create(&appointment).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Appointment created successfully", "data": appointment})
}

func (c *AppointmentController) UpdateAppointment(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		StartsAt        *time.Time `json:"starts_at"`
		DurationMinutes *int       `json:"duration_minutes"`
		Status          *string    `json:"status"`
		Notes           *string    `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var appointment models.Appointment
	if err := c.DB.First(&appointment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{
		"updated_by": int(middleware.ActingUserID(ctx)),
	}
	if input.StartsAt != nil {
		updates["starts_at"] = *input.StartsAt
		// Rescheduling re-arms the reminder.
		updates["reminder_sent"] = false
	}
	if input.DurationMinutes != nil {
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.Status != nil {
		switch *input.Status {
		case models.AppointmentScheduled, models.AppointmentCompleted, models.AppointmentCanceled:
			updates["status"] = *input.Status
		default:
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment status"})
		}
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if err := c.DB.Model(&appointment).Updates(updates).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Appointment updated successfully", "data": appointment})
}

func (c *AppointmentController) DeleteAppointment(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	result := c.DB.Delete(&models.Appointment{}, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": result.Error.Error()})
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Appointment deleted successfully"})
}
