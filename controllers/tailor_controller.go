package controllers

import (
	"errors"

	"tailor-app/middleware"
	"tailor-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TailorController maintains the ability and schedule records the
// auto-assignment engine reads.
type TailorController struct {
	DB *gorm.DB
}

func NewTailorController(db *gorm.DB) *TailorController {
	return &TailorController{DB: db}
}

func (c *TailorController) GetAllTailors(ctx *fiber.Ctx) error {
	var tailors []models.User
	err := c.DB.
		Preload("Abilities").
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC")
		}).
		Where("is_tailor = ? AND is_active = ?", true, true).
		Order("name ASC").
		Find(&tailors).Error
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Tailors found", "data": tailors})
}

// SetAbility creates or updates one (tailor, task type) proficiency rating.
func (c *TailorController) SetAbility(ctx *fiber.Ctx) error {
	var input struct {
		UserId      uint            `json:"user_id" validate:"required"`
		TaskType    models.TaskType `json:"task_type" validate:"required"`
		Proficiency int             `json:"proficiency" validate:"required,min=1,max=5"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !input.TaskType.Valid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task type"})
	}

	var user models.User
	if err := c.DB.Where("id = ? AND is_tailor = ?", input.UserId, true).First(&user).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tailor not found"})
	}

	actingUser := int(middleware.ActingUserID(ctx))

	var ability models.TailorAbility
	err := c.DB.Where("user_id = ? AND task_type = ?", input.UserId, input.TaskType).First(&ability).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		ability = models.TailorAbility{
			UserId:      input.UserId,
			TaskType:    input.TaskType,
			Proficiency: input.Proficiency,
			CreatedBy:   actingUser,
		}
		if err := c.DB.Create(&ability).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	} else {
		ability.Proficiency = input.Proficiency
		ability.UpdatedBy = actingUser
		if err := c.DB.Save(&ability).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Ability saved successfully", "data": ability})
}

func (c *TailorController) DeleteAbility(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	result := c.DB.Delete(&models.TailorAbility{}, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": result.Error.Error()})
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ability not found"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Ability deleted successfully"})
}

// SetSchedule creates or updates one weekly shift window.
func (c *TailorController) SetSchedule(ctx *fiber.Ctx) error {
	var input struct {
		UserId    uint   `json:"user_id" validate:"required"`
		DayOfWeek *int   `json:"day_of_week" validate:"required"`
		StartTime string `json:"start_time" validate:"required"`
		EndTime   string `json:"end_time" validate:"required"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if *input.DayOfWeek < 0 || *input.DayOfWeek > 6 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "day_of_week must be 0-6"})
	}

	var user models.User
	if err := c.DB.Where("id = ? AND is_tailor = ?", input.UserId, true).First(&user).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tailor not found"})
	}

	actingUser := int(middleware.ActingUserID(ctx))

	var sched models.TailorSchedule
	err := c.DB.Where("user_id = ? AND day_of_week = ?", input.UserId, *input.DayOfWeek).First(&sched).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		sched = models.TailorSchedule{
			UserId:    input.UserId,
			DayOfWeek: *input.DayOfWeek,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			CreatedBy: actingUser,
		}
		if err := c.DB.Create(&sched).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	} else {
		sched.StartTime = input.StartTime
		sched.EndTime = input.EndTime
		sched.UpdatedBy = actingUser
		if err := c.DB.Save(&sched).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Schedule saved successfully", "data": sched})
}

func (c *TailorController) DeleteSchedule(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	result := c.DB.Delete(&models.TailorSchedule{}, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": result.Error.Error()})
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Schedule not found"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Schedule deleted successfully"})
}
