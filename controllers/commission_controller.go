package controllers

import (
	"time"

	"tailor-app/middleware"
	"tailor-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CommissionController struct {
	DB *gorm.DB
}

func NewCommissionController(db *gorm.DB) *CommissionController {
	return &CommissionController{DB: db}
}

func (c *CommissionController) GetAllCommissions(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.Commission{}).Preload("User")

	if userID := ctx.QueryInt("user_id"); userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if from := ctx.Query("date_from"); from != "" {
		query = query.Where("sale_date >= ?", from)
	}
	if to := ctx.Query("date_to"); to != "" {
		query = query.Where("sale_date <= ?", to)
	}

	var commissions []models.Commission
	if err := query.Order("sale_date DESC").Find(&commissions).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Commissions found", "data": commissions})
}

// CreateCommission records a manual commission line. POS-synced lines come
// in through the worker instead.
func (c *CommissionController) CreateCommission(ctx *fiber.Ctx) error {
	var input struct {
		UserId     uint      `json:"user_id" validate:"required"`
		PosSaleId  string    `json:"pos_sale_id" validate:"required"`
		SaleAmount float64   `json:"sale_amount" validate:"required"`
		Rate       float64   `json:"rate"`
		SaleDate   time.Time `json:"sale_date"`
		Notes      string    `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := c.DB.First(&user, input.UserId).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	rate := input.Rate
	if rate <= 0 {
		rate = user.CommissionRate
	}
	saleDate := input.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	commission := models.Commission{
		UserId:     input.UserId,
		PosSaleId:  input.PosSaleId,
		SaleAmount: input.SaleAmount,
		Rate:       rate,
		Amount:     input.SaleAmount * rate,
		SaleDate:   saleDate,
		Notes:      input.Notes,
		CreatedBy:  int(middleware.ActingUserID(ctx)),
	}

	if err := c.DB.Create(&commission).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Commission created successfully", "data": commission})
}

// GetMonthlySummary totals one user's commissions per month.
func (c *CommissionController) GetMonthlySummary(ctx *fiber.Ctx) error {
	userID := ctx.QueryInt("user_id")
	if userID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	sql := `SELECT to_char(sale_date, 'YYYY-MM') AS month, COUNT(*) AS sales,
	COALESCE(SUM(sale_amount), 0) AS sale_total, COALESCE(SUM(amount), 0) AS commission_total
	FROM commissions
	WHERE user_id = ? AND deleted_at IS NULL
	GROUP BY to_char(sale_date, 'YYYY-MM')
	ORDER BY month DESC`

	var rows []struct {
		Month           string  `json:"month"`
		Sales           int64   `json:"sales"`
		SaleTotal       float64 `json:"sale_total"`
		CommissionTotal float64 `json:"commission_total"`
	}
	if err := c.DB.Raw(sql, userID).Scan(&rows).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Commission summary found", "data": rows})
}
