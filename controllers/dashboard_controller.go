package controllers

import (
	"time"

	"tailor-app/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetDashboard rolls up job counts, the parts-by-status histogram, and the
// latest scan activity. Read-only; every call recomputes from the tables.
func (c *DashboardController) GetDashboard(ctx *fiber.Ctx) error {
	now := time.Now()

	jobQuery := c.DB.Model(&models.AlterationJob{})
	if dateFrom := ctx.Query("date_from"); dateFrom != "" {
		jobQuery = jobQuery.Where("created_at >= ?", dateFrom)
	}
	if dateTo := ctx.Query("date_to"); dateTo != "" {
		jobQuery = jobQuery.Where("created_at <= ?", dateTo)
	}

	var summary struct {
		TotalJobs      int64 `json:"total_jobs"`
		InProgressJobs int64 `json:"in_progress_jobs"`
		CompletedJobs  int64 `json:"completed_jobs"`
		OverdueJobs    int64 `json:"overdue_jobs"`
	}

	if err := jobQuery.Session(&gorm.Session{}).Count(&summary.TotalJobs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := jobQuery.Session(&gorm.Session{}).
		Where("status = ?", models.StatusInProgress).
		Count(&summary.InProgressJobs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := jobQuery.Session(&gorm.Session{}).
		Where("status IN (?, ?)", models.StatusComplete, models.StatusPickedUp).
		Count(&summary.CompletedJobs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := jobQuery.Session(&gorm.Session{}).
		Scopes(models.OverdueJobs(now)).
		Count(&summary.OverdueJobs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	partSQL := `SELECT status, COUNT(*) AS total
	FROM alteration_job_parts
	WHERE deleted_at IS NULL`
	partArgs := []interface{}{}
	if tailorID := ctx.QueryInt("tailor_id"); tailorID > 0 {
		partSQL += ` AND assigned_user_id = ?`
		partArgs = append(partArgs, tailorID)
	}
	partSQL += ` GROUP BY status`

	var partRows []struct {
		Status string `json:"status"`
		Total  int64  `json:"total"`
	}
	if err := c.DB.Raw(partSQL, partArgs...).Scan(&partRows).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	partsByStatus := map[string]int64{
		string(models.StatusNotStarted): 0,
		string(models.StatusInProgress): 0,
		string(models.StatusComplete):   0,
		string(models.StatusPickedUp):   0,
	}
	for _, row := range partRows {
		partsByStatus[row.Status] = row.Total
	}

	limit := ctx.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var recent []models.QRScanLog
	if err := c.DB.
		Preload("User").
		Preload("Part").
		Preload("Part.Job").
		Preload("Part.Job.Customer").
		Preload("Part.Job.PartyMember.Customer").
		Order("scanned_at DESC").
		Limit(limit).
		Find(&recent).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Dashboard found",
		"data": fiber.Map{
			"summary":         summary,
			"parts_by_status": partsByStatus,
			"recent_activity": recent,
		},
	})
}

// GetCommissionLeaderboard ranks sales associates by commission earned in a
// date range.
func (c *DashboardController) GetCommissionLeaderboard(ctx *fiber.Ctx) error {
	sql := `SELECT u.id AS user_id, u.name, COUNT(cm.id) AS sales, COALESCE(SUM(cm.amount), 0) AS total
	FROM users u
	INNER JOIN commissions cm ON cm.user_id = u.id AND cm.deleted_at IS NULL
	WHERE u.deleted_at IS NULL`
	args := []interface{}{}
	if dateFrom := ctx.Query("date_from"); dateFrom != "" {
		sql += ` AND cm.sale_date >= ?`
		args = append(args, dateFrom)
	}
	if dateTo := ctx.Query("date_to"); dateTo != "" {
		sql += ` AND cm.sale_date <= ?`
		args = append(args, dateTo)
	}
	sql += ` GROUP BY u.id, u.name ORDER BY total DESC`

	var rows []struct {
		UserId uint    `json:"user_id"`
		Name   string  `json:"name"`
		Sales  int64   `json:"sales"`
		Total  float64 `json:"total"`
	}
	if err := c.DB.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Leaderboard found", "data": rows})
}
