package controllers

import (
	"fmt"
	"time"

	"tailor-app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// ExportJobs writes the current alteration jobs to an Excel sheet.
func (c *ReportController) ExportJobs(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.AlterationJob{}).
		Preload("Customer").
		Preload("Parts")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var jobs []models.AlterationJob
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Alteration Jobs"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Job Number", "QR Code", "Customer", "Order Status", "Status", "Rush", "Due Date", "Parts", "Received"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, job := range jobs {
		customerName := ""
		if job.Customer != nil {
			customerName = job.Customer.FirstName + " " + job.Customer.LastName
		}
		dueDate := ""
		if job.DueDate != nil {
			dueDate = job.DueDate.Format("2006-01-02")
		}
		received := ""
		if job.ReceivedDate != nil {
			received = job.ReceivedDate.Format("2006-01-02")
		}

		values := []interface{}{
			job.JobNumber, job.QRCode, customerName, string(job.OrderStatus),
			string(job.Status), job.Rush, dueDate, len(job.Parts), received,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("alteration_jobs_%s.xlsx", time.Now().Format("20060102"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Send(buf.Bytes())
}

// ExportCommissions writes commission lines for a date range to Excel.
func (c *ReportController) ExportCommissions(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.Commission{}).Preload("User")

	if from := ctx.Query("date_from"); from != "" {
		query = query.Where("sale_date >= ?", from)
	}
	if to := ctx.Query("date_to"); to != "" {
		query = query.Where("sale_date <= ?", to)
	}

	var commissions []models.Commission
	if err := query.Order("sale_date ASC").Find(&commissions).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Commissions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Sale Date", "Associate", "POS Sale ID", "Sale Amount", "Rate", "Commission"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, cm := range commissions {
		name := ""
		if cm.User != nil {
			name = cm.User.Name
		}
		values := []interface{}{
			cm.SaleDate.Format("2006-01-02"), name, cm.PosSaleId,
			cm.SaleAmount, cm.Rate, cm.Amount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("commissions_%s.xlsx", time.Now().Format("20060102"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Send(buf.Bytes())
}
