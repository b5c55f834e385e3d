package controllers

import (
	"errors"
	"strconv"
	"time"

	"tailor-app/config"
	"tailor-app/middleware"
	"tailor-app/models"
	"tailor-app/repositories"
	"tailor-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AlterationController struct {
	DB       *gorm.DB
	scan     *services.ScanService
	assign   *services.AssignmentService
	workflow *services.WorkflowService
}

func NewAlterationController(db *gorm.DB, notifier services.PickupNotifier) *AlterationController {
	repo := repositories.NewAlterationRepository(db)
	return &AlterationController{
		DB:   db,
		scan: services.NewScanService(repo),
		assign: services.NewAssignmentService(repo, services.AssignmentOptions{
			DailyCapMinutes:    config.DailyWorkloadCapMinutes,
			DefaultTaskMinutes: config.DefaultTaskMinutes,
			MinProficiency:     config.QualifiedProficiency,
		}),
		workflow: services.NewWorkflowService(repo, notifier),
	}
}

type taskInput struct {
	TaskName     string          `json:"task_name" validate:"required"`
	TaskType     models.TaskType `json:"task_type"`
	Measurements string          `json:"measurements"`
	Notes        string          `json:"notes"`
}

type partInput struct {
	PartName         string              `json:"part_name" validate:"required"`
	PartType         models.TaskType     `json:"part_type"`
	Priority         models.PartPriority `json:"priority"`
	EstimatedMinutes int                 `json:"estimated_minutes"`
	ScheduledFor     *time.Time          `json:"scheduled_for"`
	Tasks            []taskInput         `json:"tasks"`
}

type jobInput struct {
	CustomerId    *uint              `json:"customer_id"`
	PartyMemberId *uint              `json:"party_member_id"`
	OrderStatus   models.OrderStatus `json:"order_status"`
	DueDate       *time.Time         `json:"due_date"`
	Rush          bool               `json:"rush"`
	ReceivedDate  *time.Time         `json:"received_date"`
	Remarks       string             `json:"remarks"`
	Parts         []partInput        `json:"parts" validate:"required,min=1,dive"`
}

// CreateJob creates the job with its initial parts and tasks, generates the
// QR codes, and instantiates the workflow checklist, all in one create.
func (c *AlterationController) CreateJob(ctx *fiber.Ctx) error {
	var input jobInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.OrderStatus == "" {
		input.OrderStatus = models.OrderAlterationOnly
	}
	if !input.OrderStatus.Valid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order status"})
	}

	userID := middleware.ActingUserID(ctx)
	now := time.Now()

	job := models.AlterationJob{
		CustomerId:    input.CustomerId,
		PartyMemberId: input.PartyMemberId,
		OrderStatus:   input.OrderStatus,
		Status:        models.StatusNotStarted,
		DueDate:       input.DueDate,
		Rush:          input.Rush,
		ReceivedDate:  input.ReceivedDate,
		Remarks:       input.Remarks,
		CreatedBy:     int(userID),
	}

	for i, p := range input.Parts {
		if p.PartType == "" {
			p.PartType = models.TaskAlteration
		}
		if !p.PartType.Valid() {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid part type: " + string(p.PartType)})
		}
		if p.Priority == "" {
			p.Priority = models.PriorityNormal
		}
		if !p.Priority.Valid() {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid priority: " + string(p.Priority)})
		}

		part := models.AlterationJobPart{
			PartName:         p.PartName,
			PartType:         p.PartType,
			Priority:         p.Priority,
			EstimatedMinutes: p.EstimatedMinutes,
			ScheduledFor:     p.ScheduledFor,
			Status:           models.StatusNotStarted,
			SortOrder:        i + 1,
			CreatedBy:        int(userID),
		}
		for _, t := range p.Tasks {
			if t.TaskType == "" {
				t.TaskType = models.TaskAlteration
			}
			part.Tasks = append(part.Tasks, models.AlterationTask{
				TaskName:     t.TaskName,
				TaskType:     t.TaskType,
				Measurements: t.Measurements,
				Notes:        t.Notes,
				CreatedBy:    int(userID),
			})
		}
		job.Parts = append(job.Parts, part)
	}

	job.WorkflowSteps = services.BuildWorkflowSteps(job.OrderStatus, now, userID)

	if err := c.DB.Create(&job).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Alteration job created successfully", "data": job})
}

func (c *AlterationController) GetAllJobs(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.AlterationJob{}).
		Preload("Customer").
		Preload("PartyMember.Customer").
		Preload("Parts", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if rush := ctx.Query("rush"); rush != "" {
		query = query.Where("rush = ?", rush == "true")
	}
	if dueFrom := ctx.Query("due_from"); dueFrom != "" {
		query = query.Where("due_date >= ?", dueFrom)
	}
	if dueTo := ctx.Query("due_to"); dueTo != "" {
		query = query.Where("due_date <= ?", dueTo)
	}

	var jobs []models.AlterationJob
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Alteration jobs found", "data": jobs})
}

func (c *AlterationController) GetJobByID(ctx *fiber.Ctx) error {
	jobID, err := parseJobID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job ID"})
	}

	var job models.AlterationJob
	err = c.DB.
		Preload("Customer").
		Preload("PartyMember.Customer").
		Preload("Parts", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Parts.Tasks").
		Preload("Parts.AssignedUser").
		Preload("WorkflowSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("WorkflowSteps.CompletedUser").
		First(&job, "id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Alteration job not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Alteration job found", "data": job})
}

func (c *AlterationController) UpdateJob(ctx *fiber.Ctx) error {
	jobID, err := parseJobID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job ID"})
	}

	var input struct {
		OrderStatus  *models.OrderStatus `json:"order_status"`
		DueDate      *time.Time          `json:"due_date"`
		Rush         *bool               `json:"rush"`
		ReceivedDate *time.Time          `json:"received_date"`
		Remarks      *string             `json:"remarks"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var job models.AlterationJob
	if err := c.DB.First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Alteration job not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{
		"updated_by": int(middleware.ActingUserID(ctx)),
	}
	if input.OrderStatus != nil {
		if !input.OrderStatus.Valid() {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order status"})
		}
		updates["order_status"] = *input.OrderStatus
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.Rush != nil {
		updates["rush"] = *input.Rush
	}
	if input.ReceivedDate != nil {
		updates["received_date"] = *input.ReceivedDate
	}
	if input.Remarks != nil {
		updates["remarks"] = *input.Remarks
	}

	if err := c.DB.Model(&job).Updates(updates).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Alteration job updated successfully", "data": job})
}

// DeleteJob is the explicit admin action; jobs are never removed any other
// way.
func (c *AlterationController) DeleteJob(ctx *fiber.Ctx) error {
	jobID, err := parseJobID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job ID"})
	}

	result := c.DB.Delete(&models.AlterationJob{}, "id = ?", jobID)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": result.Error.Error()})
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Alteration job not found"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Alteration job deleted successfully"})
}

// AddPart appends a garment part to an existing job.
func (c *AlterationController) AddPart(ctx *fiber.Ctx) error {
	jobID, err := parseJobID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job ID"})
	}

	var input partInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var job models.AlterationJob
	if err := c.DB.First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Alteration job not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if input.PartType == "" {
		input.PartType = models.TaskAlteration
	}
	if input.Priority == "" {
		input.Priority = models.PriorityNormal
	}

	var maxOrder int
	c.DB.Model(&models.AlterationJobPart{}).Where("job_id = ?", jobID).
		Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder)

	part := models.AlterationJobPart{
		JobId:            job.ID,
		PartName:         input.PartName,
		PartType:         input.PartType,
		Priority:         input.Priority,
		EstimatedMinutes: input.EstimatedMinutes,
		ScheduledFor:     input.ScheduledFor,
		Status:           models.StatusNotStarted,
		SortOrder:        maxOrder + 1,
		CreatedBy:        int(middleware.ActingUserID(ctx)),
	}
	for _, t := range input.Tasks {
		if t.TaskType == "" {
			t.TaskType = models.TaskAlteration
		}
		part.Tasks = append(part.Tasks, models.AlterationTask{
			TaskName:     t.TaskName,
			TaskType:     t.TaskType,
			Measurements: t.Measurements,
			Notes:        t.Notes,
		})
	}

	if err := c.DB.Create(&part).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Part added successfully", "data": part})
}

// Scan is the entry point for the physical QR protocol. The caller is
// already authenticated by the route middleware.
func (c *AlterationController) Scan(ctx *fiber.Ctx) error {
	var input struct {
		QRCode   string          `json:"qr_code" validate:"required"`
		ScanType models.ScanType `json:"scan_type" validate:"required"`
		Location string          `json:"location"`
		Notes    string          `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := c.scan.Scan(services.ScanInput{
		QRCode:   input.QRCode,
		ScanType: input.ScanType,
		Location: input.Location,
		Notes:    input.Notes,
		UserID:   middleware.ActingUserID(ctx),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidScanType), errors.Is(err, services.ErrJobLevelMutation):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrUnknownQRCode):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "QR code not found"})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   result.Success,
		"result":    result.Result,
		"part":      result.Part,
		"job":       result.Job,
		"scan_type": result.ScanType,
		"timestamp": result.Timestamp,
	})
}

// GetScanLogs lists scan history, most recent first.
func (c *AlterationController) GetScanLogs(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.QRScanLog{}).
		Preload("User").
		Preload("Part").
		Preload("Part.Job")

	if qrCode := ctx.Query("qr_code"); qrCode != "" {
		query = query.Where("qr_code = ?", qrCode)
	}
	if partID := ctx.QueryInt("part_id"); partID > 0 {
		query = query.Where("part_id = ?", partID)
	}
	if userID := ctx.QueryInt("user_id"); userID > 0 {
		query = query.Where("user_id = ?", userID)
	}

	limit := ctx.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var logs []models.QRScanLog
	if err := query.Order("scanned_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Scan logs found", "data": logs})
}

// AutoAssign runs the assignment engine for a job, or applies an explicit
// assignment list when one is provided.
func (c *AlterationController) AutoAssign(ctx *fiber.Ctx) error {
	jobID, err := parseJobID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job ID"})
	}

	var input struct {
		Assignments []services.ManualAssignment `json:"assignments"`
		Force       bool                        `json:"force"`
	}
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&input); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	assignments, err := c.assign.AutoAssign(jobID, input.Assignments, input.Force)
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Alteration job not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Assignment completed", "assignments": assignments})
}

// UpdateWorkflowStep sets a milestone's completion state. Steps carry no
// ordering constraint.
func (c *AlterationController) UpdateWorkflowStep(ctx *fiber.Ctx) error {
	jobID, err := parseJobID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid job ID"})
	}
	stepID, err := ctx.ParamsInt("step_id")
	if err != nil || stepID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid step ID"})
	}

	var input struct {
		Completed bool    `json:"completed"`
		Notes     *string `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	step, err := c.workflow.UpdateStep(jobID, uint(stepID), input.Completed, input.Notes, middleware.ActingUserID(ctx))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrJobNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Alteration job not found"})
		case errors.Is(err, services.ErrStepNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workflow step not found"})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Workflow step updated successfully", "data": step})
}

func parseJobID(ctx *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(ctx.Params("job_id"), 10, 64)
}
