package repositories

import (
	"errors"
	"time"

	"tailor-app/models"
	"tailor-app/services"

	"gorm.io/gorm"
)

// AlterationRepository backs the scan, assignment and workflow services.
// Lookups return (nil, nil) for missing rows so the services can map them
// to their own not-found conditions.
type AlterationRepository struct {
	db *gorm.DB
}

func NewAlterationRepository(db *gorm.DB) *AlterationRepository {
	return &AlterationRepository{db: db}
}

func (r *AlterationRepository) PartByQRCode(code string) (*models.AlterationJobPart, error) {
	var part models.AlterationJobPart
	err := r.db.Preload("Job").Where("qr_code = ?", code).First(&part).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &part, nil
}

func (r *AlterationRepository) JobByQRCode(code string) (*models.AlterationJob, error) {
	var job models.AlterationJob
	err := r.db.Where("qr_code = ?", code).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *AlterationRepository) JobByID(jobID int64) (*models.AlterationJob, error) {
	var job models.AlterationJob
	err := r.db.First(&job, "id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *AlterationRepository) JobWithParts(jobID int64) (*models.AlterationJob, error) {
	var job models.AlterationJob
	err := r.db.Preload("Parts", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).First(&job, "id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *AlterationRepository) JobParts(jobID int64) ([]models.AlterationJobPart, error) {
	var parts []models.AlterationJobPart
	if err := r.db.Where("job_id = ?", jobID).Order("sort_order ASC, id ASC").Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *AlterationRepository) SavePart(part *models.AlterationJobPart) error {
	return r.db.Save(part).Error
}

func (r *AlterationRepository) UpdateJobStatus(jobID int64, status models.AlterationStatus) error {
	return r.db.Model(&models.AlterationJob{}).Where("id = ?", jobID).Update("status", status).Error
}

func (r *AlterationRepository) AppendScanLog(entry *models.QRScanLog) error {
	return r.db.Create(entry).Error
}

func (r *AlterationRepository) PartDetail(id uint) (*models.AlterationJobPart, error) {
	var part models.AlterationJobPart
	err := r.db.
		Preload("Job").
		Preload("Job.Customer").
		Preload("Tasks").
		Preload("AssignedUser").
		First(&part, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &part, nil
}

func (r *AlterationRepository) QualifiedAbilities(taskType models.TaskType, minProficiency int) ([]models.TailorAbility, error) {
	var abilities []models.TailorAbility
	err := r.db.Preload("User").
		Joins("JOIN users ON users.id = tailor_abilities.user_id AND users.is_tailor = ? AND users.is_active = ? AND users.deleted_at IS NULL", true, true).
		Where("tailor_abilities.task_type = ? AND tailor_abilities.proficiency >= ?", taskType, minProficiency).
		Order("tailor_abilities.proficiency DESC").
		Find(&abilities).Error
	if err != nil {
		return nil, err
	}
	return abilities, nil
}

func (r *AlterationRepository) ScheduleFor(userID uint, day time.Weekday) (*models.TailorSchedule, error) {
	var sched models.TailorSchedule
	err := r.db.Where("user_id = ? AND day_of_week = ?", userID, int(day)).First(&sched).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sched, nil
}

// DailyWorkloadMinutes sums the estimated minutes of a tailor's pending and
// in-progress parts scheduled on the given day. Parts without an estimate
// count at the default.
func (r *AlterationRepository) DailyWorkloadMinutes(userID uint, day time.Time, defaultMinutes int) (int, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	sql := `SELECT COALESCE(SUM(CASE WHEN estimated_minutes > 0 THEN estimated_minutes ELSE ? END), 0)
	FROM alteration_job_parts
	WHERE assigned_user_id = ?
	AND scheduled_for >= ? AND scheduled_for < ?
	AND status IN (?, ?)
	AND deleted_at IS NULL`

	var total int
	err := r.db.Raw(sql, defaultMinutes, userID, dayStart, dayEnd,
		models.StatusNotStarted, models.StatusInProgress).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *AlterationRepository) TaskTypeDefaultMinutes(taskType models.TaskType) (int, error) {
	var def models.TaskTypeDefault
	err := r.db.Where("task_type = ?", taskType).First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return def.DefaultMinutes, nil
}

// SaveAssignments applies one assignment run's part updates in a single
// transaction so a failure midway cannot leave the job half-assigned.
func (r *AlterationRepository) SaveAssignments(updates []services.PartAssignment) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	for _, u := range updates {
		err := tx.Model(&models.AlterationJobPart{}).
			Where("id = ?", u.PartId).
			Updates(map[string]interface{}{
				"assigned_user_id":  u.AssignedUserId,
				"estimated_minutes": u.EstimatedMinutes,
			}).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

func (r *AlterationRepository) StepByID(jobID int64, stepID uint) (*models.AlterationWorkflowStep, error) {
	var step models.AlterationWorkflowStep
	err := r.db.Where("id = ? AND job_id = ?", stepID, jobID).First(&step).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &step, nil
}

func (r *AlterationRepository) SaveStep(step *models.AlterationWorkflowStep) error {
	return r.db.Save(step).Error
}
