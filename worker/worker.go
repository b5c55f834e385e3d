package worker

import (
	"errors"
	"time"

	"tailor-app/config"
	"tailor-app/integration"
	"tailor-app/models"
	"tailor-app/notifier"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Worker runs the shop's background loops: the overdue-job sweep, the
// appointment reminders, and the POS sales poll feeding commissions.
type Worker struct {
	db         *gorm.DB
	mailer     *notifier.Mailer
	lightspeed *integration.LightspeedClient
	scheduler  gocron.Scheduler
}

func New(db *gorm.DB, mailer *notifier.Mailer) *Worker {
	return &Worker{
		db:         db,
		mailer:     mailer,
		lightspeed: integration.NewLightspeedClient(),
	}
}

func (w *Worker) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	w.scheduler = scheduler

	if _, err := scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(w.sweepOverdueJobs),
	); err != nil {
		return err
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(w.sendAppointmentReminders),
	); err != nil {
		return err
	}

	if w.lightspeed.Enabled() {
		if _, err := scheduler.NewJob(
			gocron.DurationJob(time.Duration(config.SalesPollMinutes)*time.Minute),
			gocron.NewTask(w.pollSales),
		); err != nil {
			return err
		}
	} else {
		log.Info().Msg("lightspeed credentials not configured, sales poll disabled")
	}

	scheduler.Start()
	log.Info().Msg("background worker started")
	return nil
}

func (w *Worker) Stop() {
	if w.scheduler != nil {
		if err := w.scheduler.Shutdown(); err != nil {
			log.Error().Err(err).Msg("failed to shut down scheduler")
		}
	}
}

// sweepOverdueJobs mails the front desk about jobs past their due date,
// once per job.
func (w *Worker) sweepOverdueJobs() {
	var jobs []models.AlterationJob
	err := w.db.
		Scopes(models.OverdueJobs(time.Now())).
		Where("overdue_mailed = ?", false).
		Find(&jobs).Error
	if err != nil {
		log.Error().Err(err).Msg("overdue sweep query failed")
		return
	}
	if len(jobs) == 0 {
		return
	}

	w.mailer.OverdueJobs(jobs)

	ids := make([]int64, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	if err := w.db.Model(&models.AlterationJob{}).Where("id IN ?", ids).
		Update("overdue_mailed", true).Error; err != nil {
		log.Error().Err(err).Msg("failed to mark overdue jobs as mailed")
	}

	log.Info().Int("jobs", len(jobs)).Msg("overdue sweep completed")
}

// sendAppointmentReminders mails customers about appointments starting in
// the next 24 hours.
func (w *Worker) sendAppointmentReminders() {
	now := time.Now()
	var appointments []models.Appointment
	err := w.db.Preload("Customer").
		Where("status = ?", models.AppointmentScheduled).
		Where("reminder_sent = ?", false).
		Where("starts_at > ? AND starts_at < ?", now, now.Add(24*time.Hour)).
		Find(&appointments).Error
	if err != nil {
		log.Error().Err(err).Msg("appointment reminder query failed")
		return
	}

	for i := range appointments {
		w.mailer.AppointmentReminder(&appointments[i])
		if err := w.db.Model(&appointments[i]).Update("reminder_sent", true).Error; err != nil {
			log.Error().Err(err).Uint("appointment_id", appointments[i].ID).Msg("failed to mark reminder sent")
		}
	}
}

// pollSales pulls completed POS sales and converts them into commission
// lines. The unique pos_sale_id keeps re-polls idempotent.
func (w *Worker) pollSales() {
	since := time.Now().Add(-48 * time.Hour)
	var last models.Commission
	if err := w.db.Order("sale_date DESC").First(&last).Error; err == nil {
		since = last.SaleDate
	}

	sales, err := w.lightspeed.FetchSales(since)
	if err != nil {
		log.Error().Err(err).Msg("lightspeed sales poll failed")
		return
	}

	created := 0
	for _, sale := range sales {
		var existing models.Commission
		err := w.db.Where("pos_sale_id = ?", sale.SaleID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("sale_id", sale.SaleID).Msg("commission lookup failed")
			continue
		}

		var user models.User
		if err := w.db.Where("lightspeed_id = ?", sale.EmployeeID).First(&user).Error; err != nil {
			// No mapped associate; skip and let the next poll retry once
			// the mapping is added.
			continue
		}

		commission := models.Commission{
			UserId:     user.ID,
			PosSaleId:  sale.SaleID,
			SaleAmount: sale.Total,
			Rate:       user.CommissionRate,
			Amount:     sale.Total * user.CommissionRate,
			SaleDate:   sale.TimeStamp,
		}
		if err := w.db.Create(&commission).Error; err != nil {
			log.Error().Err(err).Str("sale_id", sale.SaleID).Msg("failed to create commission")
			continue
		}
		created++
	}

	if created > 0 {
		log.Info().Int("created", created).Msg("sales poll synced commissions")
	}
}
