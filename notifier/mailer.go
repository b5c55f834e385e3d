package notifier

import (
	"fmt"

	"tailor-app/config"
	"tailor-app/models"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Mailer sends shop notifications over SMTP. With no SMTP host configured
// it degrades to logging, so development setups work without a mail server.
type Mailer struct {
	DB *gorm.DB
}

func NewMailer(db *gorm.DB) *Mailer {
	return &Mailer{DB: db}
}

func (m *Mailer) enabled() bool {
	return config.SMTPHost != ""
}

func (m *Mailer) send(to, subject, body string) {
	if to == "" {
		return
	}
	if !m.enabled() {
		log.Info().Str("to", to).Str("subject", subject).Msg("smtp not configured, mail skipped")
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.MailFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send mail")
	}
}

// PickupReady mails the customer when a job's Ready for Pickup milestone is
// completed. Best-effort: failures are logged, never propagated.
func (m *Mailer) PickupReady(job *models.AlterationJob) {
	customer := m.resolveCustomer(job)
	if customer == nil {
		return
	}

	subject := fmt.Sprintf("Your alterations are ready for pickup (%s)", job.JobNumber)
	body := fmt.Sprintf("Hi %s,\n\nYour alteration order %s is ready for pickup at the shop.\n\nSee you soon!",
		customer.FirstName, job.JobNumber)
	m.send(customer.Email, subject, body)
}

// AppointmentReminder mails the customer ahead of an upcoming appointment.
func (m *Mailer) AppointmentReminder(appointment *models.Appointment) {
	if appointment.Customer == nil {
		return
	}
	subject := fmt.Sprintf("Appointment reminder: %s on %s",
		appointment.Type, appointment.StartsAt.Format("Mon Jan 2 3:04 PM"))
	body := fmt.Sprintf("Hi %s,\n\nThis is a reminder of your %s appointment on %s.\n\nSee you soon!",
		appointment.Customer.FirstName, appointment.Type,
		appointment.StartsAt.Format("Monday, January 2 at 3:04 PM"))
	m.send(appointment.Customer.Email, subject, body)
}

// OverdueJobs mails the front desk a digest of jobs past their due date.
func (m *Mailer) OverdueJobs(jobs []models.AlterationJob) {
	if len(jobs) == 0 || config.FrontDeskTo == "" {
		return
	}
	body := "The following alteration jobs are past due:\n\n"
	for _, job := range jobs {
		due := ""
		if job.DueDate != nil {
			due = job.DueDate.Format("2006-01-02")
		}
		body += fmt.Sprintf("- %s (due %s, status %s)\n", job.JobNumber, due, job.Status)
	}
	m.send(config.FrontDeskTo, fmt.Sprintf("%d overdue alteration jobs", len(jobs)), body)
}

func (m *Mailer) resolveCustomer(job *models.AlterationJob) *models.Customer {
	if job.Customer != nil {
		return job.Customer
	}
	if job.CustomerId != nil {
		var customer models.Customer
		if err := m.DB.First(&customer, *job.CustomerId).Error; err == nil {
			return &customer
		}
	}
	if job.PartyMemberId != nil {
		var member models.PartyMember
		if err := m.DB.Preload("Customer").First(&member, *job.PartyMemberId).Error; err == nil {
			return member.Customer
		}
	}
	return nil
}
