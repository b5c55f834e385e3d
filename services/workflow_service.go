package services

import (
	"errors"
	"time"

	"tailor-app/models"

	"github.com/rs/zerolog/log"
)

var ErrStepNotFound = errors.New("workflow step not found")

type WorkflowRepository interface {
	JobByID(jobID int64) (*models.AlterationJob, error)
	StepByID(jobID int64, stepID uint) (*models.AlterationWorkflowStep, error)
	SaveStep(step *models.AlterationWorkflowStep) error
}

// PickupNotifier is notified when a job's "Ready for Pickup" milestone is
// marked complete. Delivery is best-effort.
type PickupNotifier interface {
	PickupReady(job *models.AlterationJob)
}

type WorkflowService struct {
	repo     WorkflowRepository
	notifier PickupNotifier
}

func NewWorkflowService(repo WorkflowRepository, notifier PickupNotifier) *WorkflowService {
	return &WorkflowService{repo: repo, notifier: notifier}
}

// BuildWorkflowSteps instantiates the canonical milestone checklist for a
// new job. "Measured" starts out complete for alteration-only jobs: the
// garment is already owned, so no new suit has to be measured for.
func BuildWorkflowSteps(orderStatus models.OrderStatus, now time.Time, userID uint) []models.AlterationWorkflowStep {
	steps := make([]models.AlterationWorkflowStep, 0, len(models.WorkflowTemplate))
	for _, entry := range models.WorkflowTemplate {
		step := models.AlterationWorkflowStep{
			StepName:  entry.Name,
			StepType:  entry.StepType,
			SortOrder: entry.SortOrder,
		}
		if entry.Name == models.StepMeasured && orderStatus == models.OrderAlterationOnly {
			completedAt := now
			uid := userID
			step.Completed = true
			step.CompletedAt = &completedAt
			step.CompletedUserId = &uid
		}
		steps = append(steps, step)
	}
	return steps
}

// UpdateStep sets the completion state of one milestone. Steps may be
// completed in any order; the front desk backfills milestones after the
// fact all the time, so no sort-order validation here.
func (s *WorkflowService) UpdateStep(jobID int64, stepID uint, completed bool, notes *string, userID uint) (*models.AlterationWorkflowStep, error) {
	job, err := s.repo.JobByID(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	step, err := s.repo.StepByID(jobID, stepID)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, ErrStepNotFound
	}

	wasCompleted := step.Completed
	step.Completed = completed
	if completed {
		now := time.Now()
		uid := userID
		step.CompletedAt = &now
		step.CompletedUserId = &uid
	} else {
		step.CompletedAt = nil
		step.CompletedUserId = nil
	}
	if notes != nil {
		step.Notes = *notes
	}

	if err := s.repo.SaveStep(step); err != nil {
		return nil, err
	}

	if completed && !wasCompleted && step.StepName == models.StepReadyForPickup && s.notifier != nil {
		s.notifier.PickupReady(job)
	}

	log.Info().
		Int64("job_id", jobID).
		Str("step", step.StepName).
		Bool("completed", completed).
		Msg("workflow step updated")

	return step, nil
}
