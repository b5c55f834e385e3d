package services

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"tailor-app/models"

	"github.com/rs/zerolog/log"
)

var ErrJobNotFound = errors.New("alteration job not found")

const (
	ReasonAvailable       = "Available"
	ReasonAssigned        = "Assigned"
	ReasonAlreadyAssigned = "Already assigned"
	ReasonNoTailor        = "No available tailor"
	ReasonOutOfSchedule   = "Out of schedule"
	ReasonMaxWorkload     = "Max workload reached"
	ReasonLookupFailed    = "Lookup failed"
	ReasonManualOverride  = "Manual override"
	ReasonPartNotInJob    = "Part not found in job"
)

// AssignmentRepository is the persistence surface of the auto-assignment
// engine. TailorAbility and TailorSchedule are read-only inputs here.
type AssignmentRepository interface {
	JobWithParts(jobID int64) (*models.AlterationJob, error)
	QualifiedAbilities(taskType models.TaskType, minProficiency int) ([]models.TailorAbility, error)
	ScheduleFor(userID uint, day time.Weekday) (*models.TailorSchedule, error)
	DailyWorkloadMinutes(userID uint, day time.Time, defaultMinutes int) (int, error)
	TaskTypeDefaultMinutes(taskType models.TaskType) (int, error)
	SaveAssignments(updates []PartAssignment) error
}

// Candidate is one considered tailor for one part, kept in the response for
// diagnostics whether or not they were eligible.
type Candidate struct {
	UserId      uint   `json:"user_id"`
	Name        string `json:"name"`
	Proficiency int    `json:"proficiency"`
	Workload    int    `json:"workload"`
	Reason      string `json:"reason"`
}

// PartAssignment is the per-part outcome. AssignedUserId nil means the part
// is left unassigned; Reason says why.
type PartAssignment struct {
	PartId           uint        `json:"part_id"`
	PartName         string      `json:"part_name"`
	AssignedUserId   *uint       `json:"assigned_user_id"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	Reason           string      `json:"reason"`
	Candidates       []Candidate `json:"candidates,omitempty"`
}

// ManualAssignment applies one (part, tailor) pair verbatim, including
// explicit un-assignment via a nil tailor.
type ManualAssignment struct {
	PartId         uint  `json:"part_id"`
	AssignedUserId *uint `json:"assigned_user_id"`
}

type AssignmentOptions struct {
	DailyCapMinutes    int
	DefaultTaskMinutes int
	MinProficiency     int
}

type AssignmentService struct {
	repo AssignmentRepository
	opts AssignmentOptions
}

func NewAssignmentService(repo AssignmentRepository, opts AssignmentOptions) *AssignmentService {
	if opts.DailyCapMinutes <= 0 {
		opts.DailyCapMinutes = 480
	}
	if opts.DefaultTaskMinutes <= 0 {
		opts.DefaultTaskMinutes = 60
	}
	if opts.MinProficiency <= 0 {
		opts.MinProficiency = 3
	}
	return &AssignmentService{repo: repo, opts: opts}
}

// AutoAssign fills in tailors for a job's parts. When overrides are given
// they are applied verbatim and the algorithm never runs. A part with no
// eligible tailor is left unassigned with its reason retained; only a
// missing job or a storage failure is fatal.
func (s *AssignmentService) AutoAssign(jobID int64, overrides []ManualAssignment, force bool) ([]PartAssignment, error) {
	job, err := s.repo.JobWithParts(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	if len(overrides) > 0 {
		return s.applyOverrides(job, overrides)
	}

	results := make([]PartAssignment, 0, len(job.Parts))
	updates := make([]PartAssignment, 0, len(job.Parts))

	// The anti-repetition heuristic carries the previous part's tailor
	// across iterations, so parts are walked strictly in stored order.
	var prevTailor *uint
	// Minutes already committed to a tailor earlier in this invocation,
	// keyed by tailor and day. Not yet persisted, so the workload query
	// cannot see them.
	inRun := map[uint]map[string]int{}

	for _, part := range job.Parts {
		if part.AssignedUserId != nil && !force {
			prevTailor = part.AssignedUserId
			results = append(results, PartAssignment{
				PartId:           part.ID,
				PartName:         part.PartName,
				AssignedUserId:   part.AssignedUserId,
				EstimatedMinutes: part.EstimatedMinutes,
				Reason:           ReasonAlreadyAssigned,
			})
			continue
		}

		pa := s.assignPart(&part, prevTailor, inRun)
		if pa.AssignedUserId != nil {
			day := dayKey(scheduledDay(&part))
			if inRun[*pa.AssignedUserId] == nil {
				inRun[*pa.AssignedUserId] = map[string]int{}
			}
			inRun[*pa.AssignedUserId][day] += pa.EstimatedMinutes
		}
		prevTailor = pa.AssignedUserId
		results = append(results, pa)
		updates = append(updates, pa)
	}

	if len(updates) > 0 {
		if err := s.repo.SaveAssignments(updates); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int64("job_id", jobID).
		Int("parts", len(results)).
		Msg("auto-assignment completed")

	return results, nil
}

// assignPart runs the candidate search for one part. Lookup failures are
// isolated here so one bad part never aborts the rest of the job.
func (s *AssignmentService) assignPart(part *models.AlterationJobPart, prevTailor *uint, inRun map[uint]map[string]int) PartAssignment {
	duration := part.EstimatedMinutes
	if duration <= 0 {
		if d, err := s.repo.TaskTypeDefaultMinutes(part.PartType); err == nil && d > 0 {
			duration = d
		}
	}
	if duration <= 0 {
		duration = s.opts.DefaultTaskMinutes
	}

	pa := PartAssignment{
		PartId:           part.ID,
		PartName:         part.PartName,
		EstimatedMinutes: duration,
	}

	abilities, err := s.repo.QualifiedAbilities(part.PartType, s.opts.MinProficiency)
	if err != nil {
		log.Warn().Err(err).Uint("part_id", part.ID).Msg("ability lookup failed")
		pa.Reason = ReasonLookupFailed
		return pa
	}
	if len(abilities) == 0 {
		pa.Reason = ReasonNoTailor
		return pa
	}

	day := scheduledDay(part)

	for _, ability := range abilities {
		cand := Candidate{
			UserId:      ability.UserId,
			Proficiency: ability.Proficiency,
		}
		if ability.User != nil {
			cand.Name = ability.User.Name
		}

		sched, err := s.repo.ScheduleFor(ability.UserId, day.Weekday())
		if err != nil {
			cand.Reason = ReasonLookupFailed
			pa.Candidates = append(pa.Candidates, cand)
			continue
		}
		if sched == nil || !fitsShiftWindow(sched, part.ScheduledFor, duration) {
			cand.Reason = ReasonOutOfSchedule
			pa.Candidates = append(pa.Candidates, cand)
			continue
		}

		workload, err := s.repo.DailyWorkloadMinutes(ability.UserId, day, s.opts.DefaultTaskMinutes)
		if err != nil {
			cand.Reason = ReasonLookupFailed
			pa.Candidates = append(pa.Candidates, cand)
			continue
		}
		workload += inRun[ability.UserId][dayKey(day)]
		cand.Workload = workload

		if workload+duration > s.opts.DailyCapMinutes {
			cand.Reason = ReasonMaxWorkload
		} else {
			cand.Reason = ReasonAvailable
		}
		pa.Candidates = append(pa.Candidates, cand)
	}

	available := make([]Candidate, 0, len(pa.Candidates))
	for _, c := range pa.Candidates {
		if c.Reason == ReasonAvailable {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		pa.Reason = ReasonNoTailor
		return pa
	}

	// Least-loaded first; on equal workload the most skilled wins.
	sort.SliceStable(available, func(i, j int) bool {
		if available[i].Workload != available[j].Workload {
			return available[i].Workload < available[j].Workload
		}
		return available[i].Proficiency > available[j].Proficiency
	})

	pick := available[0]
	if prevTailor != nil && pick.UserId == *prevTailor && len(available) > 1 {
		pick = available[1]
	}

	chosen := pick.UserId
	pa.AssignedUserId = &chosen
	pa.Reason = ReasonAssigned
	return pa
}

func (s *AssignmentService) applyOverrides(job *models.AlterationJob, overrides []ManualAssignment) ([]PartAssignment, error) {
	partsByID := make(map[uint]*models.AlterationJobPart, len(job.Parts))
	for i := range job.Parts {
		partsByID[job.Parts[i].ID] = &job.Parts[i]
	}

	results := make([]PartAssignment, 0, len(overrides))
	updates := make([]PartAssignment, 0, len(overrides))

	for _, o := range overrides {
		part, ok := partsByID[o.PartId]
		if !ok {
			results = append(results, PartAssignment{
				PartId: o.PartId,
				Reason: ReasonPartNotInJob,
			})
			continue
		}
		pa := PartAssignment{
			PartId:           part.ID,
			PartName:         part.PartName,
			AssignedUserId:   o.AssignedUserId,
			EstimatedMinutes: part.EstimatedMinutes,
			Reason:           ReasonManualOverride,
		}
		results = append(results, pa)
		updates = append(updates, pa)
	}

	if len(updates) > 0 {
		if err := s.repo.SaveAssignments(updates); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func scheduledDay(part *models.AlterationJobPart) time.Time {
	if part.ScheduledFor != nil {
		return *part.ScheduledFor
	}
	return time.Now()
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// fitsShiftWindow checks the proposed work interval against the tailor's
// shift. An unscheduled part only needs the shift to exist for that day.
func fitsShiftWindow(sched *models.TailorSchedule, scheduledFor *time.Time, duration int) bool {
	if scheduledFor == nil {
		return true
	}
	shiftStart, okStart := parseClock(sched.StartTime)
	shiftEnd, okEnd := parseClock(sched.EndTime)
	if !okStart || !okEnd {
		return false
	}
	start := scheduledFor.Hour()*60 + scheduledFor.Minute()
	end := start + duration
	return start >= shiftStart && end <= shiftEnd
}

// parseClock turns "HH:MM" into minutes since midnight. "24:00" is accepted
// as 1440 so a shift can end exactly at midnight.
func parseClock(v string) (int, bool) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if h == 24 && m != 0 {
		return 0, false
	}
	return h*60 + m, true
}
