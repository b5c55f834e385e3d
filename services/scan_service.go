package services

import (
	"errors"
	"time"

	"tailor-app/models"

	"github.com/rs/zerolog/log"
)

var (
	// ErrUnknownQRCode: the code resolves to no part and no job. Nothing is
	// logged because there is no row to attach the scan to.
	ErrUnknownQRCode = errors.New("qr code does not match any part or job")
	// ErrInvalidScanType: malformed scan intent, rejected before any lookup
	// or log entry.
	ErrInvalidScanType = errors.New("invalid scan type")
	// ErrJobLevelMutation: job-level codes are status probes only, garment
	// state belongs to parts.
	ErrJobLevelMutation = errors.New("job qr codes only accept status checks")
)

const (
	ResultWorkStarted        = "Work started"
	ResultWorkAlreadyStarted = "Work already started"
	ResultWorkCompleted      = "Work completed"
	ResultWorkNotInProgress  = "Work not in progress"
	ResultPartPickedUp       = "Part picked up"
	ResultPartNotReady       = "Part not ready for pickup"
)

// ScanRepository is the persistence surface the scan protocol needs.
// Lookup methods return (nil, nil) when the row does not exist.
type ScanRepository interface {
	PartByQRCode(code string) (*models.AlterationJobPart, error)
	JobByQRCode(code string) (*models.AlterationJob, error)
	JobParts(jobID int64) ([]models.AlterationJobPart, error)
	SavePart(part *models.AlterationJobPart) error
	UpdateJobStatus(jobID int64, status models.AlterationStatus) error
	AppendScanLog(entry *models.QRScanLog) error
	PartDetail(id uint) (*models.AlterationJobPart, error)
}

type ScanService struct {
	repo ScanRepository
}

func NewScanService(repo ScanRepository) *ScanService {
	return &ScanService{repo: repo}
}

type ScanInput struct {
	QRCode   string
	ScanType models.ScanType
	Location string
	Notes    string
	UserID   uint
}

type ScanResult struct {
	Success   bool                      `json:"success"`
	Result    string                    `json:"result"`
	Part      *models.AlterationJobPart `json:"part,omitempty"`
	Job       *models.AlterationJob     `json:"job,omitempty"`
	ScanType  models.ScanType           `json:"scan_type"`
	Timestamp time.Time                 `json:"timestamp"`
}

// Scan translates one physical QR read into a part state transition, logs
// the attempt, and cascades the outcome to job-level status. Invalid
// transitions are not errors: the scan is logged and a descriptive result
// string comes back with Success=false.
func (s *ScanService) Scan(input ScanInput) (*ScanResult, error) {
	if !input.ScanType.Valid() {
		return nil, ErrInvalidScanType
	}

	now := time.Now()

	part, err := s.repo.PartByQRCode(input.QRCode)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return s.scanJobCode(input, now)
	}

	success := true
	mutated := false
	var result string

	switch input.ScanType {
	case models.ScanStartWork:
		if part.Status == models.StatusNotStarted {
			part.Status = models.StatusInProgress
			if part.AssignedUserId == nil {
				uid := input.UserID
				part.AssignedUserId = &uid
			}
			mutated = true
			result = ResultWorkStarted
		} else {
			success = false
			result = ResultWorkAlreadyStarted
		}
	case models.ScanFinishWork:
		if part.Status == models.StatusInProgress {
			part.Status = models.StatusComplete
			mutated = true
			result = ResultWorkCompleted
		} else {
			success = false
			result = ResultWorkNotInProgress
		}
	case models.ScanPickup:
		if part.Status == models.StatusComplete {
			part.Status = models.StatusPickedUp
			mutated = true
			result = ResultPartPickedUp
		} else {
			success = false
			result = ResultPartNotReady
		}
	case models.ScanStatusCheck:
		result = "Status: " + string(part.Status)
	}

	if mutated {
		if err := s.repo.SavePart(part); err != nil {
			return nil, err
		}
		if err := s.cascadeJobStatus(part.JobId); err != nil {
			return nil, err
		}
	}

	entry := &models.QRScanLog{
		QRCode:    input.QRCode,
		PartId:    part.ID,
		JobId:     part.JobId,
		UserId:    input.UserID,
		ScanType:  input.ScanType,
		Location:  input.Location,
		Result:    result,
		Notes:     input.Notes,
		ScannedAt: now,
	}
	if err := s.repo.AppendScanLog(entry); err != nil {
		return nil, err
	}

	detail, err := s.repo.PartDetail(part.ID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		detail = part
	}

	log.Info().
		Str("qr_code", input.QRCode).
		Str("scan_type", string(input.ScanType)).
		Uint("part_id", part.ID).
		Bool("success", success).
		Str("result", result).
		Msg("qr scan processed")

	return &ScanResult{
		Success:   success,
		Result:    result,
		Part:      detail,
		ScanType:  input.ScanType,
		Timestamp: now,
	}, nil
}

// scanJobCode handles codes that resolve to a job instead of a part. Only
// STATUS_CHECK is allowed at job level.
func (s *ScanService) scanJobCode(input ScanInput, now time.Time) (*ScanResult, error) {
	job, err := s.repo.JobByQRCode(input.QRCode)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrUnknownQRCode
	}
	if input.ScanType != models.ScanStatusCheck {
		return nil, ErrJobLevelMutation
	}

	result := "Job status: " + string(job.Status)
	entry := &models.QRScanLog{
		QRCode:    input.QRCode,
		JobId:     job.ID,
		UserId:    input.UserID,
		ScanType:  input.ScanType,
		Location:  input.Location,
		Result:    result,
		Notes:     input.Notes,
		ScannedAt: now,
	}
	if err := s.repo.AppendScanLog(entry); err != nil {
		return nil, err
	}

	return &ScanResult{
		Success:   true,
		Result:    result,
		Job:       job,
		ScanType:  input.ScanType,
		Timestamp: now,
	}, nil
}

// cascadeJobStatus recomputes job status from all sibling parts. Always a
// full re-read, never cached counters, so concurrent scans of different
// parts in the same job converge on the correct answer.
func (s *ScanService) cascadeJobStatus(jobID int64) error {
	parts, err := s.repo.JobParts(jobID)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}

	allPickedUp := true
	allDone := true
	anyStarted := false
	for _, p := range parts {
		if p.Status != models.StatusPickedUp {
			allPickedUp = false
		}
		if p.Status != models.StatusPickedUp && p.Status != models.StatusComplete {
			allDone = false
		}
		if p.Status != models.StatusNotStarted {
			anyStarted = true
		}
	}

	switch {
	case allPickedUp:
		return s.repo.UpdateJobStatus(jobID, models.StatusPickedUp)
	case allDone:
		return s.repo.UpdateJobStatus(jobID, models.StatusComplete)
	case anyStarted:
		return s.repo.UpdateJobStatus(jobID, models.StatusInProgress)
	}
	return nil
}
