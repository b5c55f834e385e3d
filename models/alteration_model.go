package models

import (
	"time"

	"tailor-app/controllers/idgen"

	"gorm.io/gorm"
)

type AlterationJob struct {
	gorm.Model
	ID            int64            `json:"id" gorm:"primary_key"`
	JobNumber     string           `json:"job_number" gorm:"unique"`
	QRCode        string           `json:"qr_code" gorm:"unique"`
	CustomerId    *uint            `json:"customer_id"`
	PartyMemberId *uint            `json:"party_member_id"`
	OrderStatus   OrderStatus      `json:"order_status" gorm:"default:'ALTERATION_ONLY'"`
	Status        AlterationStatus `json:"status" gorm:"default:'NOT_STARTED'"`
	DueDate       *time.Time       `json:"due_date"`
	Rush          bool             `json:"rush"`
	ReceivedDate  *time.Time       `json:"received_date"`
	Remarks       string           `json:"remarks"`
	OverdueMailed bool             `json:"overdue_mailed"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int

	// Relations
	Customer      *Customer               `gorm:"foreignKey:CustomerId" json:"customer,omitempty"`
	PartyMember   *PartyMember            `gorm:"foreignKey:PartyMemberId" json:"party_member,omitempty"`
	Parts         []AlterationJobPart     `gorm:"foreignKey:JobId;references:ID;constraint:OnDelete:CASCADE" json:"parts"`
	WorkflowSteps []AlterationWorkflowStep `gorm:"foreignKey:JobId;references:ID;constraint:OnDelete:CASCADE" json:"workflow_steps"`
}

func (j *AlterationJob) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == 0 {
		j.ID = idgen.GenerateID()
	}
	if j.JobNumber == "" {
		j.JobNumber = idgen.JobNumber()
	}
	if j.QRCode == "" {
		j.QRCode = idgen.QRCode("JOB")
	}
	return
}

// Overdue reports whether the job is past due and the garment has not left
// the shop. Jobs without a due date are never overdue.
func (j *AlterationJob) Overdue(now time.Time) bool {
	if j.DueDate == nil {
		return false
	}
	return j.DueDate.Before(now) && j.Status != StatusComplete && j.Status != StatusPickedUp
}

// OverdueJobs is the query-side form of Overdue, shared by the dashboard
// counts and the worker's overdue sweep so the two cannot drift apart.
func OverdueJobs(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("due_date IS NOT NULL AND due_date < ?", now).
			Where("status NOT IN (?, ?)", StatusComplete, StatusPickedUp)
	}
}

type AlterationJobPart struct {
	gorm.Model
	JobId            int64            `json:"job_id" gorm:"index"`
	PartName         string           `json:"part_name"`
	PartType         TaskType         `json:"part_type" gorm:"default:'alteration'"`
	QRCode           string           `json:"qr_code" gorm:"unique"`
	Priority         PartPriority     `json:"priority" gorm:"default:'NORMAL'"`
	EstimatedMinutes int              `json:"estimated_minutes"`
	AssignedUserId   *uint            `json:"assigned_user_id"`
	Status           AlterationStatus `json:"status" gorm:"default:'NOT_STARTED'"`
	ScheduledFor     *time.Time       `json:"scheduled_for"`
	SortOrder        int              `json:"sort_order"`
	CreatedBy        int
	UpdatedBy        int
	DeletedBy        int

	// Relations
	Job          *AlterationJob   `gorm:"foreignKey:JobId;references:ID" json:"job,omitempty"`
	AssignedUser *User            `gorm:"foreignKey:AssignedUserId" json:"assigned_user,omitempty"`
	Tasks        []AlterationTask `gorm:"foreignKey:PartId;constraint:OnDelete:CASCADE" json:"tasks"`
}

func (p *AlterationJobPart) BeforeCreate(tx *gorm.DB) (err error) {
	if p.QRCode == "" {
		p.QRCode = idgen.QRCode("PART")
	}
	return
}

// Tasks are checklist items attached to a part. They carry measurements and
// notes but do not drive part or job state.
type AlterationTask struct {
	gorm.Model
	PartId         uint     `json:"part_id" gorm:"index"`
	TaskName       string   `json:"task_name"`
	TaskType       TaskType `json:"task_type" gorm:"default:'alteration'"`
	Measurements   string   `json:"measurements"`
	Notes          string   `json:"notes"`
	AssignedUserId *uint    `json:"assigned_user_id"`
	CreatedBy      int
	UpdatedBy      int

	AssignedUser *User `gorm:"foreignKey:AssignedUserId" json:"assigned_user,omitempty"`
}

type AlterationWorkflowStep struct {
	gorm.Model
	JobId           int64      `json:"job_id" gorm:"index"`
	StepName        string     `json:"step_name"`
	StepType        string     `json:"step_type"`
	SortOrder       int        `json:"sort_order"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at"`
	CompletedUserId *uint      `json:"completed_user_id"`
	Notes           string     `json:"notes"`

	CompletedUser *User `gorm:"foreignKey:CompletedUserId" json:"completed_user,omitempty"`
}

// QRScanLog is the append-only audit trail of scan events. Rows are created
// once and never updated or deleted.
type QRScanLog struct {
	gorm.Model
	QRCode    string    `json:"qr_code" gorm:"index"`
	PartId    uint      `json:"part_id" gorm:"index"`
	JobId     int64     `json:"job_id" gorm:"index"`
	UserId    uint      `json:"user_id" gorm:"index"`
	ScanType  ScanType  `json:"scan_type"`
	Location  string    `json:"location"`
	Result    string    `json:"result"`
	Notes     string    `json:"notes"`
	ScannedAt time.Time `json:"scanned_at"`

	User *User              `gorm:"foreignKey:UserId" json:"user,omitempty"`
	Part *AlterationJobPart `gorm:"foreignKey:PartId" json:"part,omitempty"`
}
