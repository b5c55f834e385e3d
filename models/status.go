package models

// AlterationStatus is shared by jobs and parts. Parts only ever move forward
// through these values via the scan protocol.
type AlterationStatus string

const (
	StatusNotStarted AlterationStatus = "NOT_STARTED"
	StatusInProgress AlterationStatus = "IN_PROGRESS"
	StatusComplete   AlterationStatus = "COMPLETE"
	StatusPickedUp   AlterationStatus = "PICKED_UP"
)

// Rank gives the forward ordering of the part state machine.
func (s AlterationStatus) Rank() int {
	switch s {
	case StatusNotStarted:
		return 0
	case StatusInProgress:
		return 1
	case StatusComplete:
		return 2
	case StatusPickedUp:
		return 3
	}
	return -1
}

func (s AlterationStatus) Valid() bool {
	return s.Rank() >= 0
}

type OrderStatus string

const (
	OrderAlterationOnly OrderStatus = "ALTERATION_ONLY"
	OrderInStock        OrderStatus = "IN_STOCK"
	OrderOrdered        OrderStatus = "ORDERED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderAlterationOnly, OrderInStock, OrderOrdered:
		return true
	}
	return false
}

type PartPriority string

const (
	PriorityLow    PartPriority = "LOW"
	PriorityNormal PartPriority = "NORMAL"
	PriorityHigh   PartPriority = "HIGH"
	PriorityRush   PartPriority = "RUSH"
)

func (p PartPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityRush:
		return true
	}
	return false
}

// ScanType is the declared intent of a physical QR scan.
type ScanType string

const (
	ScanStartWork   ScanType = "START_WORK"
	ScanFinishWork  ScanType = "FINISH_WORK"
	ScanPickup      ScanType = "PICKUP"
	ScanStatusCheck ScanType = "STATUS_CHECK"
)

func (s ScanType) Valid() bool {
	switch s {
	case ScanStartWork, ScanFinishWork, ScanPickup, ScanStatusCheck:
		return true
	}
	return false
}

type TaskType string

const (
	TaskAlteration  TaskType = "alteration"
	TaskButtonWork  TaskType = "button_work"
	TaskMeasurement TaskType = "measurement"
	TaskCustom      TaskType = "custom"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskAlteration, TaskButtonWork, TaskMeasurement, TaskCustom:
		return true
	}
	return false
}

type AppointmentType string

const (
	AppointmentFitting      AppointmentType = "fitting"
	AppointmentPickup       AppointmentType = "pickup"
	AppointmentConsultation AppointmentType = "consultation"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentFitting, AppointmentPickup, AppointmentConsultation:
		return true
	}
	return false
}

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCanceled  = "canceled"
)

// WorkflowTemplateEntry is one row of the fixed job milestone checklist.
type WorkflowTemplateEntry struct {
	Name      string
	StepType  string
	SortOrder int
}

const (
	StepMeasured       = "Measured"
	StepReadyForPickup = "Ready for Pickup"
)

// WorkflowTemplate is the canonical 8-step milestone list instantiated per
// job at creation time. Sort orders are fixed here and never reordered.
var WorkflowTemplate = []WorkflowTemplateEntry{
	{Name: StepMeasured, StepType: "measurement", SortOrder: 1},
	{Name: "Suit Ordered", StepType: "ordering", SortOrder: 2},
	{Name: "Suit Arrived", StepType: "receiving", SortOrder: 3},
	{Name: "Alterations Marked", StepType: "marking", SortOrder: 4},
	{Name: "Complete", StepType: "work", SortOrder: 5},
	{Name: "QC Checked", StepType: "qc", SortOrder: 6},
	{Name: StepReadyForPickup, StepType: "pickup", SortOrder: 7},
	{Name: "Picked Up", StepType: "pickup", SortOrder: 8},
}
