package services

import (
	"testing"
	"time"

	"tailor-app/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock repository for testing
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) JobWithParts(jobID int64) (*models.AlterationJob, error) {
	args := m.Called(jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AlterationJob), args.Error(1)
}

func (m *MockAssignmentRepository) QualifiedAbilities(taskType models.TaskType, minProficiency int) ([]models.TailorAbility, error) {
	args := m.Called(taskType, minProficiency)
	return args.Get(0).([]models.TailorAbility), args.Error(1)
}

func (m *MockAssignmentRepository) ScheduleFor(userID uint, day time.Weekday) (*models.TailorSchedule, error) {
	args := m.Called(userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TailorSchedule), args.Error(1)
}

func (m *MockAssignmentRepository) DailyWorkloadMinutes(userID uint, day time.Time, defaultMinutes int) (int, error) {
	args := m.Called(userID, day, defaultMinutes)
	return args.Int(0), args.Error(1)
}

func (m *MockAssignmentRepository) TaskTypeDefaultMinutes(taskType models.TaskType) (int, error) {
	args := m.Called(taskType)
	return args.Int(0), args.Error(1)
}

func (m *MockAssignmentRepository) SaveAssignments(updates []PartAssignment) error {
	args := m.Called(updates)
	return args.Error(0)
}

func ability(userID uint, name string, proficiency int) models.TailorAbility {
	return models.TailorAbility{
		UserId:      userID,
		TaskType:    models.TaskAlteration,
		Proficiency: proficiency,
		User:        &models.User{Name: name},
	}
}

func allWeekShift(userID uint) *models.TailorSchedule {
	return &models.TailorSchedule{UserId: userID, StartTime: "08:00", EndTime: "18:00"}
}

func jobWithParts(parts ...models.AlterationJobPart) *models.AlterationJob {
	return &models.AlterationJob{ID: 100, Parts: parts}
}

func part(id uint, minutes int) models.AlterationJobPart {
	return models.AlterationJobPart{
		Model:            gorm.Model{ID: id},
		JobId:            100,
		PartName:         "Jacket",
		PartType:         models.TaskAlteration,
		EstimatedMinutes: minutes,
	}
}

func newTestAssignmentService(repo AssignmentRepository) *AssignmentService {
	return NewAssignmentService(repo, AssignmentOptions{
		DailyCapMinutes:    480,
		DefaultTaskMinutes: 60,
		MinProficiency:     3,
	})
}

func TestAutoAssignJobNotFound(t *testing.T) {
	repo := new(MockAssignmentRepository)
	repo.On("JobWithParts", int64(999)).Return(nil, nil)

	service := newTestAssignmentService(repo)
	_, err := service.AutoAssign(999, nil, false)
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestAutoAssignPicksLeastLoaded(t *testing.T) {
	repo := new(MockAssignmentRepository)
	repo.On("JobWithParts", int64(100)).Return(jobWithParts(part(1, 90)), nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{ability(1, "Ana", 5), ability(2, "Ben", 3)}, nil)
	repo.On("ScheduleFor", uint(1), mock.Anything).Return(allWeekShift(1), nil)
	repo.On("ScheduleFor", uint(2), mock.Anything).Return(allWeekShift(2), nil)
	repo.On("DailyWorkloadMinutes", uint(1), mock.Anything, 60).Return(200, nil)
	repo.On("DailyWorkloadMinutes", uint(2), mock.Anything, 60).Return(100, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, ReasonAssigned, results[0].Reason)
	require.NotNil(t, results[0].AssignedUserId)
	// Ben has less on his plate despite the lower proficiency.
	require.Equal(t, uint(2), *results[0].AssignedUserId)
	repo.AssertExpectations(t)
}

func TestAutoAssignProficiencyBreaksWorkloadTie(t *testing.T) {
	repo := new(MockAssignmentRepository)
	repo.On("JobWithParts", int64(100)).Return(jobWithParts(part(1, 90)), nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{ability(1, "Ana", 3), ability(2, "Ben", 5)}, nil)
	repo.On("ScheduleFor", mock.Anything, mock.Anything).Return(allWeekShift(0), nil)
	repo.On("DailyWorkloadMinutes", mock.Anything, mock.Anything, 60).Return(120, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.Equal(t, uint(2), *results[0].AssignedUserId)
}

func TestAutoAssignNoQualifiedTailor(t *testing.T) {
	repo := new(MockAssignmentRepository)
	repo.On("JobWithParts", int64(100)).Return(jobWithParts(part(1, 90)), nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{}, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Nil(t, results[0].AssignedUserId)
	require.Equal(t, ReasonNoTailor, results[0].Reason)
}

func TestAutoAssignOutOfSchedule(t *testing.T) {
	repo := new(MockAssignmentRepository)
	repo.On("JobWithParts", int64(100)).Return(jobWithParts(part(1, 90)), nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{ability(1, "Ana", 5)}, nil)
	repo.On("ScheduleFor", uint(1), mock.Anything).Return(nil, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.Nil(t, results[0].AssignedUserId)
	require.Equal(t, ReasonNoTailor, results[0].Reason)
	require.Len(t, results[0].Candidates, 1)
	require.Equal(t, ReasonOutOfSchedule, results[0].Candidates[0].Reason)
	repo.AssertNotCalled(t, "DailyWorkloadMinutes", mock.Anything, mock.Anything, mock.Anything)
}

func TestAutoAssignShiftWindowTooShort(t *testing.T) {
	repo := new(MockAssignmentRepository)
	// Part scheduled at 16:30 for 120 minutes overruns an 08:00-17:00 shift.
	scheduled := time.Date(2026, 3, 2, 16, 30, 0, 0, time.UTC)
	p := part(1, 120)
	p.ScheduledFor = &scheduled

	repo.On("JobWithParts", int64(100)).Return(jobWithParts(p), nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{ability(1, "Ana", 5)}, nil)
	repo.On("ScheduleFor", uint(1), scheduled.Weekday()).
		Return(&models.TailorSchedule{UserId: 1, StartTime: "08:00", EndTime: "17:00"}, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.Nil(t, results[0].AssignedUserId)
	require.Equal(t, ReasonOutOfSchedule, results[0].Candidates[0].Reason)
}

func TestAutoAssignShiftEndingAtMidnight(t *testing.T) {
	repo := new(MockAssignmentRepository)
	// Evening work fits a shift ending exactly at midnight.
	scheduled := time.Date(2026, 3, 2, 22, 30, 0, 0, time.UTC)
	p := part(1, 90)
	p.ScheduledFor = &scheduled

	repo.On("JobWithParts", int64(100)).Return(jobWithParts(p), nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{ability(1, "Ana", 5)}, nil)
	repo.On("ScheduleFor", uint(1), scheduled.Weekday()).
		Return(&models.TailorSchedule{UserId: 1, StartTime: "16:00", EndTime: "24:00"}, nil)
	repo.On("DailyWorkloadMinutes", uint(1), mock.Anything, 60).Return(0, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.NotNil(t, results[0].AssignedUserId)
	require.Equal(t, uint(1), *results[0].AssignedUserId)
}

func TestAutoAssignRespectsDailyCap(t *testing.T) {
	repo := new(MockAssignmentRepository)
	repo.On("JobWithParts", int64(100)).Return(jobWithParts(part(1, 60)), nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{ability(1, "Ana", 5)}, nil)
	repo.On("ScheduleFor", uint(1), mock.Anything).Return(allWeekShift(1), nil)
	repo.On("DailyWorkloadMinutes", uint(1), mock.Anything, 60).Return(450, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.Nil(t, results[0].AssignedUserId)
	require.Equal(t, ReasonMaxWorkload, results[0].Candidates[0].Reason)
}

func TestAutoAssignCountsWorkAssignedInSameRun(t *testing.T) {
	repo := new(MockAssignmentRepository)
	// One tailor, 400 minutes already booked. Two 60-minute parts: the first
	// fits (460), the second would land at 520 and must be refused.
	repo.On("JobWithParts", int64(100)).Return(jobWithParts(part(1, 60), part(2, 60)), nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{ability(1, "Ana", 5)}, nil)
	repo.On("ScheduleFor", uint(1), mock.Anything).Return(allWeekShift(1), nil)
	repo.On("DailyWorkloadMinutes", uint(1), mock.Anything, 60).Return(400, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NotNil(t, results[0].AssignedUserId)
	require.Nil(t, results[1].AssignedUserId)
	require.Equal(t, ReasonMaxWorkload, results[1].Candidates[0].Reason)
}

func TestAutoAssignAvoidsBackToBackTailor(t *testing.T) {
	repo := new(MockAssignmentRepository)
	repo.On("JobWithParts", int64(100)).Return(jobWithParts(part(1, 30), part(2, 30)), nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{ability(1, "Ana", 5), ability(2, "Ben", 4)}, nil)
	repo.On("ScheduleFor", mock.Anything, mock.Anything).Return(allWeekShift(0), nil)
	repo.On("DailyWorkloadMinutes", uint(1), mock.Anything, 60).Return(0, nil)
	repo.On("DailyWorkloadMinutes", uint(2), mock.Anything, 60).Return(0, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NotNil(t, results[0].AssignedUserId)
	require.NotNil(t, results[1].AssignedUserId)
	// Consecutive parts go to different tailors when possible.
	require.NotEqual(t, *results[0].AssignedUserId, *results[1].AssignedUserId)
}

func TestAutoAssignSkipsAlreadyAssignedParts(t *testing.T) {
	repo := new(MockAssignmentRepository)
	assignee := uint(9)
	p := part(1, 60)
	p.AssignedUserId = &assignee

	repo.On("JobWithParts", int64(100)).Return(jobWithParts(p), nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, ReasonAlreadyAssigned, results[0].Reason)
	require.Equal(t, uint(9), *results[0].AssignedUserId)
	// Nothing changed, nothing persisted.
	repo.AssertNotCalled(t, "SaveAssignments", mock.Anything)
}

func TestAutoAssignForceReassigns(t *testing.T) {
	repo := new(MockAssignmentRepository)
	assignee := uint(9)
	p := part(1, 60)
	p.AssignedUserId = &assignee

	repo.On("JobWithParts", int64(100)).Return(jobWithParts(p), nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{ability(1, "Ana", 5)}, nil)
	repo.On("ScheduleFor", uint(1), mock.Anything).Return(allWeekShift(1), nil)
	repo.On("DailyWorkloadMinutes", uint(1), mock.Anything, 60).Return(0, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, true)

	require.NoError(t, err)
	require.Equal(t, ReasonAssigned, results[0].Reason)
	require.Equal(t, uint(1), *results[0].AssignedUserId)
	repo.AssertExpectations(t)
}

func TestAutoAssignFallsBackToTaskTypeDefaultMinutes(t *testing.T) {
	repo := new(MockAssignmentRepository)
	repo.On("JobWithParts", int64(100)).Return(jobWithParts(part(1, 0)), nil)
	repo.On("TaskTypeDefaultMinutes", models.TaskAlteration).Return(45, nil)
	repo.On("QualifiedAbilities", models.TaskAlteration, 3).
		Return([]models.TailorAbility{ability(1, "Ana", 5)}, nil)
	repo.On("ScheduleFor", uint(1), mock.Anything).Return(allWeekShift(1), nil)
	repo.On("DailyWorkloadMinutes", uint(1), mock.Anything, 60).Return(0, nil)
	repo.On("SaveAssignments", mock.Anything).Return(nil)

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, nil, false)

	require.NoError(t, err)
	require.Equal(t, 45, results[0].EstimatedMinutes)
	repo.AssertExpectations(t)
}

func TestManualOverrides(t *testing.T) {
	repo := new(MockAssignmentRepository)
	repo.On("JobWithParts", int64(100)).Return(jobWithParts(part(1, 60), part(2, 60)), nil)

	var saved []PartAssignment
	repo.On("SaveAssignments", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(0).([]PartAssignment)
	}).Return(nil)

	tailor := uint(5)
	overrides := []ManualAssignment{
		{PartId: 1, AssignedUserId: &tailor},
		{PartId: 2, AssignedUserId: nil}, // explicit un-assignment
		{PartId: 99, AssignedUserId: &tailor},
	}

	service := newTestAssignmentService(repo)
	results, err := service.AutoAssign(100, overrides, false)

	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, ReasonManualOverride, results[0].Reason)
	require.Equal(t, uint(5), *results[0].AssignedUserId)
	require.Equal(t, ReasonManualOverride, results[1].Reason)
	require.Nil(t, results[1].AssignedUserId)
	require.Equal(t, ReasonPartNotInJob, results[2].Reason)
	// Only parts that belong to the job reach storage.
	require.Len(t, saved, 2)
	// The algorithm never runs when overrides are present.
	repo.AssertNotCalled(t, "QualifiedAbilities", mock.Anything, mock.Anything)
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"09:00", 540, true},
		{"17:30", 1050, true},
		{"00:00", 0, true},
		{"24:00", 1440, true},
		{"24:01", 0, false},
		{"25:00", 0, false},
		{"09:61", 0, false},
		{"garbage", 0, false},
	}
	for _, c := range cases {
		got, ok := parseClock(c.in)
		require.Equal(t, c.ok, ok, c.in)
		if ok {
			require.Equal(t, c.minutes, got, c.in)
		}
	}
}
