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
type MockScanRepository struct {
	mock.Mock
}

func (m *MockScanRepository) PartByQRCode(code string) (*models.AlterationJobPart, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AlterationJobPart), args.Error(1)
}

func (m *MockScanRepository) JobByQRCode(code string) (*models.AlterationJob, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AlterationJob), args.Error(1)
}

func (m *MockScanRepository) JobParts(jobID int64) ([]models.AlterationJobPart, error) {
	args := m.Called(jobID)
	return args.Get(0).([]models.AlterationJobPart), args.Error(1)
}

func (m *MockScanRepository) SavePart(part *models.AlterationJobPart) error {
	args := m.Called(part)
	return args.Error(0)
}

func (m *MockScanRepository) UpdateJobStatus(jobID int64, status models.AlterationStatus) error {
	args := m.Called(jobID, status)
	return args.Error(0)
}

func (m *MockScanRepository) AppendScanLog(entry *models.QRScanLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockScanRepository) PartDetail(id uint) (*models.AlterationJobPart, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AlterationJobPart), args.Error(1)
}

func testPart(id uint, jobID int64, status models.AlterationStatus) *models.AlterationJobPart {
	return &models.AlterationJobPart{
		Model:    gorm.Model{ID: id},
		JobId:    jobID,
		PartName: "Jacket",
		PartType: models.TaskAlteration,
		QRCode:   "PART-ABC123",
		Status:   status,
	}
}

func TestScanStartWork(t *testing.T) {
	repo := new(MockScanRepository)
	part := testPart(7, 100, models.StatusNotStarted)

	repo.On("PartByQRCode", "PART-ABC123").Return(part, nil)
	repo.On("SavePart", mock.AnythingOfType("*models.AlterationJobPart")).Return(nil)
	repo.On("JobParts", int64(100)).Return([]models.AlterationJobPart{*testPart(7, 100, models.StatusInProgress)}, nil)
	repo.On("UpdateJobStatus", int64(100), models.StatusInProgress).Return(nil)
	repo.On("AppendScanLog", mock.AnythingOfType("*models.QRScanLog")).Return(nil)
	repo.On("PartDetail", uint(7)).Return(part, nil)

	service := NewScanService(repo)
	res, err := service.Scan(ScanInput{
		QRCode:   "PART-ABC123",
		ScanType: models.ScanStartWork,
		UserID:   42,
	})

	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, ResultWorkStarted, res.Result)
	require.Equal(t, models.StatusInProgress, part.Status)
	require.NotNil(t, part.AssignedUserId)
	require.Equal(t, uint(42), *part.AssignedUserId)
	repo.AssertExpectations(t)
}

func TestScanStartWorkKeepsExistingAssignee(t *testing.T) {
	repo := new(MockScanRepository)
	part := testPart(7, 100, models.StatusNotStarted)
	assignee := uint(9)
	part.AssignedUserId = &assignee

	repo.On("PartByQRCode", "PART-ABC123").Return(part, nil)
	repo.On("SavePart", mock.Anything).Return(nil)
	repo.On("JobParts", int64(100)).Return([]models.AlterationJobPart{*testPart(7, 100, models.StatusInProgress)}, nil)
	repo.On("UpdateJobStatus", int64(100), models.StatusInProgress).Return(nil)
	repo.On("AppendScanLog", mock.Anything).Return(nil)
	repo.On("PartDetail", uint(7)).Return(part, nil)

	service := NewScanService(repo)
	_, err := service.Scan(ScanInput{
		QRCode:   "PART-ABC123",
		ScanType: models.ScanStartWork,
		UserID:   42,
	})

	require.NoError(t, err)
	require.Equal(t, uint(9), *part.AssignedUserId)
}

func TestScanStartWorkTwiceFails(t *testing.T) {
	repo := new(MockScanRepository)
	part := testPart(7, 100, models.StatusInProgress)

	repo.On("PartByQRCode", "PART-ABC123").Return(part, nil)
	repo.On("AppendScanLog", mock.MatchedBy(func(e *models.QRScanLog) bool {
		return e.Result == ResultWorkAlreadyStarted
	})).Return(nil)
	repo.On("PartDetail", uint(7)).Return(part, nil)

	service := NewScanService(repo)
	res, err := service.Scan(ScanInput{
		QRCode:   "PART-ABC123",
		ScanType: models.ScanStartWork,
		UserID:   42,
	})

	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, ResultWorkAlreadyStarted, res.Result)
	// Part state untouched, no save and no cascade.
	require.Equal(t, models.StatusInProgress, part.Status)
	repo.AssertNotCalled(t, "SavePart", mock.Anything)
	repo.AssertNotCalled(t, "UpdateJobStatus", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestScanPickupBeforeComplete(t *testing.T) {
	repo := new(MockScanRepository)
	part := testPart(7, 100, models.StatusInProgress)

	repo.On("PartByQRCode", "PART-ABC123").Return(part, nil)
	repo.On("AppendScanLog", mock.Anything).Return(nil)
	repo.On("PartDetail", uint(7)).Return(part, nil)

	service := NewScanService(repo)
	res, err := service.Scan(ScanInput{
		QRCode:   "PART-ABC123",
		ScanType: models.ScanPickup,
		UserID:   42,
	})

	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, ResultPartNotReady, res.Result)
	repo.AssertNotCalled(t, "SavePart", mock.Anything)
}

func TestScanPickupCascadesToJobPickedUp(t *testing.T) {
	repo := new(MockScanRepository)
	part := testPart(7, 100, models.StatusComplete)
	sibling := testPart(8, 100, models.StatusPickedUp)

	repo.On("PartByQRCode", "PART-ABC123").Return(part, nil)
	repo.On("SavePart", mock.Anything).Return(nil)
	repo.On("JobParts", int64(100)).Return([]models.AlterationJobPart{*testPart(7, 100, models.StatusPickedUp), *sibling}, nil)
	repo.On("UpdateJobStatus", int64(100), models.StatusPickedUp).Return(nil)
	repo.On("AppendScanLog", mock.Anything).Return(nil)
	repo.On("PartDetail", uint(7)).Return(part, nil)

	service := NewScanService(repo)
	res, err := service.Scan(ScanInput{
		QRCode:   "PART-ABC123",
		ScanType: models.ScanPickup,
		UserID:   42,
	})

	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, models.StatusPickedUp, part.Status)
	repo.AssertExpectations(t)
}

func TestScanFinishWorkCascadesToJobComplete(t *testing.T) {
	repo := new(MockScanRepository)
	part := testPart(7, 100, models.StatusInProgress)
	sibling := testPart(8, 100, models.StatusComplete)

	repo.On("PartByQRCode", "PART-ABC123").Return(part, nil)
	repo.On("SavePart", mock.Anything).Return(nil)
	repo.On("JobParts", int64(100)).Return([]models.AlterationJobPart{*testPart(7, 100, models.StatusComplete), *sibling}, nil)
	repo.On("UpdateJobStatus", int64(100), models.StatusComplete).Return(nil)
	repo.On("AppendScanLog", mock.Anything).Return(nil)
	repo.On("PartDetail", uint(7)).Return(part, nil)

	service := NewScanService(repo)
	res, err := service.Scan(ScanInput{
		QRCode:   "PART-ABC123",
		ScanType: models.ScanFinishWork,
		UserID:   42,
	})

	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, ResultWorkCompleted, res.Result)
	repo.AssertExpectations(t)
}

func TestScanStatusCheckDoesNotMutate(t *testing.T) {
	repo := new(MockScanRepository)
	part := testPart(7, 100, models.StatusInProgress)

	repo.On("PartByQRCode", "PART-ABC123").Return(part, nil)
	repo.On("AppendScanLog", mock.Anything).Return(nil)
	repo.On("PartDetail", uint(7)).Return(part, nil)

	service := NewScanService(repo)
	res, err := service.Scan(ScanInput{
		QRCode:   "PART-ABC123",
		ScanType: models.ScanStatusCheck,
		UserID:   42,
	})

	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "Status: IN_PROGRESS", res.Result)
	require.Equal(t, models.StatusInProgress, part.Status)
	repo.AssertNotCalled(t, "SavePart", mock.Anything)
	repo.AssertNotCalled(t, "UpdateJobStatus", mock.Anything, mock.Anything)
}

func TestScanInvalidType(t *testing.T) {
	repo := new(MockScanRepository)
	service := NewScanService(repo)

	_, err := service.Scan(ScanInput{
		QRCode:   "PART-ABC123",
		ScanType: models.ScanType("BOGUS"),
		UserID:   42,
	})

	require.ErrorIs(t, err, ErrInvalidScanType)
	// Rejected before any lookup or log entry.
	repo.AssertNotCalled(t, "PartByQRCode", mock.Anything)
	repo.AssertNotCalled(t, "AppendScanLog", mock.Anything)
}

func TestScanUnknownCode(t *testing.T) {
	repo := new(MockScanRepository)
	repo.On("PartByQRCode", "NOPE").Return(nil, nil)
	repo.On("JobByQRCode", "NOPE").Return(nil, nil)

	service := NewScanService(repo)
	_, err := service.Scan(ScanInput{
		QRCode:   "NOPE",
		ScanType: models.ScanStartWork,
		UserID:   42,
	})

	require.ErrorIs(t, err, ErrUnknownQRCode)
	repo.AssertNotCalled(t, "AppendScanLog", mock.Anything)
}

func TestScanJobCodeStatusCheck(t *testing.T) {
	repo := new(MockScanRepository)
	job := &models.AlterationJob{
		ID:     100,
		QRCode: "JOB-XYZ789",
		Status: models.StatusInProgress,
	}

	repo.On("PartByQRCode", "JOB-XYZ789").Return(nil, nil)
	repo.On("JobByQRCode", "JOB-XYZ789").Return(job, nil)
	repo.On("AppendScanLog", mock.MatchedBy(func(e *models.QRScanLog) bool {
		return e.JobId == int64(100) && e.PartId == 0
	})).Return(nil)

	service := NewScanService(repo)
	res, err := service.Scan(ScanInput{
		QRCode:   "JOB-XYZ789",
		ScanType: models.ScanStatusCheck,
		UserID:   42,
	})

	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "Job status: IN_PROGRESS", res.Result)
	require.NotNil(t, res.Job)
	repo.AssertExpectations(t)
}

func TestScanJobCodeRejectsMutation(t *testing.T) {
	repo := new(MockScanRepository)
	job := &models.AlterationJob{ID: 100, QRCode: "JOB-XYZ789"}

	repo.On("PartByQRCode", "JOB-XYZ789").Return(nil, nil)
	repo.On("JobByQRCode", "JOB-XYZ789").Return(job, nil)

	service := NewScanService(repo)
	_, err := service.Scan(ScanInput{
		QRCode:   "JOB-XYZ789",
		ScanType: models.ScanStartWork,
		UserID:   42,
	})

	require.ErrorIs(t, err, ErrJobLevelMutation)
	repo.AssertNotCalled(t, "AppendScanLog", mock.Anything)
}

func TestScanLogCarriesContext(t *testing.T) {
	repo := new(MockScanRepository)
	part := testPart(7, 100, models.StatusNotStarted)

	var logged *models.QRScanLog
	repo.On("PartByQRCode", "PART-ABC123").Return(part, nil)
	repo.On("SavePart", mock.Anything).Return(nil)
	repo.On("JobParts", int64(100)).Return([]models.AlterationJobPart{*testPart(7, 100, models.StatusInProgress)}, nil)
	repo.On("UpdateJobStatus", int64(100), models.StatusInProgress).Return(nil)
	repo.On("AppendScanLog", mock.Anything).Run(func(args mock.Arguments) {
		logged = args.Get(0).(*models.QRScanLog)
	}).Return(nil)
	repo.On("PartDetail", uint(7)).Return(part, nil)

	service := NewScanService(repo)
	before := time.Now()
	_, err := service.Scan(ScanInput{
		QRCode:   "PART-ABC123",
		ScanType: models.ScanStartWork,
		Location: "back room",
		Notes:    "sleeve redo",
		UserID:   42,
	})

	require.NoError(t, err)
	require.NotNil(t, logged)
	require.Equal(t, uint(7), logged.PartId)
	require.Equal(t, int64(100), logged.JobId)
	require.Equal(t, uint(42), logged.UserId)
	require.Equal(t, "back room", logged.Location)
	require.Equal(t, "sleeve redo", logged.Notes)
	require.False(t, logged.ScannedAt.Before(before))
}
