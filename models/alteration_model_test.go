package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJobOverdue(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	cases := []struct {
		name    string
		dueDate *time.Time
		status  AlterationStatus
		overdue bool
	}{
		{"past due, not started", &past, StatusNotStarted, true},
		{"past due, in progress", &past, StatusInProgress, true},
		{"past due but complete", &past, StatusComplete, false},
		{"past due but picked up", &past, StatusPickedUp, false},
		{"no due date", nil, StatusInProgress, false},
		{"due in the future", &future, StatusNotStarted, false},
	}

	for _, c := range cases {
		job := AlterationJob{DueDate: c.dueDate, Status: c.status}
		require.Equal(t, c.overdue, job.Overdue(now), c.name)
	}
}
