package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func TestPartyUpdateChangesOmitsMissingFields(t *testing.T) {
	in := partyUpdateInput{Notes: strPtr("deposit paid")}

	updates := in.changes(42)

	require.Equal(t, map[string]interface{}{
		"updated_by": 42,
		"notes":      "deposit paid",
	}, updates)
	require.NotContains(t, updates, "name")
	require.NotContains(t, updates, "event_date")
}

func TestPartyUpdateChangesIncludesSetFields(t *testing.T) {
	eventDate := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	in := partyUpdateInput{
		Name:      strPtr("Hartono Wedding"),
		EventDate: &eventDate,
		Notes:     strPtr(""),
	}

	updates := in.changes(7)

	require.Equal(t, map[string]interface{}{
		"updated_by": 7,
		"name":       "Hartono Wedding",
		"event_date": eventDate,
		"notes":      "",
	}, updates)
}

func TestMemberUpdateChangesOmitsMissingFields(t *testing.T) {
	in := memberUpdateInput{Measurements: strPtr(`{"chest":102,"waist":88}`)}

	updates := in.changes(3)

	require.Equal(t, map[string]interface{}{
		"updated_by":   3,
		"measurements": `{"chest":102,"waist":88}`,
	}, updates)
	require.NotContains(t, updates, "member_role")
	require.NotContains(t, updates, "notes")
}

func TestMemberUpdateChangesIncludesSetFields(t *testing.T) {
	in := memberUpdateInput{
		MemberRole: strPtr("groomsman"),
		Notes:      strPtr("fitting rescheduled"),
	}

	updates := in.changes(3)

	require.Equal(t, "groomsman", updates["member_role"])
	require.Equal(t, "fitting rescheduled", updates["notes"])
	require.NotContains(t, updates, "measurements")
}
