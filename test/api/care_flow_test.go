package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the care loop end to end: assignment, note submission,
// reminder listing. Reminder contents depend on the extraction backend
// configured for the server, so assertions stick to response shape.
func TestCareFlow(t *testing.T) {
	assignResp := makeRequest("POST", "/assignments", map[string]string{
		"doctor_id": doctorID,
	}, patientToken)
	require.True(t, assignResp.IsSuccess(), "assign failed: %s", assignResp.Message)

	noteResp := makeRequest("POST", "/notes", map[string]string{
		"patient_id": patientID,
		"note":       "Take ibuprofen twice daily for 5 days. Rest and hydrate.",
	}, doctorToken)
	require.True(t, noteResp.IsSuccess(), "note submit failed: %s", noteResp.Message)

	listResp := makeRequest("GET", "/notes", nil, doctorToken)
	assert.True(t, listResp.IsSuccess())
	assert.NotEmpty(t, decodeList(listResp.RawData))

	patientNotes := makeRequest("GET", "/notes", nil, patientToken)
	assert.True(t, patientNotes.IsSuccess())

	reminders := makeRequest("GET", "/reminders", nil, patientToken)
	assert.True(t, reminders.IsSuccess())
}

func TestAssignmentListing(t *testing.T) {
	resp := makeRequest("GET", "/patients/"+patientID+"/doctors", nil, patientToken)
	require.True(t, resp.IsSuccess(), "list doctors failed: %s", resp.Message)

	found := false
	for _, a := range decodeList(resp.RawData) {
		if a["doctor_id"] == doctorID {
			found = true
		}
	}
	assert.True(t, found, "expected the assigned doctor in the list")
}

func TestProfileUpdate(t *testing.T) {
	resp := makeRequest("PATCH", "/patients/me", map[string]string{
		"phone": "+15550100",
	}, patientToken)
	require.True(t, resp.IsSuccess(), "update failed: %s", resp.Message)
	assert.Equal(t, "+15550100", resp.GetString("phone"))
}
