package api_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestClient(t *testing.T, token string) string {
	t.Helper()

	resp := makeRequest("POST", "/clients", map[string]interface{}{
		"name":  uniqueName("Appointment Client"),
		"phone": "+5511988880000",
	}, token)
	require.True(t, resp.IsSuccess(), "failed to create client: %s", resp.Message)
	return resp.GetString("id")
}

func publishTestSlot(t *testing.T, token string, date time.Time, start, end string) string {
	t.Helper()

	resp := makeRequest("POST", "/appointments/slots", map[string]interface{}{
		"date":            date.Format("2006-01-02"),
		"start_time":      start,
		"end_time":        end,
		"practitioner_id": uuid.New().String(),
	}, token)
	require.True(t, resp.IsSuccess(), "failed to publish slot: %s", resp.Message)
	return resp.GetString("id")
}

func TestAppointmentBookingFlow(t *testing.T) {
	requireServer(t)

	admin := mintToken("admin", 9)
	staff := mintToken("staff", 1)

	clientID := createTestClient(t, staff)
	date := time.Now().AddDate(0, 0, 7)
	slotID := publishTestSlot(t, admin, date, "20:00", "20:30")

	// Book
	bookResp := makeRequest("POST", "/appointments", map[string]interface{}{
		"client_id": clientID,
		"slot_id":   slotID,
		"date_time": date.Format(time.RFC3339),
		"reason":    "primeira consulta",
	}, staff)
	require.True(t, bookResp.IsSuccess(), "failed to book: %s", bookResp.Message)
	appointmentID := bookResp.GetString("id")
	assert.Equal(t, "scheduled", bookResp.Data["status"])
	assert.Equal(t, "pending", bookResp.Data["payment_status"])

	// Same slot cannot be booked twice
	rebookResp := makeRequest("POST", "/appointments", map[string]interface{}{
		"client_id": clientID,
		"slot_id":   slotID,
		"date_time": date.Format(time.RFC3339),
		"reason":    "remarcação",
	}, staff)
	assert.Equal(t, 409, rebookResp.HTTPStatus)

	// Confirm
	confirmResp := makeRequest("PUT", fmt.Sprintf("/appointments/%s/status", appointmentID), map[string]interface{}{
		"status": "confirmed",
	}, staff)
	assert.True(t, confirmResp.IsSuccess())
	assert.Equal(t, "confirmed", confirmResp.Data["status"])

	// Confirmed appointments cannot go back to scheduled
	badResp := makeRequest("PUT", fmt.Sprintf("/appointments/%s/status", appointmentID), map[string]interface{}{
		"status": "scheduled",
	}, staff)
	assert.Equal(t, 409, badResp.HTTPStatus)

	// Cancel releases the slot
	cancelResp := makeRequest("PUT", fmt.Sprintf("/appointments/%s/status", appointmentID), map[string]interface{}{
		"status": "cancelled",
	}, staff)
	assert.True(t, cancelResp.IsSuccess())

	slotsResp := makeRequest("GET", fmt.Sprintf("/appointments/slots?date=%s", date.Format("2006-01-02")), nil, staff)
	assert.True(t, slotsResp.IsSuccess())
}

func TestAppointmentPaymentAndOutcome(t *testing.T) {
	requireServer(t)

	admin := mintToken("admin", 9)
	staff := mintToken("staff", 1)
	medium := mintToken("medium", 5)

	clientID := createTestClient(t, staff)
	date := time.Now().AddDate(0, 0, 8)
	slotID := publishTestSlot(t, admin, date, "19:00", "19:30")

	bookResp := makeRequest("POST", "/appointments", map[string]interface{}{
		"client_id": clientID,
		"slot_id":   slotID,
		"date_time": date.Format(time.RFC3339),
		"reason":    "consulta de acompanhamento",
	}, staff)
	require.True(t, bookResp.IsSuccess())
	appointmentID := bookResp.GetString("id")

	// Outcome before completion is rejected
	earlyOutcome := makeRequest("POST", fmt.Sprintf("/appointments/%s/outcome", appointmentID), map[string]interface{}{
		"report": "sessão tranquila",
	}, medium)
	assert.Equal(t, 409, earlyOutcome.HTTPStatus)

	confirmResp := makeRequest("PUT", fmt.Sprintf("/appointments/%s/status", appointmentID), map[string]interface{}{
		"status": "confirmed",
	}, staff)
	require.True(t, confirmResp.IsSuccess())

	completeResp := makeRequest("PUT", fmt.Sprintf("/appointments/%s/status", appointmentID), map[string]interface{}{
		"status": "completed",
	}, staff)
	require.True(t, completeResp.IsSuccess())

	payResp := makeRequest("POST", fmt.Sprintf("/appointments/%s/payment", appointmentID), map[string]interface{}{
		"amount": 150.0,
		"method": "pix",
		"status": "paid",
	}, staff)
	assert.True(t, payResp.IsSuccess())
	assert.Equal(t, "paid", payResp.Data["payment_status"])

	outcomeResp := makeRequest("POST", fmt.Sprintf("/appointments/%s/outcome", appointmentID), map[string]interface{}{
		"report":   "sessão tranquila",
		"guidance": "retornar em duas semanas",
	}, medium)
	assert.True(t, outcomeResp.IsSuccess())
}

func TestSlotOverlapRejected(t *testing.T) {
	requireServer(t)

	admin := mintToken("admin", 9)
	date := time.Now().AddDate(0, 0, 9)

	resp := makeRequest("POST", "/appointments/slots", map[string]interface{}{
		"date":            date.Format("2006-01-02"),
		"start_time":      "10:00",
		"end_time":        "11:00",
		"practitioner_id": uuid.New().String(),
	}, admin)
	require.True(t, resp.IsSuccess())

	practitionerID := resp.Data["practitioner_id"]
	overlap := makeRequest("POST", "/appointments/slots", map[string]interface{}{
		"date":            date.Format("2006-01-02"),
		"start_time":      "10:30",
		"end_time":        "11:30",
		"practitioner_id": practitionerID,
	}, admin)
	assert.Equal(t, 409, overlap.HTTPStatus)
}
