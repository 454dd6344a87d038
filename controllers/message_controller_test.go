package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/kendall-kelly/restaurant-assistant-api/services"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/kendall-kelly/restaurant-assistant-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageFixture struct {
	router  *gin.Engine
	store   *store.Store
	sms     *services.MockSMSService
	storage *services.MockS3Service
}

func setupMessageRouter(t *testing.T) *messageFixture {
	st := setupTestStore(t)
	log := testutil.NewTestLogger()
	sms := services.NewMockSMSService()
	storage := services.NewMockS3Service()

	ctl := NewMessageController(
		services.NewMessageService(st, sms, nil, log),
		services.NewTranscriptService(st, storage, log),
		log,
	)

	router := setupTestRouter()
	router.POST("/messages/receive", ctl.Receive)
	router.GET("/reservations/:id/messages", ctl.ListForReservation)
	router.POST("/reservations/:id/messages", ctl.Send)
	router.POST("/reservations/:id/transcript", ctl.ArchiveTranscript)
	router.PATCH("/messages/:id/read", ctl.MarkRead)

	return &messageFixture{router: router, store: st, sms: sms, storage: storage}
}

func TestReceiveMessage(t *testing.T) {
	f := setupMessageRouter(t)
	bob := testutil.CreateCustomer(t, f.store.DB(), "Bob", "bob@example.com", "+15550000001", nil)
	reservation := testutil.CreateReservation(t, f.store.DB(), bob.ID, time.Now().Add(time.Hour), models.StatusPending)

	w := performForm(f.router, "/messages/receive", url.Values{
		"to_number":   {"+15550000000"},
		"from_number": {"+15550000001"},
		"body":        {"No allergies here!"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Message received"}`, w.Body.String())

	messages, err := f.store.ListMessagesForReservation(context.Background(), reservation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "No allergies here!", messages[0].Content)
	assert.Equal(t, models.DirectionInbound, messages[0].Direction)
	assert.Equal(t, bob.ID, messages[0].CustomerID)

	stored, err := f.store.GetReservation(context.Background(), reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNeedsReview, stored.Status)
}

func TestReceiveMessageProviderFieldNames(t *testing.T) {
	f := setupMessageRouter(t)
	bob := testutil.CreateCustomer(t, f.store.DB(), "Bob", "bob@example.com", "+15550000001", nil)
	testutil.CreateReservation(t, f.store.DB(), bob.ID, time.Now(), models.StatusConfirmed)

	w := performForm(f.router, "/messages/receive", url.Values{
		"To":   {"+15550000000"},
		"From": {"+15550000001"},
		"Body": {"Table for two still ok?"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), testutil.CountRows(t, f.store.DB(), &models.Message{}))
}

func TestReceiveMessageFailures(t *testing.T) {
	f := setupMessageRouter(t)
	carol := testutil.CreateCustomer(t, f.store.DB(), "Carol", "carol@example.com", "+15550000002", nil)
	cancelled := testutil.CreateReservation(t, f.store.DB(), carol.ID, time.Now(), models.StatusCancelled)

	tests := []struct {
		name           string
		form           url.Values
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Unknown sender",
			form:           url.Values{"to_number": {"+15550000000"}, "from_number": {"+19999999999"}, "body": {"Hi"}},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"detail":"Customer not found"}`,
		},
		{
			name:           "Only cancelled reservation",
			form:           url.Values{"to_number": {"+15550000000"}, "from_number": {"+15550000002"}, "body": {"Hi"}},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"detail":"No active reservation found for customer"}`,
		},
		{
			name:           "Missing sender",
			form:           url.Values{"to_number": {"+15550000000"}, "body": {"Hi"}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"detail":"Missing required field: from_number"}`,
		},
		{
			name:           "Missing body",
			form:           url.Values{"to_number": {"+15550000000"}, "from_number": {"+15550000002"}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"detail":"Missing required field: body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performForm(f.router, "/messages/receive", tt.form)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}

	assert.Equal(t, int64(0), testutil.CountRows(t, f.store.DB(), &models.Message{}))
	stored, err := f.store.GetReservation(context.Background(), cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
}

func TestSendAndListMessages(t *testing.T) {
	f := setupMessageRouter(t)
	bob := testutil.CreateCustomer(t, f.store.DB(), "Bob", "bob@example.com", "+15550000001", nil)
	reservation := testutil.CreateReservation(t, f.store.DB(), bob.ID, time.Now(), models.StatusConfirmed)
	base := fmt.Sprintf("/reservations/%d/messages", reservation.ID)

	w := performJSON(f.router, http.MethodPost, base, map[string]interface{}{"body": "Your table is ready"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeObject(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "outbound", data["direction"])
	assert.Equal(t, "SMmock0001", data["provider_sid"])

	sent := f.sms.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "+15550000001", sent[0].To)

	w = performJSON(f.router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	list := decodeObject(t, w)["data"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Your table is ready", list[0].(map[string]interface{})["content"])

	w = performJSON(f.router, http.MethodGet, "/reservations/404/messages", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(f.router, http.MethodPost, base, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(f.router, http.MethodPost, base, map[string]interface{}{"body": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestSendMessageProviderFailure(t *testing.T) {
	f := setupMessageRouter(t)
	bob := testutil.CreateCustomer(t, f.store.DB(), "Bob", "bob@example.com", "+15550000001", nil)
	reservation := testutil.CreateReservation(t, f.store.DB(), bob.ID, time.Now(), models.StatusConfirmed)
	f.sms.SendErr = errors.New("unreachable handset")

	w := performJSON(f.router, http.MethodPost, fmt.Sprintf("/reservations/%d/messages", reservation.ID),
		map[string]interface{}{"body": "Hello"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "SMS_PROVIDER_ERROR", errorCode(t, w))
	assert.Equal(t, int64(0), testutil.CountRows(t, f.store.DB(), &models.Message{}))
}

func TestSendMessageDisabled(t *testing.T) {
	st := setupTestStore(t)
	log := testutil.NewTestLogger()
	ctl := NewMessageController(services.NewMessageService(st, nil, nil, log), services.NewTranscriptService(st, nil, log), log)
	router := setupTestRouter()
	router.POST("/reservations/:id/messages", ctl.Send)
	router.POST("/reservations/:id/transcript", ctl.ArchiveTranscript)

	w := performJSON(router, http.MethodPost, "/reservations/1/messages", map[string]interface{}{"body": "Hello"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "FEATURE_DISABLED", errorCode(t, w))

	w = performJSON(router, http.MethodPost, "/reservations/1/transcript", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMarkMessageRead(t *testing.T) {
	f := setupMessageRouter(t)
	bob := testutil.CreateCustomer(t, f.store.DB(), "Bob", "bob@example.com", "+15550000001", nil)
	testutil.CreateReservation(t, f.store.DB(), bob.ID, time.Now(), models.StatusPending)

	w := performForm(f.router, "/messages/receive", url.Values{"from_number": {"+15550000001"}, "body": {"Hi"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(f.router, http.MethodPatch, "/messages/1/read", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeObject(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["is_read"])

	w = performJSON(f.router, http.MethodPatch, "/messages/404/read", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArchiveTranscriptEndpoint(t *testing.T) {
	f := setupMessageRouter(t)
	bob := testutil.CreateCustomer(t, f.store.DB(), "Bob", "bob@example.com", "+15550000001", nil)
	reservation := testutil.CreateReservation(t, f.store.DB(), bob.ID, time.Now(), models.StatusPending)

	w := performForm(f.router, "/messages/receive", url.Values{"from_number": {"+15550000001"}, "body": {"Hi"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(f.router, http.MethodPost, fmt.Sprintf("/reservations/%d/transcript", reservation.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeObject(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["message_count"])

	key := data["key"].(string)
	_, ok := f.storage.Object(key)
	assert.True(t, ok)

	w = performJSON(f.router, http.MethodPost, "/reservations/404/transcript", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
