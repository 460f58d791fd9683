package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aricom-studios/notification-server/pkg/config"
)

func testConfig() config.Config {
	cfg := config.Config{}
	cfg.Mail.AdminAddress = "admin@example.com"
	return cfg
}

func testRouter(t *testing.T, cfg config.Config, sender *stubSender) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewController(cfg, testDispatcher(sender, time.Second), nil, zap.NewNop().Sugar())
	require.NoError(t, controller.Register(router.Group("/"+controller.BasePath())))
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

type responseBody struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	MessageID      string   `json:"messageId"`
	UserMessageID  string   `json:"userMessageId"`
	AdminMessageID string   `json:"adminMessageId"`
	MissingFields  []string `json:"missingFields"`
	Outcomes       []struct {
		RecipientRole string `json:"recipientRole"`
		Accepted      bool   `json:"accepted"`
		ReceiptID     string `json:"receiptId"`
		FailureReason string `json:"failureReason"`
	} `json:"outcomes"`
	Error string `json:"error"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) responseBody {
	t.Helper()
	var body responseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPostContactSuccess(t *testing.T) {
	sender := &stubSender{}
	router := testRouter(t, testConfig(), sender)

	w := postJSON(router, "/notify/contact", `{"email":"jane@example.com","message":"hello","subject":"Hi"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeResponse(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, "Contact notification sent successfully.", body.Message)
	assert.NotEmpty(t, body.MessageID)

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "admin@example.com", msgs[0].To)
	assert.Equal(t, "jane@example.com", msgs[0].ReplyTo)
	assert.Equal(t, "New Contact Message: Hi", msgs[0].Subject)
}

func TestPostContactMissingFieldsSkipsTransport(t *testing.T) {
	sender := &stubSender{}
	router := testRouter(t, testConfig(), sender)

	w := postJSON(router, "/notify/contact", `{"email":"jane@example.com"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeResponse(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Missing required fields: message", body.Message)
	// Contact validation errors answer with the message only, no field list.
	assert.Nil(t, body.MissingFields)
	assert.Empty(t, sender.messages())
}

func TestPostContactUnconfiguredAdminReported(t *testing.T) {
	sender := &stubSender{}
	cfg := config.Config{}
	router := testRouter(t, cfg, sender)

	w := postJSON(router, "/notify/contact", `{"email":"jane@example.com","message":"hello"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeResponse(t, w)
	assert.Contains(t, body.Message, "ADMIN_EMAIL configuration")
	assert.Empty(t, sender.messages())
}

func TestPostContactInvalidJSON(t *testing.T) {
	sender := &stubSender{}
	router := testRouter(t, testConfig(), sender)

	w := postJSON(router, "/notify/contact", `{"email": `)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeResponse(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid JSON body.", body.Message)
	assert.Empty(t, sender.messages())
}

func TestPostContactDataEnvelope(t *testing.T) {
	sender := &stubSender{}
	router := testRouter(t, testConfig(), sender)

	w := postJSON(router, "/notify/contact",
		`{"data":{"email":"jane@example.com","message":"wrapped payload"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "wrapped payload")
}

func TestPostModificationSuccess(t *testing.T) {
	sender := &stubSender{}
	router := testRouter(t, testConfig(), sender)

	w := postJSON(router, "/notify/modification",
		`{"email":"bob@example.com","modifications":"change colors","planId":"PLAN-1","status":2}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeResponse(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, "Modification request sent successfully.", body.Message)
	assert.NotEmpty(t, body.MessageID)

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Modification Request for Plan: PLAN-1", msgs[0].Subject)
}

func TestPostModificationMissingFields(t *testing.T) {
	sender := &stubSender{}
	router := testRouter(t, testConfig(), sender)

	w := postJSON(router, "/notify/modification", `{}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeResponse(t, w)
	assert.Equal(t, "Missing required fields: email, modifications, planId", body.Message)
	assert.Empty(t, sender.messages())
}

func TestPostOrderSuccess(t *testing.T) {
	sender := &stubSender{}
	router := testRouter(t, testConfig(), sender)

	w := postJSON(router, "/notify/order",
		`{"userEmail":"buyer@example.com","id":"ORD-1","paymentMethod":"card","price":49.99}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeResponse(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, "Order confirmation and notification sent successfully.", body.Message)
	assert.NotEmpty(t, body.UserMessageID)
	assert.NotEmpty(t, body.AdminMessageID)
	assert.NotEqual(t, body.UserMessageID, body.AdminMessageID)

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	recipients := []string{msgs[0].To, msgs[1].To}
	assert.ElementsMatch(t, []string{"buyer@example.com", "admin@example.com"}, recipients)
}

func TestPostOrderMissingFieldsListed(t *testing.T) {
	sender := &stubSender{}
	router := testRouter(t, testConfig(), sender)

	w := postJSON(router, "/notify/order", `{"userEmail":"buyer@example.com"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeResponse(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Missing required fields: orderId, paymentMethod", body.Message)
	// Order validation errors carry the structured field list.
	assert.Equal(t, []string{"orderId", "paymentMethod"}, body.MissingFields)
	assert.Empty(t, sender.messages())
}

func TestPostOrderPartialFailureSurfacesBothOutcomes(t *testing.T) {
	sender := &stubSender{
		failFor: map[string]error{"admin@example.com": assert.AnError},
	}
	router := testRouter(t, testConfig(), sender)

	w := postJSON(router, "/notify/order",
		`{"userEmail":"buyer@example.com","id":"ORD-2","paymentMethod":"invoice"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeResponse(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to send order emails.", body.Message)
	require.Len(t, body.Outcomes, 2)

	user, admin := body.Outcomes[0], body.Outcomes[1]
	assert.Equal(t, "user", user.RecipientRole)
	assert.True(t, user.Accepted)
	assert.NotEmpty(t, user.ReceiptID)
	assert.Equal(t, "admin", admin.RecipientRole)
	assert.False(t, admin.Accepted)
	assert.Equal(t, "mail transport rejected the message", admin.FailureReason)

	// Both sends were attempted.
	assert.Len(t, sender.messages(), 2)
}

func TestPostContactSendFailure(t *testing.T) {
	sender := &stubSender{
		failFor: map[string]error{"admin@example.com": assert.AnError},
	}
	router := testRouter(t, testConfig(), sender)

	w := postJSON(router, "/notify/contact", `{"email":"jane@example.com","message":"hello"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeResponse(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to send contact notification.", body.Message)
	// Not production, so the failure reason is surfaced.
	assert.Equal(t, "mail transport rejected the message", body.Error)
}
