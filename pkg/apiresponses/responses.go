package apiresponses

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Body is the common notification API response envelope. Every endpoint
// answers with success + message; the remaining fields are endpoint-specific.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// MessageID is the transport receipt for single-recipient sends.
	MessageID string `json:"messageId,omitempty"`
	// UserMessageID/AdminMessageID are the receipts of an order dispatch.
	UserMessageID  string `json:"userMessageId,omitempty"`
	AdminMessageID string `json:"adminMessageId,omitempty"`

	// MissingFields lists the absent required fields on validation errors.
	MissingFields []string `json:"missingFields,omitempty"`
	// Outcomes carries per-recipient delivery results on partial failures.
	Outcomes any `json:"outcomes,omitempty"`
	// Error carries diagnostic detail, populated only outside production.
	Error string `json:"error,omitempty"`
}

// RespondSent sends a 200 for a successful single-recipient dispatch.
func RespondSent(c *gin.Context, message, messageID string) {
	c.JSON(http.StatusOK, Body{
		Success:   true,
		Message:   message,
		MessageID: messageID,
	})
}

// RespondOrderSent sends a 200 with both order receipts.
func RespondOrderSent(c *gin.Context, message, userMessageID, adminMessageID string) {
	c.JSON(http.StatusOK, Body{
		Success:        true,
		Message:        message,
		UserMessageID:  userMessageID,
		AdminMessageID: adminMessageID,
	})
}

// RespondBadRequest sends a 400 with the validation message.
func RespondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{
		Success: false,
		Message: message,
	})
}

// RespondMissingFields sends a 400 listing every missing field.
func RespondMissingFields(c *gin.Context, message string, fields []string) {
	c.JSON(http.StatusBadRequest, Body{
		Success:       false,
		Message:       message,
		MissingFields: fields,
	})
}

// RespondSendFailure sends a 500 for a failed dispatch. The transport error
// is logged in full; response detail is included only outside production.
func RespondSendFailure(c *gin.Context, message string, err error, production bool, log *zap.SugaredLogger) {
	if log != nil {
		log.Errorw(message, "error", err)
	}
	body := Body{Success: false, Message: message}
	if !production && err != nil {
		body.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// RespondPartialFailure sends a 500 for an order dispatch where at least
// one send failed, surfacing every per-recipient outcome.
func RespondPartialFailure(c *gin.Context, message string, outcomes any) {
	c.JSON(http.StatusInternalServerError, Body{
		Success:  false,
		Message:  message,
		Outcomes: outcomes,
	})
}
