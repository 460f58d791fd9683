package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aricom-studios/notification-server/pkg/apiresponses"
	"github.com/aricom-studios/notification-server/pkg/audit"
	"github.com/aricom-studios/notification-server/pkg/config"
	"github.com/aricom-studios/notification-server/pkg/metrics"
)

// Controller exposes the /notify endpoints.
type Controller struct {
	cfg        config.Config
	dispatcher *Dispatcher
	trail      audit.Recorder
	log        *zap.SugaredLogger
}

// NewController creates the notification controller. trail may be nil.
func NewController(cfg config.Config, dispatcher *Dispatcher, trail audit.Recorder, log *zap.SugaredLogger) *Controller {
	return &Controller{
		cfg:        cfg,
		dispatcher: dispatcher,
		trail:      trail,
		log:        log.Named("notify"),
	}
}

func (n *Controller) BasePath() string { return "notify" }

func (n *Controller) Handlers() []gin.HandlerFunc { return nil }

func (n *Controller) Register(rg *gin.RouterGroup) error {
	rg.POST("/contact", n.postContact)
	rg.POST("/modification", n.postModification)
	rg.POST("/order", n.postOrder)
	return nil
}

// decodeEvent reads the request body, unwraps an optional "data" envelope
// and decodes the payload into event. A decode failure answers the request
// itself and returns false.
func (n *Controller) decodeEvent(c *gin.Context, event any) bool {
	body, err := c.GetRawData()
	if err != nil {
		apiresponses.RespondBadRequest(c, "Unable to read request body.")
		return false
	}
	data, err := UnwrapData(body)
	if err != nil {
		apiresponses.RespondBadRequest(c, "Invalid JSON body.")
		return false
	}
	if err := json.Unmarshal(data, event); err != nil {
		apiresponses.RespondBadRequest(c, "Invalid JSON body.")
		return false
	}
	return true
}

// validate runs the presence checks and answers the request on failure.
// Validation short-circuits before any rendering or dispatch.
func (n *Controller) validate(c *gin.Context, event Event, withFieldList bool) bool {
	missing := event.Missing(n.cfg.Mail.AdminAddress != "")
	if len(missing) == 0 {
		return true
	}

	metrics.NotificationsRejected.WithLabelValues(string(event.Kind())).Inc()
	n.recordRejected(event.Kind(), missing)
	n.log.Warnw("Notification rejected",
		"kind", event.Kind(),
		"missingFields", missing)

	message := fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", "))
	if withFieldList {
		apiresponses.RespondMissingFields(c, message, missing)
	} else {
		apiresponses.RespondBadRequest(c, message)
	}
	return false
}

func (n *Controller) postContact(c *gin.Context) {
	metrics.NotificationsReceived.WithLabelValues(string(KindContact)).Inc()
	n.recordReceived(KindContact)

	var event ContactEvent
	if !n.decodeEvent(c, &event) {
		return
	}
	if !n.validate(c, event, false) {
		return
	}

	message, err := RenderContactNotification(event)
	if err != nil {
		apiresponses.RespondSendFailure(c, "Failed to send contact notification.", err, n.cfg.Production(), n.log)
		return
	}

	outcomes := n.dispatcher.Dispatch(c.Request.Context(), KindContact, []Delivery{{
		Role:    RoleAdmin,
		Address: n.cfg.Mail.AdminAddress,
		ReplyTo: event.Email,
		Message: message,
	}})
	if !outcomes[0].Accepted {
		apiresponses.RespondSendFailure(c, "Failed to send contact notification.",
			errors.New(outcomes[0].FailureReason), n.cfg.Production(), n.log)
		return
	}
	apiresponses.RespondSent(c, "Contact notification sent successfully.", outcomes[0].ReceiptID)
}

func (n *Controller) postModification(c *gin.Context) {
	metrics.NotificationsReceived.WithLabelValues(string(KindModification)).Inc()
	n.recordReceived(KindModification)

	var event ModificationEvent
	if !n.decodeEvent(c, &event) {
		return
	}
	if !n.validate(c, event, false) {
		return
	}

	message, err := RenderModificationNotification(event)
	if err != nil {
		apiresponses.RespondSendFailure(c, "Failed to send modification request.", err, n.cfg.Production(), n.log)
		return
	}

	outcomes := n.dispatcher.Dispatch(c.Request.Context(), KindModification, []Delivery{{
		Role:    RoleAdmin,
		Address: n.cfg.Mail.AdminAddress,
		ReplyTo: event.Email,
		Message: message,
	}})
	if !outcomes[0].Accepted {
		apiresponses.RespondSendFailure(c, "Failed to send modification request.",
			errors.New(outcomes[0].FailureReason), n.cfg.Production(), n.log)
		return
	}
	apiresponses.RespondSent(c, "Modification request sent successfully.", outcomes[0].ReceiptID)
}

func (n *Controller) postOrder(c *gin.Context) {
	metrics.NotificationsReceived.WithLabelValues(string(KindOrder)).Inc()
	n.recordReceived(KindOrder)

	var event OrderEvent
	if !n.decodeEvent(c, &event) {
		return
	}
	if !n.validate(c, event, true) {
		return
	}

	confirmation, err := RenderOrderConfirmation(event)
	if err != nil {
		apiresponses.RespondSendFailure(c, "Failed to send order emails.", err, n.cfg.Production(), n.log)
		return
	}
	adminNotification, err := RenderOrderAdminNotification(event)
	if err != nil {
		apiresponses.RespondSendFailure(c, "Failed to send order emails.", err, n.cfg.Production(), n.log)
		return
	}

	// Both sends are issued concurrently and joined unconditionally; the
	// response always carries both outcomes.
	outcomes := n.dispatcher.Dispatch(c.Request.Context(), KindOrder, []Delivery{
		{
			Role:    RoleUser,
			Address: event.UserEmail,
			Message: confirmation,
		},
		{
			Role:    RoleAdmin,
			Address: n.cfg.Mail.AdminAddress,
			ReplyTo: event.UserEmail,
			Message: adminNotification,
		},
	})

	userOutcome, adminOutcome := outcomes[0], outcomes[1]
	if !userOutcome.Accepted || !adminOutcome.Accepted {
		n.log.Errorw("Order dispatch incomplete",
			"orderID", event.ID,
			"userAccepted", userOutcome.Accepted,
			"adminAccepted", adminOutcome.Accepted)
		apiresponses.RespondPartialFailure(c, "Failed to send order emails.", outcomes)
		return
	}
	apiresponses.RespondOrderSent(c, "Order confirmation and notification sent successfully.",
		userOutcome.ReceiptID, adminOutcome.ReceiptID)
}

func (n *Controller) recordReceived(kind Kind) {
	if n.trail == nil {
		return
	}
	n.trail.Record(audit.NewEvent(audit.EventNotificationReceived, string(kind)))
}

func (n *Controller) recordRejected(kind Kind, missing []string) {
	if n.trail == nil {
		return
	}
	event := audit.NewEvent(audit.EventNotificationRejected, string(kind))
	event.Reason = fmt.Sprintf("missing fields: %s", strings.Join(missing, ", "))
	n.trail.Record(event)
}
