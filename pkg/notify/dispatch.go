package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aricom-studios/notification-server/pkg/audit"
	"github.com/aricom-studios/notification-server/pkg/mail"
	"github.com/aricom-studios/notification-server/pkg/metrics"
)

// RecipientRole labels who a delivery is addressed to.
type RecipientRole string

const (
	RoleAdmin RecipientRole = "admin"
	RoleUser  RecipientRole = "user"
)

// Delivery is one rendered message bound for one recipient. ReplyTo is the
// originating user's address on admin-bound messages so the admin can reply
// to the customer directly; user confirmations carry no override.
type Delivery struct {
	Role    RecipientRole
	Address string
	ReplyTo string
	Message RenderedMessage
}

// DeliveryOutcome is the per-recipient result of a dispatch. Both outcomes
// of a dual-recipient dispatch are always present regardless of failures.
type DeliveryOutcome struct {
	RecipientRole RecipientRole `json:"recipientRole"`
	Accepted      bool          `json:"accepted"`
	ReceiptID     string        `json:"receiptId,omitempty"`
	FailureReason string        `json:"failureReason,omitempty"`
}

// Failure reasons exposed to callers. Transport diagnostics stay in the
// server log.
const (
	reasonTransportRejected = "mail transport rejected the message"
	reasonSendTimeout       = "mail transport timed out"
)

// Dispatcher sends rendered messages through the injected mail transport
// and aggregates per-recipient outcomes.
type Dispatcher struct {
	sender  mail.Sender
	timeout time.Duration
	trail   audit.Recorder
	log     *zap.SugaredLogger
}

// NewDispatcher creates a Dispatcher. trail may be nil, which disables
// audit events.
func NewDispatcher(sender mail.Sender, timeout time.Duration, trail audit.Recorder, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		timeout: timeout,
		trail:   trail,
		log:     log.Named("dispatcher"),
	}
}

// Dispatch sends every delivery and returns one outcome per delivery, in
// input order. All sends are issued before any is awaited, so the two
// latencies of an order dispatch overlap; the join is unconditional, one
// send's failure never suppresses the sibling's outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, kind Kind, deliveries []Delivery) []DeliveryOutcome {
	outcomes := make([]DeliveryOutcome, len(deliveries))

	var wg sync.WaitGroup
	for i, delivery := range deliveries {
		wg.Add(1)
		go func(i int, delivery Delivery) {
			defer wg.Done()
			outcomes[i] = d.send(ctx, kind, delivery)
		}(i, delivery)
	}
	wg.Wait()

	if len(outcomes) == 2 && outcomes[0].Accepted != outcomes[1].Accepted {
		metrics.DeliveryPartial.Inc()
		event := audit.NewEvent(audit.EventDeliveryPartial, string(kind))
		if d.trail != nil {
			d.trail.Record(event)
		}
		d.log.Warnw("Partial delivery: one of two sends failed",
			"kind", kind,
			"outcomes", outcomes)
	}
	return outcomes
}

// send runs one transport send under the configured timeout. A timeout is
// captured as a failed outcome, never a fault that aborts a sibling send.
func (d *Dispatcher) send(ctx context.Context, kind Kind, delivery Delivery) DeliveryOutcome {
	outcome := DeliveryOutcome{RecipientRole: delivery.Role}

	type result struct {
		receiptID string
		err       error
	}
	done := make(chan result, 1)
	go func() {
		receiptID, err := d.sender.Send(mail.Message{
			To:      delivery.Address,
			ReplyTo: delivery.ReplyTo,
			Subject: delivery.Message.Subject,
			Body:    delivery.Message.BodyMarkup,
		})
		done <- result{receiptID, err}
	}()

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			outcome.FailureReason = reasonTransportRejected
			d.log.Errorw("Send failed",
				"kind", kind,
				"role", delivery.Role,
				"to", delivery.Address,
				"error", r.err)
			d.record(audit.EventDeliveryFailed, kind, delivery.Role, "", outcome.FailureReason)
			return outcome
		}
		outcome.Accepted = true
		outcome.ReceiptID = r.receiptID
		d.record(audit.EventDeliverySucceeded, kind, delivery.Role, r.receiptID, "")
		return outcome
	case <-ctx.Done():
		outcome.FailureReason = reasonSendTimeout
	case <-timer.C:
		outcome.FailureReason = reasonSendTimeout
	}

	d.log.Errorw("Send timed out",
		"kind", kind,
		"role", delivery.Role,
		"to", delivery.Address,
		"timeout", d.timeout)
	d.record(audit.EventDeliveryFailed, kind, delivery.Role, "", outcome.FailureReason)
	return outcome
}

func (d *Dispatcher) record(eventType audit.EventType, kind Kind, role RecipientRole, receiptID, reason string) {
	if d.trail == nil {
		return
	}
	event := audit.NewEvent(eventType, string(kind))
	event.Recipient = string(role)
	event.ReceiptID = receiptID
	event.Reason = reason
	d.trail.Record(event)
}
