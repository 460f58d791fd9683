package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies a notification event variant.
type Kind string

const (
	KindContact      Kind = "contact"
	KindModification Kind = "modification"
	KindOrder        Kind = "order"
)

// adminRecipientField is reported as missing when the server has no admin
// recipient configured, so callers see configuration gaps alongside payload
// gaps in one pass.
const adminRecipientField = "ADMIN_EMAIL configuration"

// Event is one of the three notification variants. Missing returns every
// absent required field; validation is presence-only, address syntax is
// left to the mail relay.
type Event interface {
	Kind() Kind
	Missing(adminConfigured bool) []string
}

// ContactEvent is a contact-form message bound for the admin recipient.
type ContactEvent struct {
	Email     string     `json:"email"`
	Message   string     `json:"message"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Phone     string     `json:"phone"`
	Subject   string     `json:"subject"`
	CreatedAt *Timestamp `json:"createdAt"`
}

func (e ContactEvent) Kind() Kind { return KindContact }

func (e ContactEvent) Missing(adminConfigured bool) []string {
	var missing []string
	if e.Email == "" {
		missing = append(missing, "email")
	}
	if e.Message == "" {
		missing = append(missing, "message")
	}
	if !adminConfigured {
		missing = append(missing, adminRecipientField)
	}
	return missing
}

// ModificationEvent is a plan-modification request bound for the admin
// recipient.
type ModificationEvent struct {
	Email         string     `json:"email"`
	Modifications string     `json:"modifications"`
	PlanID        string     `json:"planId"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	PlanTitle     string     `json:"planTitle"`
	Status        FlexString `json:"status"`
	CreatedAt     *Timestamp `json:"createdAt"`
}

func (e ModificationEvent) Kind() Kind { return KindModification }

func (e ModificationEvent) Missing(adminConfigured bool) []string {
	var missing []string
	if e.Email == "" {
		missing = append(missing, "email")
	}
	if e.Modifications == "" {
		missing = append(missing, "modifications")
	}
	if e.PlanID == "" {
		missing = append(missing, "planId")
	}
	if !adminConfigured {
		missing = append(missing, adminRecipientField)
	}
	return missing
}

// OrderEvent produces two messages: a confirmation to the purchaser and a
// notification to the admin recipient.
type OrderEvent struct {
	UserEmail     string     `json:"userEmail"`
	ID            string     `json:"id"`
	PaymentMethod string     `json:"paymentMethod"`
	UserName      string     `json:"userName"`
	Phone         string     `json:"phone"`
	PlanTitle     string     `json:"planTitle"`
	PlanID        string     `json:"planId"`
	Price         FlexString `json:"price"`
	CreatedAt     *Timestamp `json:"createdAt"`
}

func (e OrderEvent) Kind() Kind { return KindOrder }

func (e OrderEvent) Missing(adminConfigured bool) []string {
	var missing []string
	if e.UserEmail == "" {
		missing = append(missing, "userEmail")
	}
	if e.ID == "" {
		missing = append(missing, "orderId")
	}
	if e.PaymentMethod == "" {
		missing = append(missing, "paymentMethod")
	}
	if !adminConfigured {
		missing = append(missing, adminRecipientField)
	}
	return missing
}

// FlexString decodes a JSON string or number into a string. Upstream
// clients send price and status fields in either form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value must be a string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// UnwrapData extracts the event payload from a request body that carries
// the fields either at the top level or nested one level under "data".
func UnwrapData(body []byte) (json.RawMessage, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Data) > 0 && !bytes.Equal(bytes.TrimSpace(envelope.Data), []byte("null")) {
		return envelope.Data, nil
	}
	return body, nil
}
