package notify

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"unicode"
	"unicode/utf8"

	"github.com/Masterminds/sprig/v3"
)

// Per-field fallback texts. These are part of the user-visible contract:
// rendered output must never contain an empty or "undefined" artifact.
const (
	fallbackNA              = "N/A"
	fallbackNoSubject       = "No Subject"
	fallbackNoOrderID       = "No ID"
	fallbackCustomerName    = "Customer"
	fallbackNoModifications = "No modifications details provided"
)

// RenderedMessage is an immutable subject + HTML body pair, produced once
// per recipient and never mutated afterwards.
type RenderedMessage struct {
	Subject    string
	BodyMarkup string
}

// ContactMailParams feeds the contact notification template.
type ContactMailParams struct {
	ReceivedAt string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Subject    string
	Message    string
}

// ModificationMailParams feeds the modification notification template.
type ModificationMailParams struct {
	ReceivedAt    string
	Name          string
	Email         string
	Phone         string
	PlanTitle     string
	PlanID        string
	Status        string
	StatusPending bool
	Modifications string
}

// OrderMailParams feeds both order templates. The confirmation and the
// admin notification branch on IsInvoice with differently-worded guidance.
type OrderMailParams struct {
	Date          string
	OrderID       string
	CustomerName  string
	UserName      string
	UserEmail     string
	Phone         string
	PaymentMethod string
	IsInvoice     bool
	PlanTitle     string
	PlanID        string
	Price         string
}

var (
	contactTemplate           = template.New("contact")
	modificationTemplate      = template.New("modification")
	orderConfirmationTemplate = template.New("orderConfirmation")
	orderAdminTemplate        = template.New("orderAdmin")

	//go:embed templates/contact.html
	contactTemplateRaw string
	//go:embed templates/modification.html
	modificationTemplateRaw string
	//go:embed templates/order_confirmation.html
	orderConfirmationTemplateRaw string
	//go:embed templates/order_admin.html
	orderAdminTemplateRaw string
)

func init() {
	funcs := sprig.FuncMap()
	if _, err := contactTemplate.Funcs(funcs).Parse(contactTemplateRaw); err != nil {
		panic(err)
	}
	if _, err := modificationTemplate.Funcs(funcs).Parse(modificationTemplateRaw); err != nil {
		panic(err)
	}
	if _, err := orderConfirmationTemplate.Funcs(funcs).Parse(orderConfirmationTemplateRaw); err != nil {
		panic(err)
	}
	if _, err := orderAdminTemplate.Funcs(funcs).Parse(orderAdminTemplateRaw); err != nil {
		panic(err)
	}
}

func renderBody(t *template.Template, p any) (string, error) {
	b := bytes.Buffer{}
	err := t.Execute(&b, p)
	return b.String(), err
}

// Render maps an event to its message set: one admin-bound message for
// contact and modification events, a [user confirmation, admin
// notification] pair for orders.
func Render(event Event) ([]RenderedMessage, error) {
	switch e := event.(type) {
	case ContactEvent:
		msg, err := RenderContactNotification(e)
		if err != nil {
			return nil, err
		}
		return []RenderedMessage{msg}, nil
	case ModificationEvent:
		msg, err := RenderModificationNotification(e)
		if err != nil {
			return nil, err
		}
		return []RenderedMessage{msg}, nil
	case OrderEvent:
		confirmation, err := RenderOrderConfirmation(e)
		if err != nil {
			return nil, err
		}
		admin, err := RenderOrderAdminNotification(e)
		if err != nil {
			return nil, err
		}
		return []RenderedMessage{confirmation, admin}, nil
	default:
		return nil, fmt.Errorf("unknown event type %T", event)
	}
}

// RenderContactNotification renders the admin-bound contact message.
func RenderContactNotification(e ContactEvent) (RenderedMessage, error) {
	subject := e.Subject
	if subject == "" {
		subject = fallbackNoSubject
	}
	body, err := renderBody(contactTemplate, ContactMailParams{
		ReceivedAt: e.CreatedAt.Display(),
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Phone:      e.Phone,
		Subject:    e.Subject,
		Message:    e.Message,
	})
	return RenderedMessage{
		Subject:    fmt.Sprintf("New Contact Message: %s", subject),
		BodyMarkup: body,
	}, err
}

// RenderModificationNotification renders the admin-bound modification
// request message.
func RenderModificationNotification(e ModificationEvent) (RenderedMessage, error) {
	planLabel := e.PlanTitle
	if planLabel == "" {
		planLabel = e.PlanID
	}
	if planLabel == "" {
		planLabel = fallbackNA
	}
	body, err := renderBody(modificationTemplate, ModificationMailParams{
		ReceivedAt:    e.CreatedAt.Display(),
		Name:          e.Name,
		Email:         e.Email,
		Phone:         e.Phone,
		PlanTitle:     e.PlanTitle,
		PlanID:        e.PlanID,
		Status:        e.Status.String(),
		StatusPending: e.Status == "pending",
		Modifications: e.Modifications,
	})
	return RenderedMessage{
		Subject:    fmt.Sprintf("Modification Request for Plan: %s", planLabel),
		BodyMarkup: body,
	}, err
}

// RenderOrderConfirmation renders the purchaser-facing confirmation.
// An order without a supplied timestamp is dated "now": orders are created
// at send time, unlike contact and modification events.
func RenderOrderConfirmation(e OrderEvent) (RenderedMessage, error) {
	orderLabel := e.ID
	if orderLabel == "" {
		orderLabel = fallbackNA
	}
	body, err := renderBody(orderConfirmationTemplate, e.mailParams())
	return RenderedMessage{
		Subject:    fmt.Sprintf("Your Aricom Studios Order Confirmation (%s)", orderLabel),
		BodyMarkup: body,
	}, err
}

// RenderOrderAdminNotification renders the internal order notification with
// the reply-to-customer action hint.
func RenderOrderAdminNotification(e OrderEvent) (RenderedMessage, error) {
	customer := e.UserName
	if customer == "" {
		customer = fallbackCustomerName
	}
	orderLabel := e.ID
	if orderLabel == "" {
		orderLabel = fallbackNoOrderID
	}
	body, err := renderBody(orderAdminTemplate, e.mailParams())
	return RenderedMessage{
		Subject:    fmt.Sprintf("New Order Received: %s (%s)", customer, orderLabel),
		BodyMarkup: body,
	}, err
}

func (e OrderEvent) mailParams() OrderMailParams {
	customer := e.UserName
	if customer == "" {
		customer = fallbackCustomerName
	}
	return OrderMailParams{
		Date:          displayOrNow(e.CreatedAt),
		OrderID:       e.ID,
		CustomerName:  customer,
		UserName:      e.UserName,
		UserEmail:     e.UserEmail,
		Phone:         e.Phone,
		PaymentMethod: capitalize(e.PaymentMethod),
		IsInvoice:     e.PaymentMethod == "invoice",
		PlanTitle:     e.PlanTitle,
		PlanID:        e.PlanID,
		Price:         e.Price.String(),
	}
}

// capitalize uppercases the first letter only, matching the display rule
// for payment methods.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
