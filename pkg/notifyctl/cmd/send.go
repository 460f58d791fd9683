package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func newSendCommand(rt *runtimeState) *cobra.Command {
	send := &cobra.Command{
		Use:   "send",
		Short: "Send a test notification through the gateway",
	}

	var email string
	contact := &cobra.Command{
		Use:   "contact",
		Short: "Send a test contact notification",
		RunE: func(_ *cobra.Command, _ []string) error {
			return postNotification(rt, "/notify/contact", map[string]any{
				"email":     email,
				"firstName": "Test",
				"lastName":  "Sender",
				"subject":   "notifyctl test message",
				"message":   "This is a test contact notification sent by notifyctl.",
			})
		},
	}
	contact.Flags().StringVar(&email, "email", "test@example.com", "originating address for the test message")

	var planID string
	modification := &cobra.Command{
		Use:   "modification",
		Short: "Send a test plan modification notification",
		RunE: func(_ *cobra.Command, _ []string) error {
			return postNotification(rt, "/notify/modification", map[string]any{
				"email":         email,
				"planId":        planID,
				"planTitle":     "Test Plan",
				"status":        "pending",
				"modifications": "Test modification request sent by notifyctl.",
			})
		},
	}
	modification.Flags().StringVar(&email, "email", "test@example.com", "originating address for the test message")
	modification.Flags().StringVar(&planID, "plan-id", "PLAN-TEST-1", "plan identifier for the test request")

	var orderID, paymentMethod string
	order := &cobra.Command{
		Use:   "order",
		Short: "Send a test order notification pair",
		RunE: func(_ *cobra.Command, _ []string) error {
			return postNotification(rt, "/notify/order", map[string]any{
				"userEmail":     email,
				"id":            orderID,
				"paymentMethod": paymentMethod,
				"userName":      "Test Customer",
				"planTitle":     "Test Plan",
				"price":         "49.99",
			})
		},
	}
	order.Flags().StringVar(&email, "email", "test@example.com", "purchaser address for the test order")
	order.Flags().StringVar(&orderID, "order-id", "ORDER-TEST-1", "order identifier")
	order.Flags().StringVar(&paymentMethod, "payment-method", "card", "payment method (e.g. card, invoice)")

	send.AddCommand(contact, modification, order)
	return send
}

func postNotification(rt *runtimeState, path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Post(rt.server+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting to %s%s: %w", rt.server, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	fmt.Fprintf(rt.writer, "HTTP %d\n%s\n", resp.StatusCode, respBody)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned HTTP %d", resp.StatusCode)
	}
	return nil
}
