package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

const requestTimeout = 10 * time.Second

func newHealthCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check gateway health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := &http.Client{Timeout: requestTimeout}
			resp, err := client.Get(rt.server + "/health")
			if err != nil {
				return fmt.Errorf("reaching %s: %w", rt.server, err)
			}
			defer resp.Body.Close()

			var status struct {
				Status    string          `json:"status"`
				Timestamp string          `json:"timestamp"`
				Services  map[string]bool `json:"services"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
				return fmt.Errorf("decoding health response: %w", err)
			}

			fmt.Fprintf(rt.writer, "status:    %s\n", status.Status)
			fmt.Fprintf(rt.writer, "timestamp: %s\n", status.Timestamp)
			for name, up := range status.Services {
				state := "down"
				if up {
					state = "up"
				}
				fmt.Fprintf(rt.writer, "service %s: %s\n", name, state)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("gateway returned HTTP %d", resp.StatusCode)
			}
			return nil
		},
	}
}
