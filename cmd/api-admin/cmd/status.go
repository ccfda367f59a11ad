package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// StatusResponse mirrors the /status body of api-service.
type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Storage string `json:"storage"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running api-service",
	Long:  `Fetch /status from the api-service at --url. Exits non-zero when degraded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewClient(serviceURL)
		data, code, err := client.Get("/status")
		if err != nil {
			return err
		}

		if output == "json" {
			if err := printJSON(cmd.OutOrStdout(), data); err != nil {
				return err
			}
		} else {
			var resp StatusResponse
			if err := json.Unmarshal(data, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printTable(cmd.OutOrStdout(),
				[]string{"SERVICE", "STATUS", "STORAGE"},
				[][]string{{resp.Service, resp.Status, resp.Storage}},
			)
		}

		if code == http.StatusServiceUnavailable {
			return fmt.Errorf("service degraded")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
