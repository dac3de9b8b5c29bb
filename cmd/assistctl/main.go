package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	serverURL string
	topK      int
	timeout   int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "assistctl",
	Short:   "Query a running appliance-assistant server",
	Version: version,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a repair question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := map[string]interface{}{"query": args[0]}
		if topK > 0 {
			payload["top_k"] = topK
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: time.Duration(timeout) * time.Second}
		resp, err := client.Post(serverURL+"/query", "application/json", bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		var body struct {
			Answer     *string `json:"answer"`
			TotalScore float64 `json:"total_score"`
			Error      string  `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
		}

		fmt.Printf("confidence: %.1f\n\n", body.TotalScore)
		if body.Answer != nil {
			fmt.Println(*body.Answer)
		} else {
			fmt.Println("(no synthesized answer available)")
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: time.Duration(timeout) * time.Second}
		resp, err := client.Get(serverURL + "/health")
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned %d", resp.StatusCode)
		}
		fmt.Println("healthy")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "Base URL of the assistant server")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 120, "Request timeout in seconds")
	askCmd.Flags().IntVar(&topK, "top-k", 0, "Number of passages to retrieve (server default when 0)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(healthCmd)
}
