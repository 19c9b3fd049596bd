package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/distill/internal/config"
	"github.com/agenthands/distill/internal/core"
	"github.com/agenthands/distill/internal/llm"
)

func newExtractCommand(configPath *string) *cobra.Command {
	var classification string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "extract <transcript-file>",
		Short: "Run multi-pass extraction over a transcript file and print the merged result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err == nil {
				log.Println("Loaded environment from .env")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read transcript: %w", err)
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				cfg = config.Default()
			}
			if envProvider := os.Getenv("LLM_PROVIDER"); envProvider != "" {
				cfg.LLM.Provider = envProvider
			}
			if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
				cfg.LLM.Model = envModel
			}
			if envAPIKey := os.Getenv("LLM_API_KEY"); envAPIKey != "" {
				cfg.LLM.APIKey = envAPIKey
			}
			if envBaseURL := os.Getenv("LLM_BASE_URL"); envBaseURL != "" {
				cfg.LLM.BaseURL = envBaseURL
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			llmClient, err := llm.NewClient(ctx, cfg.LLM)
			if err != nil {
				return fmt.Errorf("failed to initialize LLM client: %w", err)
			}

			pipeline, err := core.NewPipeline(llmClient, cfg)
			if err != nil {
				return err
			}

			result, err := pipeline.Extract(ctx, string(data), core.ExtractOptions{
				Classification: classification,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&classification, "classification", "", "content classification hint (e.g. technical, investigative)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "job timeout; partial results merge if mandatory passes finished")

	return cmd
}
