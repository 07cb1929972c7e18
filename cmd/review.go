package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/choose-paper/review-agent/internal/paper"
	"github.com/choose-paper/review-agent/internal/review"
)

var (
	reviewPaper       string
	reviewDomain      string
	reviewTone        string
	reviewLanguage    string
	reviewModel       string
	reviewBaseURL     string
	reviewAPIKey      string
	reviewTemperature float64
	reviewOutput      string
)

// reviewClientFactory is swapped out by tests; nil means the real client.
var reviewClientFactory review.ClientFactory

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a single paper and print the verdict",
	RunE: func(cmd *cobra.Command, args []string) error {
		model := reviewModel
		if model == "" {
			model = cfg.OpenAI.Model
		}
		baseURL := reviewBaseURL
		if baseURL == "" {
			baseURL = cfg.OpenAI.BaseURL
		}
		apiKey := reviewAPIKey
		if apiKey == "" {
			apiKey = cfg.OpenAI.APIKey
		}

		agent := review.New(paper.NewReader(), reviewClientFactory)
		result, err := agent.Run(cmd.Context(), review.Request{
			Source:      reviewPaper,
			Domain:      reviewDomain,
			Tone:        reviewTone,
			Language:    reviewLanguage,
			Model:       model,
			BaseURL:     baseURL,
			APIKey:      apiKey,
			Temperature: reviewTemperature,
		})
		if err != nil {
			return err
		}

		if reviewOutput != "" {
			if err := os.WriteFile(reviewOutput, []byte(result.Review), 0o644); err != nil {
				return eris.Wrap(err, "review: write output file")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved review to %s\n", reviewOutput)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Review)
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewPaper, "paper", "", "path/URL to the paper (txt/pdf/html), or '-' to read from stdin")
	reviewCmd.Flags().StringVar(&reviewDomain, "domain", "ML", "research domain persona (CV|ML|NLP)")
	reviewCmd.Flags().StringVar(&reviewTone, "tone", review.DefaultTone, "tone reminder injected into the prompt")
	reviewCmd.Flags().StringVar(&reviewLanguage, "language", "en", "output language (en|zh)")
	reviewCmd.Flags().StringVar(&reviewModel, "model", "", "model name (default from OPENAI_MODEL or gpt-4o-mini)")
	reviewCmd.Flags().StringVar(&reviewBaseURL, "base-url", "", "OpenAI-compatible base URL (default from OPENAI_BASE_URL)")
	reviewCmd.Flags().StringVar(&reviewAPIKey, "api-key", "", "API key (default from OPENAI_API_KEY)")
	reviewCmd.Flags().Float64Var(&reviewTemperature, "temperature", 0.2, "sampling temperature")
	reviewCmd.Flags().StringVar(&reviewOutput, "output", "", "optional path to save the review instead of printing it")
	_ = reviewCmd.MarkFlagRequired("paper")
	rootCmd.AddCommand(reviewCmd)
}
