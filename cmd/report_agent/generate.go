package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/class-reporter/internal/generation"
	"github.com/jonathan/class-reporter/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a report write-up from raw class notes",
	Long:  "Send raw class notes to the language model and produce a structured write-up, as Markdown or as the raw JSON envelope.",
	RunE:  runGenerate,
}

var (
	generateNotesFile  string
	generateOutputFile string
	generateDate       string
	generatePhotoCount int
	generateFormat     string
	generateAPIKey     string
	generatePrecheck   bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateNotesFile, "notes", "n", "-", "Path to class notes file (- for stdin)")
	generateCmd.Flags().StringVarP(&generateOutputFile, "out", "o", "", "Path to output file (default stdout)")
	generateCmd.Flags().StringVar(&generateDate, "date", "", "Activity date in YYYY-MM-DD format (default today)")
	generateCmd.Flags().IntVar(&generatePhotoCount, "photos", 0, "Number of photos that will accompany the report")
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "markdown", "Output format: markdown or json")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	generateCmd.Flags().BoolVar(&generatePrecheck, "precheck", false, "Run the format precheck on the generated Markdown")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	if generateFormat != "markdown" && generateFormat != "json" {
		return fmt.Errorf("unknown format %q (want markdown or json)", generateFormat)
	}

	apiKey := generateAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	notes, err := readInput(generateNotesFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	envelope, err := generation.GenerateReport(ctx, client, generation.GenerateRequest{
		Notes:      notes,
		ReportDate: generateDate,
		PhotoCount: generatePhotoCount,
	})
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if generateFormat == "json" {
		out, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal envelope: %w", err)
		}
		return writeOutput(generateOutputFile, append(out, '\n'))
	}

	md := envelope.Markdown()
	if generatePrecheck {
		md = generation.FormatPrecheck(ctx, client, md)
	}
	return writeOutput(generateOutputFile, []byte(md+"\n"))
}
