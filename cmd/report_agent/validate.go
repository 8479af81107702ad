package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/class-reporter/internal/report"
	"github.com/jonathan/class-reporter/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a Markdown document against destination limits",
	Long:  "Parse a Markdown document and run the repair pass, printing the repaired block structure and every repair as JSON without emitting a payload.",
	RunE:  runValidate,
}

var (
	validateInputFile        string
	validateOutputFile       string
	validateMaxSpanTextLen   int
	validateMaxSpansPerBlock int
	validateMaxBlocks        int
	validateStrict           bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateInputFile, "in", "i", "-", "Path to Markdown file (- for stdin)")
	validateCmd.Flags().StringVarP(&validateOutputFile, "out", "o", "", "Path to output file (default stdout)")
	validateCmd.Flags().IntVar(&validateMaxSpanTextLen, "max-span-text-len", 0, "Override the per-segment character cap")
	validateCmd.Flags().IntVar(&validateMaxSpansPerBlock, "max-spans-per-block", 0, "Override the per-block segment cap")
	validateCmd.Flags().IntVar(&validateMaxBlocks, "max-blocks", 0, "Override the per-document block cap")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit non-zero when any repair was needed")

	rootCmd.AddCommand(validateCmd)
}

// validateReport is the JSON shape the validate command prints.
type validateReport struct {
	Blocks []types.Block           `json:"blocks"`
	Issues []types.ValidationIssue `json:"issues"`
}

func runValidate(_ *cobra.Command, _ []string) error {
	doc, err := readInput(validateInputFile)
	if err != nil {
		return err
	}

	limits := limitsFromFlags(validateMaxSpanTextLen, validateMaxSpansPerBlock, validateMaxBlocks)

	repaired, issues, err := report.ValidateOnly(doc, limits)
	if err != nil {
		return fmt.Errorf("failed to validate document: %w", err)
	}
	if issues == nil {
		issues = []types.ValidationIssue{}
	}

	out, err := json.MarshalIndent(validateReport{Blocks: repaired.Blocks, Issues: issues}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	out = append(out, '\n')

	if err := writeOutput(validateOutputFile, out); err != nil {
		return err
	}

	if validateStrict && len(issues) > 0 {
		fmt.Fprintf(os.Stderr, "%d repair(s) needed\n", len(issues))
		os.Exit(1)
	}
	return nil
}
