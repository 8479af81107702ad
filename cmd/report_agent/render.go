package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/class-reporter/internal/report"
	"github.com/jonathan/class-reporter/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a Markdown document into a destination payload",
	Long:  "Render a Markdown document into the destination wire format: workspace JSON blocks or a static HTML fragment. Repairs applied along the way are reported on stderr.",
	RunE:  runRender,
}

var (
	renderInputFile        string
	renderOutputFile       string
	renderDestination      string
	renderMaxSpanTextLen   int
	renderMaxSpansPerBlock int
	renderMaxBlocks        int
)

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "-", "Path to Markdown file (- for stdin)")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output file (default stdout)")
	renderCmd.Flags().StringVarP(&renderDestination, "dest", "d", "workspace", "Destination: workspace or static_page")
	renderCmd.Flags().IntVar(&renderMaxSpanTextLen, "max-span-text-len", 0, "Override the per-segment character cap")
	renderCmd.Flags().IntVar(&renderMaxSpansPerBlock, "max-spans-per-block", 0, "Override the per-block segment cap")
	renderCmd.Flags().IntVar(&renderMaxBlocks, "max-blocks", 0, "Override the per-document block cap")

	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	dest, err := types.ParseDestination(renderDestination)
	if err != nil {
		return err
	}

	doc, err := readInput(renderInputFile)
	if err != nil {
		return err
	}

	limits := limitsFromFlags(renderMaxSpanTextLen, renderMaxSpansPerBlock, renderMaxBlocks)

	result, err := report.Render(doc, dest, limits)
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}

	printIssues(result.Issues)
	return writeOutput(renderOutputFile, result.Payload)
}
