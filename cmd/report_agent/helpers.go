package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/class-reporter/internal/types"
)

// readInput reads a file, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

// writeOutput writes to a file, or stdout when path is empty or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// limitsFromFlags applies flag overrides to the default limits.
func limitsFromFlags(maxSpanTextLen, maxSpansPerBlock, maxBlocks int) types.Limits {
	limits := types.DefaultLimits()
	if maxSpanTextLen > 0 {
		limits.MaxSpanTextLen = maxSpanTextLen
	}
	if maxSpansPerBlock > 0 {
		limits.MaxSpansPerBlock = maxSpansPerBlock
	}
	if maxBlocks > 0 {
		limits.MaxBlocks = maxBlocks
	}
	return limits
}

// printIssues reports repairs to stderr so payload output stays clean.
func printIssues(issues []types.ValidationIssue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "%d repair(s) applied:\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "  %s\n", issue)
	}
}
