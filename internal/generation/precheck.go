package generation

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/class-reporter/internal/llm"
	"github.com/jonathan/class-reporter/internal/prompts"
)

// FormatPrecheck asks a lightweight model to rewrite markdown into the
// dialect the renderers support. It is best-effort: on any model failure
// or an empty response, the input is returned unchanged so the pipeline
// never blocks on the precheck.
func FormatPrecheck(ctx context.Context, client llm.Client, markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return markdown
	}

	template := prompts.MustGet("format-precheck")
	prompt := prompts.Format(template, map[string]string{
		"Markdown": markdown,
	})

	fixed, err := client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		log.Printf("format precheck failed, using original markdown: %v", err)
		return markdown
	}

	fixed = strings.TrimSpace(fixed)
	if fixed == "" {
		log.Printf("format precheck returned empty response, using original markdown")
		return markdown
	}

	return fixed
}
