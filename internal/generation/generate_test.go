package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/class-reporter/internal/llm"
)

// fakeClient is a canned-response llm.Client for tests.
type fakeClient struct {
	response string
	err      error

	lastPrompt string
	lastTier   llm.ModelTier
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	f.lastTier = tier
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	f.lastTier = tier
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestGenerateReport_Valid(t *testing.T) {
	client := &fakeClient{
		response: `{"title":"Spring Field Day","report_date":"2026-05-04","content":["# Field Day","We played **games** outside."]}`,
	}

	envelope, err := GenerateReport(context.Background(), client, GenerateRequest{
		Notes:      "Played games outside all afternoon.",
		ReportDate: "2026-05-04",
		PhotoCount: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "Spring Field Day", envelope.Title)
	assert.Equal(t, "2026-05-04", envelope.ReportDate)
	assert.Len(t, envelope.Content, 2)
	assert.Equal(t, llm.TierWriting, client.lastTier)
	assert.Contains(t, client.lastPrompt, "Played games outside all afternoon.")
	assert.Contains(t, client.lastPrompt, "2026-05-04")
	assert.Contains(t, client.lastPrompt, "3")
}

func TestGenerateReport_FencedResponse(t *testing.T) {
	client := &fakeClient{
		response: "```json\n{\"title\":\"Art Class\",\"report_date\":\"2026-05-04\",\"content\":[\"We painted.\"]}\n```",
	}

	envelope, err := GenerateReport(context.Background(), client, GenerateRequest{
		Notes:      "Painting day.",
		ReportDate: "2026-05-04",
	})
	require.NoError(t, err)
	assert.Equal(t, "Art Class", envelope.Title)
}

func TestGenerateReport_EmptyNotes(t *testing.T) {
	client := &fakeClient{}

	_, err := GenerateReport(context.Background(), client, GenerateRequest{})
	require.Error(t, err)

	var apiErr *APICallError
	assert.True(t, errors.As(err, &apiErr))
}

func TestGenerateReport_APIError(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("quota exceeded")}

	_, err := GenerateReport(context.Background(), client, GenerateRequest{
		Notes: "Some notes.",
	})
	require.Error(t, err)

	var apiErr *APICallError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateReport_SchemaMismatch(t *testing.T) {
	client := &fakeClient{
		response: `{"title":"Missing pieces"}`,
	}

	_, err := GenerateReport(context.Background(), client, GenerateRequest{
		Notes: "Some notes.",
	})
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestGenerateReport_NotJSON(t *testing.T) {
	client := &fakeClient{
		response: "Sorry, I cannot help with that.",
	}

	_, err := GenerateReport(context.Background(), client, GenerateRequest{
		Notes: "Some notes.",
	})
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestFormatPrecheck_RewritesContent(t *testing.T) {
	client := &fakeClient{response: "## Heading\n\n- item"}

	out := FormatPrecheck(context.Background(), client, "#### Heading\n\n| a | b |")
	assert.Equal(t, "## Heading\n\n- item", out)
	assert.Equal(t, llm.TierLite, client.lastTier)
}

func TestFormatPrecheck_FallsBackOnError(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("model unavailable")}

	input := "# Heading\n\nBody."
	out := FormatPrecheck(context.Background(), client, input)
	assert.Equal(t, input, out)
}

func TestFormatPrecheck_FallsBackOnEmptyResponse(t *testing.T) {
	client := &fakeClient{response: "   \n"}

	input := "# Heading"
	out := FormatPrecheck(context.Background(), client, input)
	assert.Equal(t, input, out)
}

func TestFormatPrecheck_EmptyInput(t *testing.T) {
	client := &fakeClient{response: "should not be used"}

	assert.Equal(t, "", FormatPrecheck(context.Background(), client, ""))
}
