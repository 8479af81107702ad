package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/class-reporter/internal/rendering"
	"github.com/jonathan/class-reporter/internal/types"
)

const (
	defaultWorkspaceBaseURL = "https://api.notion.com/v1"
	workspaceAPIVersion     = "2022-06-28"

	// The workspace API rejects more than 100 blocks per request.
	maxBlocksPerRequest = 100
)

// WorkspacePublisher creates a page for the report under a parent database
// in the workspace, appending blocks in batches of at most 100.
type WorkspacePublisher struct {
	// BaseURL is the API root. Tests point it at a local server.
	BaseURL string

	token    string
	parentID string
	emitter  *rendering.WorkspaceEmitter
	client   *http.Client
}

// NewWorkspacePublisher creates a publisher for the workspace REST API.
func NewWorkspacePublisher(token, parentID string) (*WorkspacePublisher, error) {
	if token == "" {
		return nil, &PublishError{Destination: "workspace", Message: "API token is required"}
	}
	if parentID == "" {
		return nil, &PublishError{Destination: "workspace", Message: "parent database ID is required"}
	}
	return &WorkspacePublisher{
		BaseURL:  defaultWorkspaceBaseURL,
		token:    token,
		parentID: parentID,
		emitter:  rendering.NewWorkspaceEmitter(),
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Destination identifies the publish target this publisher serves.
func (p *WorkspacePublisher) Destination() types.Destination {
	return types.DestinationWorkspace
}

// Publish creates the report page and appends any overflow block batches.
func (p *WorkspacePublisher) Publish(ctx context.Context, report Report) (*Result, error) {
	blocks := p.assembleBlocks(report)

	pageTitle := report.Title
	if report.ReportDate != "" {
		pageTitle = fmt.Sprintf("%s - %s", pageTitle, report.ReportDate)
	}

	first := blocks
	if len(first) > maxBlocksPerRequest {
		first = blocks[:maxBlocksPerRequest]
	}

	pageID, err := p.createPage(ctx, pageTitle, first)
	if err != nil {
		return nil, err
	}

	for i := maxBlocksPerRequest; i < len(blocks); i += maxBlocksPerRequest {
		end := i + maxBlocksPerRequest
		if end > len(blocks) {
			end = len(blocks)
		}
		if err := p.appendBlocks(ctx, pageID, blocks[i:end]); err != nil {
			return nil, err
		}
	}

	return &Result{
		URL:          "https://notion.so/" + strings.ReplaceAll(pageID, "-", ""),
		PlatformData: map[string]string{"page_id": pageID},
	}, nil
}

// assembleBlocks builds the full block list: date line, divider, report
// body, then a photo section when photos are attached.
func (p *WorkspacePublisher) assembleBlocks(report Report) []map[string]any {
	var blocks []map[string]any

	if report.ReportDate != "" {
		date := types.Block{
			Kind:  types.KindParagraph,
			Spans: []types.StyledSpan{{Text: "Date: " + report.ReportDate, Bold: true}},
		}
		blocks = append(blocks, rendering.BlockOf(string(date.Kind), rendering.Spans(date.Spans)))
		blocks = append(blocks, rendering.DividerBlock())
	}

	blocks = append(blocks, p.emitter.Blocks(report.Document)...)

	if len(report.PhotoURLs) > 0 {
		blocks = append(blocks, rendering.DividerBlock())
		for i, url := range report.PhotoURLs {
			blocks = append(blocks, rendering.ImageBlock(url, fmt.Sprintf("Photo %d", i+1)))
		}
	}

	return blocks
}

func (p *WorkspacePublisher) createPage(ctx context.Context, title string, children []map[string]any) (string, error) {
	payload := map[string]any{
		"parent": map[string]any{"database_id": p.parentID},
		"properties": map[string]any{
			"Name": map[string]any{
				"title": []map[string]any{
					{"text": map[string]any{"content": title}},
				},
			},
		},
		"children": children,
	}

	body, err := p.doJSON(ctx, http.MethodPost, p.BaseURL+"/pages", payload)
	if err != nil {
		return "", &PublishError{Destination: "workspace", Message: "failed to create page", Cause: err}
	}

	pageID, ok := body["id"].(string)
	if !ok || pageID == "" {
		return "", &PublishError{Destination: "workspace", Message: "create page response missing page ID"}
	}
	return pageID, nil
}

func (p *WorkspacePublisher) appendBlocks(ctx context.Context, pageID string, blocks []map[string]any) error {
	payload := map[string]any{"children": blocks}
	url := fmt.Sprintf("%s/blocks/%s/children", p.BaseURL, pageID)
	if _, err := p.doJSON(ctx, http.MethodPatch, url, payload); err != nil {
		return &PublishError{Destination: "workspace", Message: "failed to append blocks", Cause: err}
	}
	return nil
}

func (p *WorkspacePublisher) doJSON(ctx context.Context, method, url string, payload any) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", workspaceAPIVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var body map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return body, nil
}
