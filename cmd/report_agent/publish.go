package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/class-reporter/internal/publish"
	"github.com/jonathan/class-reporter/internal/report"
	"github.com/jonathan/class-reporter/internal/types"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a Markdown report to a destination",
	Long:  "Render a Markdown report and deliver it: create a workspace page under the configured parent database, or write a static HTML page into the configured directory.",
	RunE:  runPublish,
}

var (
	publishInputFile   string
	publishTitle       string
	publishDate        string
	publishDestination string
	publishPhotoURLs   []string
	publishToken       string
	publishParentID    string
	publishStaticDir   string
	publishBaseURL     string
)

func init() {
	publishCmd.Flags().StringVarP(&publishInputFile, "in", "i", "-", "Path to Markdown file (- for stdin)")
	publishCmd.Flags().StringVarP(&publishTitle, "title", "t", "", "Report title (required)")
	publishCmd.Flags().StringVar(&publishDate, "date", "", "Activity date in YYYY-MM-DD format")
	publishCmd.Flags().StringVarP(&publishDestination, "dest", "d", "workspace", "Destination: workspace or static_page")
	publishCmd.Flags().StringSliceVar(&publishPhotoURLs, "photo", nil, "Photo URL to attach (repeatable)")
	publishCmd.Flags().StringVar(&publishToken, "token", "", "Workspace API token (overrides WORKSPACE_TOKEN env var)")
	publishCmd.Flags().StringVar(&publishParentID, "parent", "", "Workspace parent database ID (overrides WORKSPACE_PARENT_ID env var)")
	publishCmd.Flags().StringVar(&publishStaticDir, "static-dir", "", "Directory for static pages (overrides STATIC_DIR env var)")
	publishCmd.Flags().StringVar(&publishBaseURL, "static-base-url", "", "Public URL of the static directory (overrides STATIC_BASE_URL env var)")
	_ = publishCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(publishCmd)
}

func runPublish(_ *cobra.Command, _ []string) error {
	dest, err := types.ParseDestination(publishDestination)
	if err != nil {
		return err
	}

	publisher, err := buildPublisher(dest)
	if err != nil {
		return err
	}

	doc, err := readInput(publishInputFile)
	if err != nil {
		return err
	}

	result, err := report.Render(doc, dest, types.DefaultLimits())
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	printIssues(result.Issues)

	published, err := publisher.Publish(context.Background(), publish.Report{
		Title:      publishTitle,
		ReportDate: publishDate,
		Document:   result.Document,
		PhotoURLs:  publishPhotoURLs,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Published: %s\n", published.URL)
	return nil
}

func buildPublisher(dest types.Destination) (publish.Publisher, error) {
	switch dest {
	case types.DestinationWorkspace:
		token := publishToken
		if token == "" {
			token = os.Getenv("WORKSPACE_TOKEN")
		}
		parentID := publishParentID
		if parentID == "" {
			parentID = os.Getenv("WORKSPACE_PARENT_ID")
		}
		return publish.NewWorkspacePublisher(token, parentID)
	case types.DestinationStaticPage:
		dir := publishStaticDir
		if dir == "" {
			dir = os.Getenv("STATIC_DIR")
		}
		if dir == "" {
			return nil, fmt.Errorf("static directory is required (set STATIC_DIR environment variable or use --static-dir flag)")
		}
		baseURL := publishBaseURL
		if baseURL == "" {
			baseURL = os.Getenv("STATIC_BASE_URL")
		}
		return publish.NewStaticPagePublisher(&publish.FSStore{Dir: dir, BaseURL: baseURL})
	default:
		return nil, fmt.Errorf("no publisher for destination %q", dest)
	}
}
