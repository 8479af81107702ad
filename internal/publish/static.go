package publish

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/class-reporter/internal/rendering"
	"github.com/jonathan/class-reporter/internal/types"
)

// ObjectStore persists named objects and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// FSStore is an ObjectStore backed by a local directory, for self-hosted
// static serving and for tests.
type FSStore struct {
	Dir     string
	BaseURL string
}

// Put writes the object under the store directory and returns its URL.
func (s *FSStore) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	dest := filepath.Join(s.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + name, nil
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { max-width: 720px; margin: 2rem auto; padding: 0 1rem; font-family: Georgia, serif; line-height: 1.6; color: #222; }
h1, h2, h3 { line-height: 1.25; }
blockquote { border-left: 3px solid #ccc; margin-left: 0; padding-left: 1rem; color: #555; }
hr { border: none; border-top: 1px solid #ddd; margin: 2rem 0; }
figure { margin: 1.5rem 0; }
figure img { max-width: 100%; border-radius: 4px; }
.report-date { color: #777; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .ReportDate}}<p class="report-date">{{.ReportDate}}</p>{{end}}
{{.Content}}
{{range .PhotoURLs}}<figure><img src="{{.}}" alt="Class activity photo" loading="lazy"></figure>
{{end}}</body>
</html>
`))

// StaticPagePublisher renders the report as a standalone HTML page and
// stores it, mirroring attached photos into the same store so the page
// does not depend on upstream image hosts.
type StaticPagePublisher struct {
	store   ObjectStore
	emitter *rendering.StaticPageEmitter
	client  *http.Client

	// MirrorConcurrency bounds concurrent photo downloads.
	MirrorConcurrency int
}

// NewStaticPagePublisher creates a publisher writing to the given store.
func NewStaticPagePublisher(store ObjectStore) (*StaticPagePublisher, error) {
	if store == nil {
		return nil, &PublishError{Destination: "static_page", Message: "object store is required"}
	}
	return &StaticPagePublisher{
		store:             store,
		emitter:           rendering.NewStaticPageEmitter(),
		client:            &http.Client{Timeout: 30 * time.Second},
		MirrorConcurrency: 4,
	}, nil
}

// Destination identifies the publish target this publisher serves.
func (p *StaticPagePublisher) Destination() types.Destination {
	return types.DestinationStaticPage
}

// Publish renders and stores the page, returning its public URL.
func (p *StaticPagePublisher) Publish(ctx context.Context, report Report) (*Result, error) {
	slug := fmt.Sprintf("%s-%s", slugify(report.Title), time.Now().Format("20060102-150405"))
	photoURLs := p.mirrorPhotos(ctx, slug, report.PhotoURLs)

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title      string
		ReportDate string
		Content    template.HTML
		PhotoURLs  []string
	}{
		Title:      report.Title,
		ReportDate: report.ReportDate,
		Content:    template.HTML(p.emitter.HTML(report.Document)),
		PhotoURLs:  photoURLs,
	})
	if err != nil {
		return nil, &PublishError{Destination: "static_page", Message: "failed to render page", Cause: err}
	}

	name := fmt.Sprintf("reports/%s.html", slug)
	url, err := p.store.Put(ctx, name, "text/html; charset=utf-8", buf.Bytes())
	if err != nil {
		return nil, &PublishError{Destination: "static_page", Message: "failed to store page", Cause: err}
	}

	return &Result{
		URL:          url,
		PlatformData: map[string]string{"storage_path": name},
	}, nil
}

// mirrorPhotos copies photos into the store so the page is self-contained.
// A photo that cannot be mirrored keeps its original URL.
func (p *StaticPagePublisher) mirrorPhotos(ctx context.Context, slug string, urls []string) []string {
	if len(urls) == 0 {
		return nil
	}

	mirrored := make([]string, len(urls))
	copy(mirrored, urls)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.MirrorConcurrency)

	for i, url := range urls {
		g.Go(func() error {
			stored, err := p.mirrorOne(ctx, slug, i, url)
			if err != nil {
				log.Printf("failed to mirror photo %s, keeping original URL: %v", url, err)
				return nil
			}
			mirrored[i] = stored
			return nil
		})
	}
	_ = g.Wait()

	return mirrored
}

func (p *StaticPagePublisher) mirrorOne(ctx context.Context, slug string, index int, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}

	ext := path.Ext(url)
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}
	name := fmt.Sprintf("images/%s/photo-%d%s", slug, index+1, ext)
	return p.store.Put(ctx, name, resp.Header.Get("Content-Type"), data)
}

// slugify reduces a title to a filesystem and URL safe name.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "report"
	}
	return out
}
