package publish

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore_Put(t *testing.T) {
	dir := t.TempDir()
	store := &FSStore{Dir: dir, BaseURL: "https://reports.example.com"}

	url, err := store.Put(context.Background(), "reports/test.html", "text/html", []byte("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, "https://reports.example.com/reports/test.html", url)

	data, err := os.ReadFile(filepath.Join(dir, "reports", "test.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}

func TestStaticPagePublisher_Publish(t *testing.T) {
	dir := t.TempDir()
	store := &FSStore{Dir: dir, BaseURL: "https://reports.example.com"}

	pub, err := NewStaticPagePublisher(store)
	require.NoError(t, err)

	result, err := pub.Publish(context.Background(), Report{
		Title:      "Spring Field Day",
		ReportDate: "2026-05-04",
		Document:   sampleDocument(),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.URL, "https://reports.example.com/reports/spring-field-day-"))
	assert.True(t, strings.HasSuffix(result.URL, ".html"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.PlatformData["storage_path"])))
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "<title>Spring Field Day</title>")
	assert.Contains(t, page, `<p class="report-date">2026-05-04</p>`)
	assert.Contains(t, page, "<h1>Field Day</h1>")
	assert.Contains(t, page, "<p>We played outside.</p>")
}

func TestStaticPagePublisher_MirrorsPhotos(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, "jpeg-bytes")
	}))
	defer imageServer.Close()

	dir := t.TempDir()
	store := &FSStore{Dir: dir, BaseURL: "https://reports.example.com"}

	pub, err := NewStaticPagePublisher(store)
	require.NoError(t, err)

	result, err := pub.Publish(context.Background(), Report{
		Title:     "Photo Day",
		Document:  sampleDocument(),
		PhotoURLs: []string{imageServer.URL + "/a.jpg", imageServer.URL + "/b.png"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.PlatformData["storage_path"])))
	require.NoError(t, err)
	page := string(data)

	// Photos reference the mirrored copies, not the upstream host.
	assert.NotContains(t, page, imageServer.URL)
	assert.Contains(t, page, "/photo-1.jpg")
	assert.Contains(t, page, "/photo-2.png")

	matches, err := filepath.Glob(filepath.Join(dir, "images", "*", "photo-*"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestStaticPagePublisher_KeepsOriginalURLOnMirrorFailure(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer imageServer.Close()

	dir := t.TempDir()
	store := &FSStore{Dir: dir, BaseURL: "https://reports.example.com"}

	pub, err := NewStaticPagePublisher(store)
	require.NoError(t, err)

	photoURL := imageServer.URL + "/missing.jpg"
	result, err := pub.Publish(context.Background(), Report{
		Title:     "Photo Day",
		Document:  sampleDocument(),
		PhotoURLs: []string{photoURL},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.PlatformData["storage_path"])))
	require.NoError(t, err)
	assert.Contains(t, string(data), photoURL)
}

func TestNewStaticPagePublisher_NilStore(t *testing.T) {
	_, err := NewStaticPagePublisher(nil)
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "spring-field-day", slugify("Spring Field Day"))
	assert.Equal(t, "art-class-2", slugify("  Art Class #2! "))
	assert.Equal(t, "report", slugify("!!!"))
}
