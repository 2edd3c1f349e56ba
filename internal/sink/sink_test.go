package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travel-news/internal/article"
)

func sampleArticles() []article.Article {
	return []article.Article{
		{
			Title:       "Hotels push direct booking, again",
			Source:      article.SourceSkift,
			URL:         "https://skift.com/2025/03/01/hotels-direct",
			PublishedAt: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			Title:       "OTA earnings, Q4",
			Source:      article.SourcePhocusWire,
			URL:         "https://www.phocuswire.com/ota-earnings-q4",
			PublishedAt: time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC),
		},
	}
}

func readCSV(t *testing.T, r io.Reader) [][]string {
	t.Helper()
	rows, err := csv.NewReader(r).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVSink_RewritesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")
	s := NewCSVSink(path)

	require.NoError(t, os.WriteFile(path, []byte("stale,content\n"), 0o644))
	require.NoError(t, s.Write(context.Background(), sampleArticles()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows := readCSV(t, f)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"title", "source", "url", "published_at"}, rows[0])
	assert.Equal(t, []string{
		"Hotels push direct booking, again",
		"Skift",
		"https://skift.com/2025/03/01/hotels-direct",
		"2025-03-01T09:30:00Z",
	}, rows[1])
	assert.Equal(t, "PhocusWire", rows[2][1])
}

func TestCSVSink_FileIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "articles.csv")

	require.NoError(t, NewCSVSink(path).Write(context.Background(), sampleArticles()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCSVSink_EmptySetStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")

	require.NoError(t, NewCSVSink(path).Write(context.Background(), nil))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "title,source,url,published_at\n", string(b))
}

func TestCSVSink_UnwritableLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "articles.csv")

	err := NewCSVSink(path).Write(context.Background(), sampleArticles())
	require.Error(t, err)
}

func TestTableSink_RendersColumnsAndRows(t *testing.T) {
	var buf bytes.Buffer
	s := NewTableSink(&buf, "Top 5 Latest Articles:")

	require.NoError(t, s.Write(context.Background(), sampleArticles()))

	out := buf.String()
	assert.Contains(t, out, "Top 5 Latest Articles:")
	for _, col := range []string{"Title", "Source", "Published At", "URL"} {
		assert.Contains(t, out, col)
	}
	assert.Contains(t, out, "Hotels push direct booking, again")
	assert.Contains(t, out, "2025-03-01 09:30:00")
	assert.Contains(t, out, "https://www.phocuswire.com/ota-earnings-q4")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Hotels push")), bytes.Index(buf.Bytes(), []byte("OTA earnings")))
}

func TestTableSink_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewTableSink(&buf, "").Write(context.Background(), nil))
	assert.Contains(t, buf.String(), "No articles found")
}

type mockPutter struct {
	mock.Mock
}

func (m *mockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func TestS3Sink_UploadsCSV(t *testing.T) {
	putter := &mockPutter{}
	s := newS3Sink(putter, "news-archive", "exports")

	var body []byte
	putter.
		On("PutObject", mock.Anything, mock.AnythingOfType("*s3.PutObjectInput")).
		Run(func(args mock.Arguments) {
			in := args.Get(1).(*s3.PutObjectInput)
			assert.Equal(t, "news-archive", *in.Bucket)
			assert.Equal(t, "exports/articles.csv", *in.Key)
			b, err := io.ReadAll(in.Body)
			require.NoError(t, err)
			body = b
		}).
		Return(&s3.PutObjectOutput{}, nil).
		Once()

	require.NoError(t, s.Write(context.Background(), sampleArticles()))
	putter.AssertExpectations(t)

	rows := readCSV(t, bytes.NewReader(body))
	require.Len(t, rows, 3)
	assert.Equal(t, "s3://news-archive/exports/articles.csv", s.Name())
}

func TestS3Sink_ErrorBubbles(t *testing.T) {
	putter := &mockPutter{}
	s := newS3Sink(putter, "news-archive", "")

	putter.
		On("PutObject", mock.Anything, mock.Anything).
		Return(nil, errors.New("access denied"))

	err := s.Write(context.Background(), sampleArticles())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
