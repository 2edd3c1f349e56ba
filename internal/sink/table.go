package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"travel-news/internal/article"
)

// TableSink renders articles as a bordered table with the columns
// Title, Source, Published At and URL.
type TableSink struct {
	w     io.Writer
	title string
}

func NewTableSink(w io.Writer, title string) *TableSink {
	return &TableSink{w: w, title: title}
}

func (s *TableSink) Name() string { return "table" }

func (s *TableSink) Write(_ context.Context, articles []article.Article) error {
	if len(articles) == 0 {
		_, err := fmt.Fprintln(s.w, "No articles found in the database.")
		return err
	}

	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{
			a.Title,
			string(a.Source),
			a.PublishedAt.UTC().Format(displayTimeLayout),
			a.URL,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Title", "Source", "Published At", "URL").
		Rows(rows...)

	if s.title != "" {
		if _, err := fmt.Fprintf(s.w, "\n%s\n\n", s.title); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(s.w, t.Render())
	return err
}
