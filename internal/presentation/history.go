package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"listfmt/internal/formatting"
	"listfmt/internal/history"
)

type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// PreviewLength is how many characters of input and output a table row shows.
const PreviewLength = 50

type HistoryPresenter struct {
	writer   io.Writer
	format   OutputFormat
	location *time.Location
}

func NewHistoryPresenter(writer io.Writer, format OutputFormat) *HistoryPresenter {
	return &HistoryPresenter{
		writer:   writer,
		format:   format,
		location: time.Local,
	}
}

// In renders timestamps in loc instead of the local zone.
func (p *HistoryPresenter) In(loc *time.Location) *HistoryPresenter {
	p.location = loc
	return p
}

func (p *HistoryPresenter) Present(entries []history.Conversion) error {
	switch p.format {
	case FormatJSON:
		return p.presentJSON(entries)
	default:
		return p.presentTable(entries)
	}
}

func (p *HistoryPresenter) presentTable(entries []history.Conversion) error {
	if len(entries) == 0 {
		fmt.Fprintln(p.writer, "No conversions yet")
		return nil
	}

	for i, entry := range entries {
		fmt.Fprintf(p.writer, "[%d] %s\n", i+1, entry.Time().In(p.location).Format("2006-01-02 15:04:05"))
		fmt.Fprintf(p.writer, "    Input:  %s\n", preview(entry.Input))
		fmt.Fprintf(p.writer, "    Output: %s\n", preview(entry.Output))
	}

	fmt.Fprintf(p.writer, "\nUse 'listfmt history copy <n>' to copy an output again\n")
	return nil
}

// preview shows at most PreviewLength characters followed by an ellipsis,
// on a single line.
func preview(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", `\n`)
	return formatting.Truncate(s, PreviewLength) + "..."
}

func (p *HistoryPresenter) presentJSON(entries []history.Conversion) error {
	type output struct {
		Entries []history.Conversion `json:"entries"`
		Count   int                  `json:"count"`
	}

	if entries == nil {
		entries = []history.Conversion{}
	}

	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output{Entries: entries, Count: len(entries)})
}
