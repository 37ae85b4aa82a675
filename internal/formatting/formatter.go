package formatting

import (
	"strings"
	"unicode/utf8"
)

// NewlineDelimiter is the effective delimiter when newline mode is on.
const NewlineDelimiter = "\n"

// JoinSeparator joins wrapped segments regardless of the input delimiter.
const JoinSeparator = ","

// Options controls how a list is split and wrapped.
type Options struct {
	Delimiter           string `yaml:"delimiter" json:"delimiter"`
	StartChar           string `yaml:"start_char" json:"start_char"`
	EndChar             string `yaml:"end_char" json:"end_char"`
	UseNewlineDelimiter bool   `yaml:"use_newline" json:"use_newline"`
}

// DefaultOptions quotes every item in single quotes and splits on commas.
func DefaultOptions() Options {
	return Options{
		Delimiter: ",",
		StartChar: "'",
		EndChar:   "'",
	}
}

// EffectiveDelimiter returns the delimiter actually used for splitting.
func EffectiveDelimiter(opts Options) string {
	if opts.UseNewlineDelimiter {
		return NewlineDelimiter
	}
	return opts.Delimiter
}

// Split breaks text on the effective delimiter and trims every segment.
// Empty segments are kept. An empty delimiter splits text into its
// individual characters, so empty text yields no segments at all.
func Split(text string, opts Options) []string {
	segments := strings.Split(text, EffectiveDelimiter(opts))
	for i, s := range segments {
		segments[i] = strings.TrimSpace(s)
	}
	return segments
}

// Format wraps every segment of text in the start and end characters and
// joins the result with a comma. It never fails.
func Format(text string, opts Options) string {
	segments := Split(text, opts)

	var sb strings.Builder
	for i, s := range segments {
		if i > 0 {
			sb.WriteString(JoinSeparator)
		}
		sb.WriteString(opts.StartChar)
		sb.WriteString(s)
		sb.WriteString(opts.EndChar)
	}
	return sb.String()
}

// Truncate cuts text to at most maxLen characters without splitting a
// multi-byte rune.
func Truncate(text string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLen])
}

func TruncateToFirstLine(text string, maxLen int) string {
	if idx := strings.IndexByte(text, '\n'); idx != -1 {
		text = text[:idx]
	}
	if utf8.RuneCountInString(text) > maxLen {
		text = Truncate(text, maxLen) + "..."
	}
	return text
}
