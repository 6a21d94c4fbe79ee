// Package textnorm turns raw card field content into plain target text.
package textnorm

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Options selects the normalisation steps applied by Process.
type Options struct {
	RemoveHTMLTags          bool
	PreserveLineBreaks      bool
	HandleEntities          bool
	NormalizeWhitespace     bool
	RemoveExtraSpaces       bool
	ReplaceFormatting       bool
	KeepImportantFormatting bool
	FoldWidth               bool
}

// DefaultOptions mirrors what a card field usually needs before practice.
func DefaultOptions() Options {
	return Options{
		RemoveHTMLTags:      true,
		PreserveLineBreaks:  true,
		HandleEntities:      true,
		NormalizeWhitespace: true,
		RemoveExtraSpaces:   true,
		ReplaceFormatting:   true,
	}
}

var (
	formattingTags = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<b\b[^>]*>(.*?)</b>`),
		regexp.MustCompile(`(?is)<i\b[^>]*>(.*?)</i>`),
		regexp.MustCompile(`(?is)<u\b[^>]*>(.*?)</u>`),
		regexp.MustCompile(`(?is)<strong\b[^>]*>(.*?)</strong>`),
		regexp.MustCompile(`(?is)<em\b[^>]*>(.*?)</em>`),
		regexp.MustCompile(`(?is)<mark\b[^>]*>(.*?)</mark>`),
	}
	importantTags = map[string]struct{}{"b": {}, "i": {}, "u": {}, "strong": {}, "em": {}}

	anyTagRe       = regexp.MustCompile(`<[^>]+>`)
	tagNameRe      = regexp.MustCompile(`^</?\s*([a-zA-Z0-9]+)`)
	lineBreakRe    = regexp.MustCompile(`(?i)<br[^>]*>`)
	paragraphEndRe = regexp.MustCompile(`(?i)</p[^>]*>`)
	paragraphRe    = regexp.MustCompile(`(?i)<p\b[^>]*>`)
	manyNewlinesRe = regexp.MustCompile(`\n{3,}`)
	blockSpaceRe   = regexp.MustCompile(`[\t\f\v\r]`)
	doubleSpaceRe  = regexp.MustCompile(` {2,}`)
	entityRe       = regexp.MustCompile(`&(#[0-9]+|#x[0-9a-fA-F]+|[a-zA-Z]+);`)
)

// Process cleans content according to opts. Tags are handled before
// entities so that escaped markup such as "&lt;b&gt;" survives as text.
func Process(content string, opts Options) string {
	if content == "" {
		return ""
	}
	if opts.ReplaceFormatting && !opts.KeepImportantFormatting {
		content = unwrapFormatting(content)
	}
	if opts.PreserveLineBreaks {
		content = lineBreakRe.ReplaceAllString(content, "\n")
		content = paragraphEndRe.ReplaceAllString(content, "\n\n")
		content = paragraphRe.ReplaceAllString(content, "")
		content = manyNewlinesRe.ReplaceAllString(content, "\n\n")
	}
	if opts.RemoveHTMLTags {
		content = removeTags(content, opts.KeepImportantFormatting)
	}
	if opts.HandleEntities {
		content = html.UnescapeString(content)
	}
	if opts.NormalizeWhitespace {
		content = blockSpaceRe.ReplaceAllString(content, " ")
		content = strings.ReplaceAll(content, "\u00a0", " ")
	}
	content = norm.NFC.String(content)
	if opts.FoldWidth {
		content = width.Fold.String(content)
	}
	if opts.RemoveExtraSpaces {
		content = joinLines(content)
	}
	return strings.TrimSpace(content)
}

// Clean applies DefaultOptions, optionally keeping tags in place.
func Clean(content string, removeHTML bool) string {
	opts := DefaultOptions()
	opts.RemoveHTMLTags = removeHTML
	return Process(content, opts)
}

func unwrapFormatting(content string) string {
	for _, re := range formattingTags {
		content = re.ReplaceAllString(content, "$1")
	}
	return content
}

func removeTags(content string, keepImportant bool) string {
	if !keepImportant {
		return anyTagRe.ReplaceAllString(content, "")
	}
	return anyTagRe.ReplaceAllStringFunc(content, func(tag string) string {
		m := tagNameRe.FindStringSubmatch(tag)
		if m == nil {
			return ""
		}
		if _, ok := importantTags[strings.ToLower(m[1])]; ok {
			return tag
		}
		return ""
	})
}

func joinLines(content string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return doubleSpaceRe.ReplaceAllString(strings.Join(kept, " "), " ")
}

// Analysis describes what Process would find in a field.
type Analysis struct {
	HasHTML       bool
	HasEntities   bool
	HasFormatting bool
	LineCount     int
	CharCount     int
	WordCount     int
	TagCounts     map[string]int
}

var formattingOpenRe = regexp.MustCompile(`(?i)<(b|i|u|strong|em)\b[^>]*>`)

// Analyze inspects raw content without modifying it.
func Analyze(content string) Analysis {
	a := Analysis{
		HasHTML:       anyTagRe.MatchString(content),
		HasEntities:   entityRe.MatchString(content),
		HasFormatting: formattingOpenRe.MatchString(content),
		LineCount:     strings.Count(content, "\n") + 1,
		CharCount:     len([]rune(content)),
		WordCount:     len(strings.Fields(content)),
		TagCounts:     map[string]int{},
	}
	for _, tag := range anyTagRe.FindAllString(content, -1) {
		m := tagNameRe.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		a.TagCounts[strings.ToLower(m[1])]++
	}
	return a
}
