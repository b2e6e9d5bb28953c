package collector

import (
	"regexp"
	"strings"

	"github.com/mpedroso/acontece/utils"
)

// Sections with fewer body words than this are navigation fragments, footers
// or teaser stubs, not articles.
const minSectionWords = 30

// Longest excerpt we derive from a section body, in characters.
const maxExcerptChars = 280

var (
	headingLine   = regexp.MustCompile(`^#{1,3}\s+(.+)$`)
	markdownImage = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)[^)]*\)`)
	markdownLink  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	emphasisChars = strings.NewReplacer("**", "", "__", "", "*", "", "_", "", "`", "")
)

// SplitSections breaks raw scraped markdown into candidate articles at
// heading boundaries. Each candidate takes its title from the heading and its
// body from everything up to the next heading; a title, excerpt and first
// image are derived per section. Text before the first heading is discarded.
func SplitSections(markdown string) []Candidate {
	var candidates []Candidate

	var title string
	var body []string
	flush := func() {
		if title == "" {
			return
		}
		if c, ok := buildCandidate(title, strings.Join(body, "\n")); ok {
			candidates = append(candidates, c)
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		if m := headingLine.FindStringSubmatch(line); m != nil {
			flush()
			title = cleanInline(m[1])
			body = body[:0]
			continue
		}
		body = append(body, line)
	}
	flush()

	return candidates
}

func buildCandidate(title, rawBody string) (Candidate, bool) {
	imageUrl, imageCaption := firstImage(rawBody)
	content := strings.TrimSpace(markdownImage.ReplaceAllString(rawBody, ""))

	if utils.CountWords(cleanInline(content)) < minSectionWords {
		return Candidate{}, false
	}

	return Candidate{
		Title:        title,
		Content:      content,
		Excerpt:      deriveExcerpt(content),
		ImageUrl:     imageUrl,
		ImageCaption: imageCaption,
	}, true
}

// firstImage returns the url and alt text of the first markdown image in the
// section, if any.
func firstImage(body string) (url, caption string) {
	if m := markdownImage.FindStringSubmatch(body); m != nil {
		return m[2], strings.TrimSpace(m[1])
	}
	return "", ""
}

// deriveExcerpt takes the first paragraph of the section, markdown inline
// syntax stripped, truncated on a word boundary.
func deriveExcerpt(content string) string {
	for _, paragraph := range strings.Split(content, "\n\n") {
		text := cleanInline(paragraph)
		if text == "" {
			continue
		}
		if len([]rune(text)) <= maxExcerptChars {
			return text
		}
		runes := []rune(text)
		cut := string(runes[:maxExcerptChars])
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		return cut + "…"
	}
	return ""
}

// cleanInline strips markdown inline syntax, keeping link text and dropping
// images entirely.
func cleanInline(text string) string {
	text = markdownImage.ReplaceAllString(text, "")
	text = markdownLink.ReplaceAllString(text, "$1")
	text = emphasisChars.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
