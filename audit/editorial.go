// Package audit implements the editorial rule family: the advisory
// pre-publication review and the post-publish batch audit that demotes
// non-compliant published articles.
package audit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mpedroso/acontece/utils"
)

// Mojibake byte sequences that show up when UTF-8 encoded pt-BR text is
// decoded as Latin-1 somewhere along the scraping path, plus the Unicode
// replacement character.
var corruptedMarkers = []string{
	"Ã¡", "Ã©", "Ã­", "Ã³", "Ãº",
	"Ã£", "Ãµ", "Ã§", "Ãª", "Ã´", "Ã¢",
	"â€™", "â€˜", "â€œ", "â€", "â€“", "â€”",
	"�",
}

// "SC" must be spelled out as "Santa Catarina" in any editorial text. Matched
// as a whole word, any case.
var forbiddenAbbreviation = regexp.MustCompile(`(?i)\bsc\b`)

const maxExcerptWords = 300

// ReviewInput is the subset of article fields the pre-publication review
// inspects.
type ReviewInput struct {
	Title        string
	Excerpt      string
	Content      string
	ImageUrl     string
	ImageCaption string
	SourceUrl    string
	HasCategory  bool
	HasRegion    bool
}

// Violation is one broken rule, numbered so the editorial UI can highlight
// the corresponding field group.
type Violation struct {
	Rule    int    `json:"rule"`
	Message string `json:"message"`
}

// Verdict is the outcome of a pre-publication review. Advisory only: it never
// blocks database writes, just the editorial workflow.
type Verdict struct {
	Approved   bool        `json:"approved"`
	Violations []Violation `json:"violations"`
}

// RefusalMessage renders a human-readable refusal enumerating every violated
// rule, or an empty string for an approved verdict.
func (v Verdict) RefusalMessage() string {
	if v.Approved {
		return ""
	}
	lines := []string{"Artigo reprovado na auditoria editorial:"}
	for _, violation := range v.Violations {
		lines = append(lines, fmt.Sprintf("- regra %d: %s", violation.Rule, violation.Message))
	}
	return strings.Join(lines, "\n")
}

// Review evaluates the ordered editorial rules. All rules are independent and
// all are evaluated, none short-circuits. Rule 5 is intentionally vacant:
// body length is explicitly not mandatory.
func Review(in ReviewInput) Verdict {
	checks := []func(ReviewInput) *Violation{
		checkCorruptedCharacters,
		checkForbiddenAbbreviation,
		checkRequiredFields,
		checkExcerptLength,
		checkRegionAssigned,
		checkCategoryAssigned,
	}

	verdict := Verdict{Approved: true}
	for _, check := range checks {
		if violation := check(in); violation != nil {
			verdict.Violations = append(verdict.Violations, *violation)
		}
	}
	verdict.Approved = len(verdict.Violations) == 0
	return verdict
}

// ContainsCorruptedText reports whether text carries any mis-encoding marker.
// Shared with the post-publish audit.
func ContainsCorruptedText(text string) bool {
	for _, marker := range corruptedMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// Rule 1: no mis-encoded byte sequences anywhere in the editorial text.
func checkCorruptedCharacters(in ReviewInput) *Violation {
	combined := strings.Join([]string{in.Title, in.Excerpt, in.Content, in.ImageCaption}, "\n")
	if ContainsCorruptedText(combined) {
		return &Violation{Rule: 1, Message: "texto contém caracteres corrompidos (problema de codificação)"}
	}
	return nil
}

// Rule 2: the abbreviation "SC" must not appear as a whole word in title,
// excerpt, tag-stripped body or image caption.
func checkForbiddenAbbreviation(in ReviewInput) *Violation {
	fields := []string{in.Title, in.Excerpt, utils.StripHtmlTags(in.Content), in.ImageCaption}
	for _, field := range fields {
		if forbiddenAbbreviation.MatchString(field) {
			return &Violation{Rule: 2, Message: `abreviação "SC" não é permitida, escreva "Santa Catarina" por extenso`}
		}
	}
	return nil
}

// Rule 3: mandatory fields must be non-empty after trimming.
func checkRequiredFields(in ReviewInput) *Violation {
	required := []struct {
		name  string
		value string
	}{
		{"título", in.Title},
		{"resumo", in.Excerpt},
		{"conteúdo", in.Content},
		{"imagem", in.ImageUrl},
		{"legenda da imagem", in.ImageCaption},
		{"fonte", in.SourceUrl},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &Violation{Rule: 3, Message: "campos obrigatórios ausentes: " + strings.Join(missing, ", ")}
	}
	return nil
}

// Rule 4: the excerpt, tags stripped, must not exceed 300 words.
func checkExcerptLength(in ReviewInput) *Violation {
	if utils.CountWords(utils.StripHtmlTags(in.Excerpt)) > maxExcerptWords {
		return &Violation{Rule: 4, Message: fmt.Sprintf("resumo excede o limite de %d palavras", maxExcerptWords)}
	}
	return nil
}

// Rule 6: region assignment is mandatory.
func checkRegionAssigned(in ReviewInput) *Violation {
	if !in.HasRegion {
		return &Violation{Rule: 6, Message: "artigo sem região atribuída"}
	}
	return nil
}

// Rule 7: category assignment is mandatory.
func checkCategoryAssigned(in ReviewInput) *Violation {
	if !in.HasCategory {
		return &Violation{Rule: 7, Message: "artigo sem categoria atribuída"}
	}
	return nil
}
