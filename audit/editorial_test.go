package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInput() ReviewInput {
	return ReviewInput{
		Title:        "Porto de Itajaí amplia operações",
		Excerpt:      "Terminal portuário confirma novos berços de atracação para o próximo ano.",
		Content:      "<p>" + strings.TrimSpace(strings.Repeat("palavra ", 150)) + "</p>",
		ImageUrl:     "https://cdn.acontece.net.br/imagens/porto.jpg",
		ImageCaption: "Vista aérea do porto",
		SourceUrl:    "https://www.portoitajai.com.br/noticia/123",
		HasCategory:  true,
		HasRegion:    true,
	}
}

func ruleNumbers(v Verdict) []int {
	var numbers []int
	for _, violation := range v.Violations {
		numbers = append(numbers, violation.Rule)
	}
	return numbers
}

func TestReviewApprovesValidArticle(t *testing.T) {
	verdict := Review(validInput())

	assert.True(t, verdict.Approved)
	assert.Empty(t, verdict.Violations)
	assert.Empty(t, verdict.RefusalMessage())
}

func TestRule1CorruptedCharacters(t *testing.T) {
	in := validInput()
	in.Content = "PrevisÃ£o de chuva para o fim de semana"

	verdict := Review(in)
	assert.False(t, verdict.Approved)
	assert.Contains(t, ruleNumbers(verdict), 1)

	in = validInput()
	in.Title = "Título com � no meio"
	assert.Contains(t, ruleNumbers(Review(in)), 1)
}

func TestRule2ForbiddenAbbreviation(t *testing.T) {
	in := validInput()
	in.Title = "Notícia sobre SC hoje"

	verdict := Review(in)
	assert.False(t, verdict.Approved)
	assert.Contains(t, ruleNumbers(verdict), 2)

	in.Title = "Notícia sobre Santa Catarina hoje"
	verdict = Review(in)
	assert.NotContains(t, ruleNumbers(verdict), 2)
}

func TestRule2WholeWordOnly(t *testing.T) {
	in := validInput()
	// "sc" inside a larger word must not trigger.
	in.Title = "Piscina pública reabre em Brusque"
	assert.NotContains(t, ruleNumbers(Review(in)), 2)

	// Lower case whole word still triggers, including in the caption.
	in = validInput()
	in.ImageCaption = "praia no litoral de sc"
	assert.Contains(t, ruleNumbers(Review(in)), 2)
}

func TestRule3RequiredFields(t *testing.T) {
	in := validInput()
	in.ImageCaption = "   "
	in.SourceUrl = ""

	verdict := Review(in)
	assert.False(t, verdict.Approved)
	assert.Contains(t, ruleNumbers(verdict), 3)
	assert.Contains(t, verdict.Violations[0].Message, "legenda da imagem")
	assert.Contains(t, verdict.Violations[0].Message, "fonte")
}

func TestRule4ExcerptWordCeiling(t *testing.T) {
	in := validInput()
	in.Excerpt = strings.TrimSpace(strings.Repeat("palavra ", 301))
	assert.Contains(t, ruleNumbers(Review(in)), 4)

	in.Excerpt = strings.TrimSpace(strings.Repeat("palavra ", 300))
	assert.NotContains(t, ruleNumbers(Review(in)), 4)
}

func TestRules6And7MandatoryClassification(t *testing.T) {
	in := validInput()
	in.HasRegion = false
	in.HasCategory = false

	verdict := Review(in)
	assert.False(t, verdict.Approved)
	assert.Contains(t, ruleNumbers(verdict), 6)
	assert.Contains(t, ruleNumbers(verdict), 7)
}

func TestAllRulesAreEvaluatedNoShortCircuit(t *testing.T) {
	verdict := Review(ReviewInput{Title: "SC Ã©"})

	// Rules 1, 2, 3, 6 and 7 all fire at once.
	numbers := ruleNumbers(verdict)
	assert.ElementsMatch(t, []int{1, 2, 3, 6, 7}, numbers)

	refusal := verdict.RefusalMessage()
	for _, n := range []string{"regra 1", "regra 2", "regra 3", "regra 6", "regra 7"} {
		assert.Contains(t, refusal, n)
	}
}
