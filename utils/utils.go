package utils

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

func IsProdEnv() bool {
	return os.Getenv("ACONTECE_ENV") == "prod"
}

func TextToMd5Hash(text string) (string, error) {
	h := md5.New()
	if _, err := h.Write([]byte(text)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

const alphabet = "abcdefghijklmnopqrstuvwxyz"

func RandomAlphabetString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// CountWords counts whitespace separated words in plain text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// StripHtmlTags returns the text content of an html fragment. Falls back to
// the raw input when the fragment cannot be parsed.
func StripHtmlTags(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return doc.Text()
}

// NormalizeTitle is the canonical form used for duplicate detection: lower
// cased, inner whitespace collapsed.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

var slugReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// Slugify builds a url-safe slug out of a (possibly accented, pt-BR) title.
func Slugify(text string) string {
	s := slugReplacer.Replace(strings.ToLower(text))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
