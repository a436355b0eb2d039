// Package matcher judges free-text title guesses.
package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Threshold is the minimum similarity accepted as a match
const Threshold = 0.55

// MinContainedGuess is the shortest guess accepted as a substring of the answer
const MinContainedGuess = 3

var (
	apostrophes = strings.NewReplacer(
		"‘", "'", // left single quotation mark
		"’", "'", // right single quotation mark
		"ʼ", "'", // modifier letter apostrophe
		"´", "'", // acute accent
		"`", "'",
	)

	articles = []string{"the ", "a ", "an "}
)

// Normalize lower-cases s, folds diacritics and apostrophe variants, drops
// everything outside [a-z0-9' ] and collapses whitespace.
func Normalize(s string) string {
	s = foldDiacritics(s)
	s = cases.Lower(language.Und).String(s)
	s = apostrophes.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// IsMatch reports whether guess identifies answerTitle
func IsMatch(guess, answerTitle string) bool {
	g := Normalize(guess)
	a := Normalize(answerTitle)

	if g == a {
		return true
	}
	if strings.Contains(a, g) && len(g) >= MinContainedGuess {
		return true
	}
	if strings.Contains(g, a) {
		return true
	}
	if allWordsIn(a, g) {
		return true
	}
	if allWordsIn(g, a) {
		return true
	}
	if Similarity(g, a) >= Threshold {
		return true
	}

	gs, as := stripArticle(g), stripArticle(a)
	if gs == as {
		return true
	}
	return Similarity(gs, as) >= Threshold
}

// allWordsIn reports whether every word of words occurs as a substring of s.
// An empty word list never matches.
func allWordsIn(words, s string) bool {
	fields := strings.Fields(words)
	if len(fields) == 0 {
		return false
	}
	for _, w := range fields {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

func stripArticle(s string) string {
	for _, article := range articles {
		if rest, ok := strings.CutPrefix(s, article); ok {
			return rest
		}
	}
	return s
}

// Levenshtein returns the edit distance between a and b with unit costs
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
		dp[i][0] = i
	}
	for j := 0; j <= n; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if ra[i-1] == rb[j-1] {
				dp[i][j] = dp[i-1][j-1]
				continue
			}
			dp[i][j] = 1 + min(dp[i-1][j], dp[i][j-1], dp[i-1][j-1])
		}
	}
	return dp[m][n]
}

// Similarity returns 1 - distance/maxLen, or 1 when both strings are empty
func Similarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(maxLen)
}
