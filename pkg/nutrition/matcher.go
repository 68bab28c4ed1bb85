package nutrition

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Normalize lowercases a classifier label and turns underscores into spaces.
func Normalize(label string) string {
	return strings.TrimSpace(strings.ToLower(strings.ReplaceAll(label, "_", " ")))
}

// BestMatch returns the candidate with the highest Score against query.
// Ties go to the earliest candidate. There is no minimum score: any non-empty
// candidate list yields a match.
func BestMatch(query string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	best, bestScore := "", -1.0
	for _, c := range candidates {
		if s := Score(query, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, true
}

// Score is a weighted similarity in [0, 100]. It takes the best of the plain
// ratio, the token-sort and token-set ratios and, for strings of very
// different length, the best-aligned substring ratio.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	base := ratio(a, b)
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	const unbaseScale = 0.95
	if lenRatio < 1.5 {
		return max(base, tokenSortRatio(a, b)*unbaseScale, tokenSetRatio(a, b)*unbaseScale)
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}
	return max(
		base,
		partialRatio(a, b)*partialScale,
		tokenSortRatio(a, b)*unbaseScale*partialScale,
		tokenSetRatio(a, b)*unbaseScale*partialScale,
	)
}

func ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(max(la, lb)))
}

// partialRatio slides the shorter string over the longer one.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	s := string(short)

	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func tokenSortRatio(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	sort.Strings(ta)
	sort.Strings(tb)
	return ratio(strings.Join(ta, " "), strings.Join(tb, " "))
}

func tokenSetRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)

	var common, onlyA, onlyB []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(common, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := ratio(combinedA, combinedB)
	if sect != "" {
		best = max(best, ratio(sect, combinedA), ratio(sect, combinedB))
	}
	return best
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range tokens(s) {
		set[t] = struct{}{}
	}
	return set
}
