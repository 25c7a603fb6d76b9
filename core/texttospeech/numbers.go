package texttospeech

import (
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+`)

// SpellOutNumbers rewrites integer literals as English words so synthesized
// voices read "42" as "forty-two" instead of spelling digits. Numbers too
// large for int64 are left untouched.
func SpellOutNumbers(text string) string {
	return numberPattern.ReplaceAllStringFunc(text, func(match string) string {
		n, err := strconv.ParseInt(match, 10, 64)
		if err != nil {
			return match
		}
		return numberToWords(n)
	})
}

var (
	onesWords = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven",
		"eight", "nine", "ten", "eleven", "twelve", "thirteen", "fourteen",
		"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
	}
	tensWords = []string{
		"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
		"eighty", "ninety",
	}
	scaleWords = []string{"", "thousand", "million", "billion", "trillion", "quadrillion", "quintillion"}
)

func numberToWords(n int64) string {
	if n == 0 {
		return "zero"
	}

	groups := []string{}
	for scale := 0; n > 0; scale++ {
		group := n % 1000
		n /= 1000
		if group == 0 {
			continue
		}
		words := underThousand(group)
		if scaleWords[scale] != "" {
			words += " " + scaleWords[scale]
		}
		groups = append([]string{words}, groups...)
	}
	return strings.Join(groups, " ")
}

func underThousand(n int64) string {
	parts := []string{}
	if n >= 100 {
		parts = append(parts, onesWords[n/100]+" hundred")
		n %= 100
	}
	switch {
	case n >= 20:
		word := tensWords[n/10]
		if n%10 != 0 {
			word += "-" + onesWords[n%10]
		}
		parts = append(parts, word)
	case n > 0:
		parts = append(parts, onesWords[n])
	}
	return strings.Join(parts, " ")
}
