package server

import (
	"fmt"
	"regexp"
	"strings"
)

// Banned words are masked with a fixed-length token regardless of word
// length.
const profanityMask = "****"

var bannedWords = []string{"hate", "stupid", "idiot", "damn", "hell"}

var profanityPattern = regexp.MustCompile(
	fmt.Sprintf(`(?i)\b(%s)\b`, strings.Join(bannedWords, "|")),
)

// filterProfanity masks banned words whole-word, case-insensitively.
// Substrings inside longer words ("hello") are left alone. Applied at write
// time, so stored text is already masked.
func filterProfanity(text string) string {
	return profanityPattern.ReplaceAllString(text, profanityMask)
}
