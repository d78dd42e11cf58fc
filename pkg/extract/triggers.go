package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agentstation/intentmap/pkg/constants"
)

var (
	triggerCue      = regexp.MustCompile(`[Tt]rigger\s+(?:with|on|using)\s+["']?([^"']+)["']?`)
	triggerSplitter = regexp.MustCompile(`[,"]|\s+or\s+`)
)

// ExtractTriggerPhrases pulls cue phrases out of a skill description.
// It matches an imperative "trigger with/on/using ..." clause, splits on
// commas and "or", discards fragments shorter than three characters, and
// returns a deduplicated, sorted set.
func ExtractTriggerPhrases(description string) []string {
	match := triggerCue.FindStringSubmatch(description)
	if match == nil {
		return []string{}
	}

	seen := make(map[string]bool)
	var phrases []string
	for _, fragment := range triggerSplitter.Split(match[1], -1) {
		phrase := strings.Trim(strings.TrimSpace(fragment), `"'`)
		if len(phrase) < constants.MinTriggerPhraseLength || seen[phrase] {
			continue
		}
		seen[phrase] = true
		phrases = append(phrases, phrase)
	}

	sort.Strings(phrases)
	if phrases == nil {
		phrases = []string{}
	}
	return phrases
}
