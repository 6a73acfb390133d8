package service

import (
	"regexp"
	"strings"

	"github.com/redmercy-dev/MotionsAssistant/models"
)

// Answer attribution: a clarification reply is matched to the variables the
// orchestrator just asked about. Matching is position-free. Two passes:
//
//  1. labeled pairs ("claim value: $12,500") matched against variable names
//     and aliases;
//  2. unlabeled typed tokens (money amounts, dates) attributed to a variable
//     of that kind only when exactly one token of the kind and exactly one
//     unresolved variable of the kind exist.
//
// Anything else stays unmatched and gets re-prompted. A wrong variable is
// never populated by guesswork.

var (
	moneyPattern = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)|(?:^|\s)([0-9][0-9,]*(?:\.[0-9]{1,2})?)(?:\s|$)`)
	datePattern  = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{2}-\d{2}|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4})\b`)
	labelSplit   = regexp.MustCompile(`\s*[:=]\s*`)
)

// attributeAnswer matches a free-text reply against the pending variable
// specs. Returns attributed name->value pairs and the names left unmatched.
func attributeAnswer(answer string, pending []models.VariableSpec) (map[string]string, []string) {
	matched := make(map[string]string)

	remaining := func() []models.VariableSpec {
		var out []models.VariableSpec
		for _, spec := range pending {
			if _, ok := matched[spec.Name]; !ok {
				out = append(out, spec)
			}
		}
		return out
	}

	// Pass 1: labeled pairs, one per line or semicolon-separated segment.
	var unlabeled []string
	for _, segment := range splitSegments(answer) {
		if name, value, ok := matchLabeled(segment, remaining()); ok {
			matched[name] = value
			continue
		}
		unlabeled = append(unlabeled, segment)
	}

	// Pass 2: typed tokens from whatever carried no usable label.
	attributeTyped(strings.Join(unlabeled, "\n"), remaining(), matched)

	var unmatchedNames []string
	for _, spec := range pending {
		if _, ok := matched[spec.Name]; !ok {
			unmatchedNames = append(unmatchedNames, spec.Name)
		}
	}
	return matched, unmatchedNames
}

// splitSegments breaks an answer into candidate label/value segments
func splitSegments(answer string) []string {
	var segments []string
	for _, line := range strings.Split(answer, "\n") {
		for _, seg := range strings.Split(line, ";") {
			seg = strings.TrimSpace(seg)
			if seg != "" {
				segments = append(segments, seg)
			}
		}
	}
	return segments
}

// matchLabeled tries to read a segment as "label: value" where the label
// names one of the pending variables
func matchLabeled(segment string, pending []models.VariableSpec) (string, string, bool) {
	parts := labelSplit.Split(segment, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	label := normalizeLabel(parts[0])
	value := strings.TrimSpace(parts[1])
	if label == "" || value == "" {
		return "", "", false
	}

	for _, spec := range pending {
		if labelNames(spec)[label] {
			return spec.Name, cleanValue(spec.Kind, value), true
		}
	}
	return "", "", false
}

// labelNames returns the set of normalized labels accepted for a variable
func labelNames(spec models.VariableSpec) map[string]bool {
	names := map[string]bool{normalizeLabel(spec.Name): true}
	for _, alias := range spec.Aliases {
		names[normalizeLabel(alias)] = true
	}
	return names
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// attributeTyped assigns typed tokens to unresolved variables of matching
// kind, but only when both sides are singular
func attributeTyped(text string, pending []models.VariableSpec, matched map[string]string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	byKind := func(kind models.VariableKind) []models.VariableSpec {
		var out []models.VariableSpec
		for _, spec := range pending {
			if _, done := matched[spec.Name]; done {
				continue
			}
			if spec.Kind == kind {
				out = append(out, spec)
			}
		}
		return out
	}

	dates := datePattern.FindAllString(text, -1)
	if len(dates) == 1 {
		if candidates := byKind(models.KindDate); len(candidates) == 1 {
			matched[candidates[0].Name] = strings.TrimSpace(dates[0])
		}
	}

	// Strip date tokens first so their digits don't read as amounts.
	moneySource := datePattern.ReplaceAllString(text, " ")
	amounts := moneyTokens(moneySource)
	if len(amounts) == 1 {
		if candidates := byKind(models.KindMoney); len(candidates) == 1 {
			matched[candidates[0].Name] = amounts[0]
		}
	}
}

// moneyTokens extracts distinct dollar amounts from text
func moneyTokens(text string) []string {
	var out []string
	for _, m := range moneyPattern.FindAllStringSubmatch(text, -1) {
		value := m[1]
		if value == "" {
			value = m[2]
		}
		value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}

// cleanValue normalizes a labeled value for its kind
func cleanValue(kind models.VariableKind, value string) string {
	if kind == models.KindMoney {
		if amounts := moneyTokens(value); len(amounts) == 1 {
			return amounts[0]
		}
	}
	return value
}
