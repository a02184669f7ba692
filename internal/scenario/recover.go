package scenario

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
)

// Strategy identifies which recovery strategy produced a mapping.
type Strategy string

const (
	StrategyDirect    Strategy = "direct"
	StrategyCleaned   Strategy = "cleaned"
	StrategyExtracted Strategy = "extracted"
	StrategyRepaired  Strategy = "repaired"
	StrategyFallback  Strategy = "fallback"
)

// recoveryStrategy is one deterministic attempt to coerce raw model text
// into a JSON object. Strategies run in a fixed order with short-circuit
// on first success; cheaper, lower-risk strategies run first so that
// already-valid output is never corrupted by the repair pass.
type recoveryStrategy struct {
	name Strategy
	fn   func(string) (map[string]any, bool)
}

var strategies = []recoveryStrategy{
	{StrategyDirect, parseDirect},
	{StrategyCleaned, parseCleaned},
	{StrategyExtracted, parseExtracted},
	{StrategyRepaired, parseRepaired},
}

// Recover turns arbitrary model output into a JSON object, trying
// progressively more aggressive strategies. It never fails: when every
// strategy exhausts, a minimal generic scenario is synthesized so that
// user-facing flows do not dead-end on model flakiness.
func Recover(raw string) (map[string]any, Strategy) {
	for _, s := range strategies {
		if m, ok := s.fn(raw); ok {
			return m, s.name
		}
	}
	return fallbackScenario(), StrategyFallback
}

// fallbackScenario is the terminal recovery result: a generic expense so
// the caller always receives a usable scenario.
func fallbackScenario() map[string]any {
	return map[string]any{
		"add_expense": map[string]any{
			"description": "General expense",
			"amount":      float64(-1000),
		},
	}
}

func parseObject(text string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

// parseNonEmptyObject is parseObject for the lossy strategies. An empty
// object coming out of cleaning, extraction, or repair means the input
// carried no scenario content (brace-only garbage repairs to "{}"), and
// accepting it would bypass the terminal fallback. Only the direct
// strategy may return an empty object, preserving idempotence on a
// literal "{}" input.
func parseNonEmptyObject(text string) (map[string]any, bool) {
	m, ok := parseObject(text)
	if !ok || len(m) == 0 {
		return nil, false
	}
	return m, true
}

// parseDirect attempts a strict parse of the trimmed text as-is.
func parseDirect(raw string) (map[string]any, bool) {
	return parseObject(strings.TrimSpace(raw))
}

// parseCleaned strips byte-order marks and non-printable characters
// (preserving newlines and tabs) before retrying a strict parse.
func parseCleaned(raw string) (map[string]any, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\uFEFF' {
			return -1
		}
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, raw)
	return parseNonEmptyObject(strings.TrimSpace(cleaned))
}

// objectPattern matches a brace-delimited substring with up to one level
// of nesting, which covers the scenario schema (action objects inside
// the top-level object).
var objectPattern = regexp.MustCompile(`\{(?:[^{}]|\{[^{}]*\})*\}`)

// parseExtracted scans for a JSON object embedded in surrounding prose
// or markdown fencing. A regex hit only counts as a full match when it
// spans the entire brace region; a shorter hit means brace drift cut the
// object early, and truncating there would silently drop trailing
// actions. In that case extraction falls back to slicing from the first
// '{' to the last '}' and lets the strict parse decide.
func parseExtracted(raw string) (map[string]any, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	region := raw[start : end+1]

	if match := objectPattern.FindString(raw); match == region {
		return parseNonEmptyObject(match)
	}
	return parseNonEmptyObject(region)
}

var (
	doubledBracePattern = regexp.MustCompile(`\}\s*\}\s*,\s*"`)
	singleQuotedKey     = regexp.MustCompile(`'([^']*)'\s*:`)
	singleQuotedValue   = regexp.MustCompile(`:\s*'([^']*)'`)
	trailingComma       = regexp.MustCompile(`,\s*([}\]])`)
)

// parseRepaired applies targeted textual repairs for the malformation
// shapes the model actually produces (doubled closing braces, brace
// count drift, single-quoted strings, trailing commas) and retries a
// strict parse on the result.
func parseRepaired(raw string) (map[string]any, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}

	// Collapse the malformed `}}, "` pattern until stable; each pass
	// shortens the text, so this terminates.
	for doubledBracePattern.MatchString(s) {
		s = doubledBracePattern.ReplaceAllString(s, `}, "`)
	}

	if !strings.HasPrefix(s, "{") {
		s = "{" + s
	}

	open := strings.Count(s, "{")
	closed := strings.Count(s, "}")
	if open > closed {
		s += strings.Repeat("}", open-closed)
	} else if closed > open {
		s = trimTrailingBraces(s, closed-open)
	}

	s = singleQuotedKey.ReplaceAllString(s, `"$1":`)
	s = singleQuotedValue.ReplaceAllString(s, `: "$1"`)
	s = trailingComma.ReplaceAllString(s, "$1")

	return parseNonEmptyObject(s)
}

// trimTrailingBraces removes up to n redundant '}' characters from the
// end of s, skipping over trailing whitespace.
func trimTrailingBraces(s string, n int) string {
	for i := 0; i < n; i++ {
		trimmed := strings.TrimRight(s, " \t\r\n")
		if !strings.HasSuffix(trimmed, "}") {
			break
		}
		s = strings.TrimSuffix(trimmed, "}")
	}
	return s
}
