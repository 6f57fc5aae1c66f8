package quality

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// ParseOutcome tags which tier of the fallback chain produced an
// EvalResult.
type ParseOutcome string

const (
	ParsedStructured   ParseOutcome = "structured"
	ParsedEmbeddedJSON ParseOutcome = "embedded_json"
	ParsedHeuristic    ParseOutcome = "heuristic"
	ParsedUnparseable  ParseOutcome = "unparseable"
)

// unparseableWeakness is recorded when no tier could extract a verdict.
const unparseableWeakness = "Unable to parse structured evaluation"

var scorePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10`)

// ParseEvaluation turns raw evaluator text into an EvalResult via a
// three-tier fallback: whole-text JSON, first embedded JSON object,
// then an "N/10" heuristic. It never fails; the last resort is a
// neutral score of 5 with a recorded weakness so the loop can keep
// running on degraded input.
func ParseEvaluation(text string) (EvalResult, ParseOutcome) {
	clean := stripCodeFences(text)

	if res, ok := parseStructured(clean); ok {
		return clampScore(res), ParsedStructured
	}
	if res, ok := parseEmbeddedJSON(clean); ok {
		return clampScore(res), ParsedEmbeddedJSON
	}
	if res, ok := parseHeuristic(clean); ok {
		return clampScore(res), ParsedHeuristic
	}

	return EvalResult{
		Score:      5,
		Feedback:   strings.TrimSpace(text),
		Weaknesses: []string{unparseableWeakness},
	}, ParsedUnparseable
}

// stripCodeFences removes a surrounding markdown code fence, a common
// decoration on otherwise valid JSON replies.
func stripCodeFences(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

func parseStructured(text string) (EvalResult, bool) {
	if !strings.HasPrefix(text, "{") {
		return EvalResult{}, false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return EvalResult{}, false
	}
	if _, ok := probe["score"]; !ok {
		return EvalResult{}, false
	}
	var res EvalResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return EvalResult{}, false
	}
	return res, true
}

// parseEmbeddedJSON extracts the first balanced JSON object embedded
// in free text and tries to read it as an EvalResult.
func parseEmbeddedJSON(text string) (EvalResult, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return EvalResult{}, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				candidate := text[start : i+1]
				var probe map[string]json.RawMessage
				if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
					return EvalResult{}, false
				}
				if _, ok := probe["score"]; !ok {
					return EvalResult{}, false
				}
				var res EvalResult
				if err := json.Unmarshal([]byte(candidate), &res); err != nil {
					return EvalResult{}, false
				}
				return res, true
			}
		}
	}
	return EvalResult{}, false
}

// parseHeuristic looks for an "N/10" score pattern in free text.
func parseHeuristic(text string) (EvalResult, bool) {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return EvalResult{}, false
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return EvalResult{}, false
	}
	return EvalResult{
		Score:    score,
		Feedback: strings.TrimSpace(text),
	}, true
}

func clampScore(res EvalResult) EvalResult {
	if res.Score < 0 {
		res.Score = 0
	}
	if res.Score > 10 {
		res.Score = 10
	}
	return res
}
