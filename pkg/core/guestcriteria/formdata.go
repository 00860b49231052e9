package guestcriteria

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// CollectFormPairs walks the loosely structured "all form data" object and returns every
// question/answer pair found in it, in a deterministic order.
//
// Two shapes are known to be stored:
//   - {"sections": [{"qa_pairs": [{"question_key", "question", "answer"}]}]}
//   - {"pages": [{"Sections": [{"Questions": [{"QuestionKey", "Question", "Answer"}]}]}]}
//
// Any nested object carrying a question and an answer is collected, so variations of
// either shape are tolerated. Malformed data yields no pairs and is logged.
func CollectFormPairs(raw []byte, logger *zap.Logger) []QuestionAnswer {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}

	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		logger.Warn("Unparseable form data, ignoring it as a criteria source", zap.Error(err))
		return nil
	}

	var pairs []QuestionAnswer
	walkFormNode(root, &pairs)
	return pairs
}

func walkFormNode(node any, pairs *[]QuestionAnswer) {
	switch v := node.(type) {
	case map[string]any:
		if pair, ok := pairFromObject(v); ok {
			*pairs = append(*pairs, pair)
			return
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkFormNode(v[k], pairs)
		}
	case []any:
		for _, item := range v {
			walkFormNode(item, pairs)
		}
	}
}

// pairFromObject recognises an object with a question (text or key) and an answer field.
// Field names are matched ignoring case and underscores. When several names map to the same
// field the first in sorted order wins, and "question" is preferred over "question_text".
func pairFromObject(obj map[string]any) (QuestionAnswer, bool) {
	names := make([]string, 0, len(obj))
	for k := range obj {
		names = append(names, k)
	}
	sort.Strings(names)

	fields := make(map[string]any, len(obj))
	for _, k := range names {
		field := strings.ReplaceAll(strings.ToLower(k), "_", "")
		if _, seen := fields[field]; !seen {
			fields[field] = obj[k]
		}
	}

	var pair QuestionAnswer
	var hasQuestion bool
	for _, field := range []string{"question", "questiontext"} {
		if s, ok := fields[field].(string); ok {
			pair.Question = s
			hasQuestion = true
			break
		}
	}
	if s, ok := fields["questionkey"].(string); ok {
		pair.QuestionKey = s
		hasQuestion = true
	}

	answer, hasAnswer := fields["answer"]
	if hasAnswer {
		pair.Answer = answerText(answer)
	}

	return pair, hasQuestion && hasAnswer
}

// answerText flattens the answer value types forms have stored into a string
func answerText(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case bool:
		if a {
			return "yes"
		}
		return "no"
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64)
	case json.Number:
		return a.String()
	case []any:
		parts := make([]string, 0, len(a))
		for _, item := range a {
			if s := answerText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
