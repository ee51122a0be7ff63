package bank

import (
	"strconv"
	"strings"
)

// ChoiceLetters lists the option labels in canonical order.
var ChoiceLetters = []string{"A", "B", "C", "D", "E"}

// Question is the canonical record every raw bank entry normalizes into.
// Field names follow the bank file vocabulary (mapel/soal banks).
type Question struct {
	ID         string            `json:"id"`
	Text       string            `json:"teks"`
	Options    map[string]string `json:"opsi"`
	Key        string            `json:"kunci"`
	Topic      string            `json:"topik"`
	Difficulty string            `json:"tingkat,omitempty"`
	Weight     int               `json:"bobot"`
}

// Bank holds one subject's full question collection.
type Bank struct {
	Mapel   string     `json:"mapel"`
	Version string     `json:"versi"`
	Soal    []Question `json:"soal"`
}

func IsChoiceLetter(s string) bool {
	switch s {
	case "A", "B", "C", "D", "E":
		return true
	}
	return false
}

// NormalizeTopic lower-cases a topic label and replaces spaces with
// underscores so bank topics, taxonomy entries and filters compare equal.
func NormalizeTopic(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// NormalizeDifficulty maps accepted difficulty spellings onto the
// canonical mudah/sedang/sulit vocabulary. Anything else becomes empty
// rather than an error; validation reports unknown values separately.
func NormalizeDifficulty(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mudah", "easy":
		return "mudah"
	case "sedang", "medium":
		return "sedang"
	case "sulit", "hard":
		return "sulit"
	}
	return ""
}

// ToChoiceLetter converts an answer-key value to a letter A..E.
// Integers are treated as 1-based first, then 0-based. Out-of-range
// numbers pass through as their decimal string so validation can flag
// them instead of the normalizer crashing.
func ToChoiceLetter(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case int:
		return intToChoiceLetter(t)
	case int64:
		return intToChoiceLetter(int(t))
	case float64:
		return intToChoiceLetter(int(t))
	case string:
		s := strings.ToUpper(strings.TrimSpace(t))
		if IsChoiceLetter(s) {
			return s
		}
		if n, err := strconv.Atoi(s); err == nil {
			return intToChoiceLetter(n)
		}
		return s
	default:
		return ""
	}
}

func intToChoiceLetter(i int) string {
	if i >= 1 && i <= 5 {
		return ChoiceLetters[i-1]
	}
	if i == 0 {
		return "A"
	}
	return strconv.Itoa(i)
}

// NormalizeOptions accepts any of the supported raw option shapes and
// returns a complete A..E map (missing labels present with empty text).
// Shapes, each handled by its own parser:
//   - map keyed by letters or digits "1".."5"
//   - list of {label, text|value|option} objects
//   - plain list mapped positionally to A..E
func NormalizeOptions(raw any) map[string]string {
	switch t := raw.(type) {
	case map[string]any:
		if out := optionsFromMap(t); out != nil {
			return out
		}
	case []any:
		if allObjects(t) {
			return optionsFromObjectList(t)
		}
		return optionsFromList(t)
	}
	return emptyOptions()
}

func optionsFromMap(m map[string]any) map[string]string {
	alias := map[string]string{"1": "A", "2": "B", "3": "C", "4": "D", "5": "E"}
	out := map[string]string{}
	for k, v := range m {
		kk := strings.ToUpper(strings.TrimSpace(k))
		if a, ok := alias[kk]; ok {
			kk = a
		}
		if IsChoiceLetter(kk) {
			out[kk] = anyToString(v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return padOptions(out)
}

func optionsFromObjectList(items []any) map[string]string {
	out := map[string]string{}
	for i, it := range items {
		if i >= len(ChoiceLetters) {
			break
		}
		obj, _ := it.(map[string]any)
		lab := strings.ToUpper(strings.TrimSpace(anyToString(obj["label"])))
		if IsChoiceLetter(lab) {
			out[lab] = objectOptionText(obj)
		}
	}
	if len(out) > 0 {
		return padOptions(out)
	}
	// No usable labels: fall back to positional order.
	for i, it := range items {
		if i >= len(ChoiceLetters) {
			break
		}
		obj, _ := it.(map[string]any)
		out[ChoiceLetters[i]] = objectOptionText(obj)
	}
	return padOptions(out)
}

func objectOptionText(obj map[string]any) string {
	for _, key := range []string{"text", "value", "option"} {
		if s := anyToString(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

func optionsFromList(items []any) map[string]string {
	out := emptyOptions()
	for i, it := range items {
		if i >= len(ChoiceLetters) {
			break
		}
		out[ChoiceLetters[i]] = anyToString(it)
	}
	return out
}

func allObjects(items []any) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if _, ok := it.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func padOptions(m map[string]string) map[string]string {
	for _, l := range ChoiceLetters {
		if _, ok := m[l]; !ok {
			m[l] = ""
		}
	}
	return m
}

func emptyOptions() map[string]string {
	return map[string]string{"A": "", "B": "", "C": "", "D": "", "E": ""}
}

// NormalizeQuestion builds a canonical Question from one raw record.
// It never fails on missing optional fields; the result may carry an
// empty key/topic/difficulty for validation to judge.
func NormalizeQuestion(raw map[string]any) Question {
	q := Question{
		ID:   firstString(raw, "id", "question_id", "qid", "number"),
		Text: firstString(raw, "teks", "question", "pertanyaan", "text", "teks_soal"),
	}

	if v, ok := raw["kunci"]; ok {
		q.Key = ToChoiceLetter(v)
	} else {
		q.Key = ToChoiceLetter(firstValue(raw, "answer", "key", "correct", "jawaban_benar"))
	}

	q.Options = NormalizeOptions(firstValue(raw, "opsi", "options", "choices", "pilihan"))

	topic := firstString(raw, "topik", "topic", "subtopic", "kategori")
	if topic == "" {
		topic = "umum"
	}
	q.Topic = NormalizeTopic(topic)

	q.Difficulty = NormalizeDifficulty(firstString(raw, "tingkat", "difficulty", "level"))

	q.Weight = anyToInt(firstValue(raw, "bobot", "weight"))
	if q.Weight <= 0 {
		q.Weight = 1
	}
	return q
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			return v
		}
	}
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	return strings.TrimSpace(anyToString(firstValue(m, keys...)))
}

func anyToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func anyToInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	default:
		return 0
	}
}
