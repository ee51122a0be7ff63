package score

import (
	"strings"

	"learncheck/internal/bank"
)

// Outcome reasons. Every submission scores to exactly one item; these
// keep "no key found" distinguishable from a plain wrong answer.
const (
	ReasonOK              = "OK"
	ReasonUnknownQuestion = "UNKNOWN_QUESTION"
	ReasonInvalidChoice   = "INVALID_CHOICE"
)

// Submission is one raw submitted answer. Mapel may be empty; the
// reverse index then resolves it only when the id is globally unique.
type Submission struct {
	Mapel      string
	QuestionID string
	Chosen     string
}

// ScoredItem is the per-item outcome of scoring one submission.
type ScoredItem struct {
	Mapel      string `json:"mapel"`
	QuestionID string `json:"question_id"`
	Chosen     string `json:"chosen"`
	Kunci      string `json:"kunci"`
	Correct    bool   `json:"correct"`
	Score      int    `json:"score"`
	Bobot      int    `json:"bobot"`
	Topik      string `json:"topik"`
	Tingkat    string `json:"tingkat"`
	Reason     string `json:"reason"`
}

// NormalizeChoice reduces a raw submitted choice to a single letter:
// the first A-E found after upper-casing, else the first digit 1-5
// mapped to A-E, else empty.
func NormalizeChoice(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for _, ch := range s {
		if ch >= 'A' && ch <= 'E' {
			return string(ch)
		}
	}
	for _, ch := range s {
		if ch >= '1' && ch <= '5' {
			return bank.ChoiceLetters[ch-'1']
		}
	}
	return ""
}

// Score evaluates one submission against the index. It is pure: no
// logging, no persistence, and it never fails; unresolved or invalid
// submissions still yield exactly one item with a telling reason.
func Score(sub Submission, ix *Index) ScoredItem {
	mapel := strings.ToLower(strings.TrimSpace(sub.Mapel))
	qid := strings.TrimSpace(sub.QuestionID)
	chosen := NormalizeChoice(sub.Chosen)

	entry, found := KeyEntry{}, false
	if mapel != "" {
		entry, found = ix.Lookup(mapel, qid)
	} else if qid != "" {
		// No subject supplied: resolve only a globally unique id.
		// Ambiguous ids are never guessed.
		if cands := ix.Subjects(qid); len(cands) == 1 {
			mapel = cands[0]
			entry, found = ix.Lookup(mapel, qid)
		}
	}

	item := ScoredItem{
		Mapel:      mapel,
		QuestionID: qid,
		Chosen:     chosen,
	}
	if !found {
		item.Reason = ReasonUnknownQuestion
		return item
	}

	item.Kunci = entry.Kunci
	item.Bobot = entry.Bobot
	item.Topik = entry.Topik
	item.Tingkat = entry.Tingkat

	if chosen == "" {
		item.Reason = ReasonInvalidChoice
		return item
	}

	item.Correct = entry.Kunci != "" && chosen == entry.Kunci
	if item.Correct {
		item.Score = entry.Bobot
	}
	item.Reason = ReasonOK
	return item
}
