package bank

import (
	"fmt"
	"strings"
)

// ValidateQuestion collects the issues for one question. Validation is
// advisory: it never mutates the question and an empty slice means clean.
func ValidateQuestion(q Question, topics map[string]struct{}) []string {
	var errs []string

	if strings.TrimSpace(q.ID) == "" {
		errs = append(errs, "id kosong")
	}
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, "teks kosong")
	}

	missing := false
	for _, l := range []string{"A", "B", "C", "D"} {
		if _, ok := q.Options[l]; !ok {
			missing = true
		}
	}
	if q.Options == nil || missing {
		errs = append(errs, "opsi harus memuat minimal A,B,C,D")
	}

	key := strings.ToUpper(strings.TrimSpace(q.Key))
	if !IsChoiceLetter(key) {
		errs = append(errs, "kunci bukan A/B/C/D/E")
	}
	if key == "E" && strings.TrimSpace(q.Options["E"]) == "" {
		errs = append(errs, "kunci E tetapi opsi E tidak tersedia")
	}

	topic := NormalizeTopic(q.Topic)
	if topic == "" {
		errs = append(errs, "topik kosong")
	} else if len(topics) > 0 {
		if _, ok := topics[topic]; !ok {
			errs = append(errs, fmt.Sprintf("topik '%s' tidak terdaftar di topic_index", topic))
		}
	}

	if q.Difficulty != "" && NormalizeDifficulty(q.Difficulty) == "" {
		errs = append(errs, fmt.Sprintf("tingkat '%s' tidak valid (harus mudah/sedang/sulit)", q.Difficulty))
	}

	return errs
}

// ValidateBank runs ValidateQuestion over every question, flags duplicate
// ids, and returns every message prefixed with the offending id.
// Duplicates are reported here but still load; the answer-key index
// resolves them last-write-wins.
func ValidateBank(b *Bank, topicIndex map[string][]string) (bool, []string) {
	topics := map[string]struct{}{}
	if topicIndex != nil {
		for _, t := range topicIndex[strings.ToLower(b.Mapel)] {
			topics[NormalizeTopic(t)] = struct{}{}
		}
	}

	seen := map[string]struct{}{}
	var errs []string
	for i, q := range b.Soal {
		qid := q.ID
		if strings.TrimSpace(qid) == "" {
			qid = fmt.Sprintf("?row%d", i+1)
		}
		if _, dup := seen[qid]; dup {
			errs = append(errs, fmt.Sprintf("duplikat id: %s", qid))
		}
		seen[qid] = struct{}{}
		for _, e := range ValidateQuestion(q, topics) {
			errs = append(errs, fmt.Sprintf("%s: %s", qid, e))
		}
	}
	return len(errs) == 0, errs
}
