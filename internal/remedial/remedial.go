// Package remedial flags under-threshold results and pairs them with
// supporting-material excerpts.
package remedial

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultThreshold is the remedial cutoff percentage.
const DefaultThreshold = 75.0

// Flag marks one subject that fell below the threshold.
type Flag struct {
	Mapel      string  `json:"mapel"`
	Persen     float64 `json:"persen"`
	IsRemedial bool    `json:"is_remedial"`
	Action     string  `json:"action"`
	Materi     string  `json:"materi,omitempty"`
}

// FlagSubjects returns one flag per remedial subject, sorted by subject.
// A non-positive threshold falls back to the default.
func FlagSubjects(persen map[string]float64, threshold float64) []Flag {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	var out []Flag
	for mapel, pct := range persen {
		if pct >= threshold {
			continue
		}
		out = append(out, Flag{
			Mapel:      mapel,
			Persen:     pct,
			IsRemedial: true,
			Action:     fmt.Sprintf("pelajari kembali materi %s (skor: %.2f%%)", mapel, pct),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mapel < out[j].Mapel })
	return out
}

// TopicStatus is one topic's standing in a student analysis.
type TopicStatus struct {
	Skor       float64 `json:"skor"`
	IsRemedial bool    `json:"is_remedial"`
}

// StudentAnswer is the minimal scored fact AnalyzeStudent folds over.
type StudentAnswer struct {
	StudentID string
	Mapel     string
	Topik     string
	Correct   bool
}

// AnalyzeStudent summarizes one student's history into
// mapel -> topik -> status, marking topics under the threshold.
func AnalyzeStudent(answers []StudentAnswer, studentID string, threshold float64) map[string]map[string]TopicStatus {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	type tally struct{ benar, total int }
	counts := map[string]map[string]*tally{}
	for _, a := range answers {
		if a.StudentID != studentID {
			continue
		}
		mapel := strings.ToLower(strings.TrimSpace(a.Mapel))
		topik := a.Topik
		if topik == "" {
			topik = "unknown"
		}
		if counts[mapel] == nil {
			counts[mapel] = map[string]*tally{}
		}
		t := counts[mapel][topik]
		if t == nil {
			t = &tally{}
			counts[mapel][topik] = t
		}
		t.total++
		if a.Correct {
			t.benar++
		}
	}

	out := map[string]map[string]TopicStatus{}
	for mapel, topics := range counts {
		out[mapel] = map[string]TopicStatus{}
		for topik, t := range topics {
			pct := 0.0
			if t.total > 0 {
				pct = 100.0 * float64(t.benar) / float64(t.total)
			}
			out[mapel][topik] = TopicStatus{Skor: pct, IsRemedial: pct < threshold}
		}
	}
	return out
}
