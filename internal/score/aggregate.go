package score

import (
	"sort"
	"strconv"
	"strings"
)

// SubmissionContext carries who answered and when; it travels next to a
// ScoredItem through aggregation.
type SubmissionContext struct {
	StudentID   string
	StudentName string
	SessionID   string
	TimestampMS int64
}

// Entry pairs a scored item with its submission context.
type Entry struct {
	Context SubmissionContext
	Item    ScoredItem
}

// Tally accumulates correctness and weighted score for one rollup key.
type Tally struct {
	Benar int `json:"benar"`
	Salah int `json:"salah"`
	Skor  int `json:"skor"`
	Bobot int `json:"bobot"`
}

// Persen derives the percentage; it is never stored, always recomputed.
func (t Tally) Persen() float64 {
	return Percent(t.Skor, t.Bobot)
}

// Percent is 100*skor/bobot, defined as 0 for a zero bobot.
func Percent(skor, bobot int) float64 {
	if bobot == 0 {
		return 0.0
	}
	return 100.0 * float64(skor) / float64(bobot)
}

// TopicTally is a tally plus the question count, as kept in the
// gradebook's per-topic breakdown.
type TopicTally struct {
	Benar int `json:"benar"`
	Salah int `json:"salah"`
	Skor  int `json:"skor"`
	Bobot int `json:"bobot"`
	NQ    int `json:"n_q"`
}

type TopikKey struct {
	Mapel string
	Topik string
}

type SiswaKey struct {
	StudentID string
	Mapel     string
}

type SesiKey struct {
	SessionID string
	Mapel     string
}

type GradebookKey struct {
	StudentID string
	SessionID string
	Mapel     string
}

// GradebookRecord is the per-(student, session, subject) attempt record.
// Records are never merged across sessions.
type GradebookRecord struct {
	StudentID       string                 `json:"student_id"`
	StudentName     string                 `json:"student_name"`
	SessionID       string                 `json:"session_id"`
	Mapel           string                 `json:"mapel"`
	NQ              int                    `json:"n_q"`
	Benar           int                    `json:"benar"`
	Salah           int                    `json:"salah"`
	Skor            int                    `json:"skor"`
	Bobot           int                    `json:"bobot"`
	LastTimestampMS int64                  `json:"last_timestamp_ms"`
	ByTopic         map[string]*TopicTally `json:"by_topic"`
}

// Aggregator folds scored entries into the four rollups plus the
// gradebook. Adding is purely additive and order-independent apart from
// LastTimestampMS, which takes the maximum seen, so batch and
// incremental aggregation of the same entries are equivalent.
type Aggregator struct {
	PerMapel  map[string]*Tally
	PerTopik  map[TopikKey]*Tally
	PerSiswa  map[SiswaKey]*Tally
	PerSesi   map[SesiKey]*Tally
	Gradebook map[GradebookKey]*GradebookRecord
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		PerMapel:  map[string]*Tally{},
		PerTopik:  map[TopikKey]*Tally{},
		PerSiswa:  map[SiswaKey]*Tally{},
		PerSesi:   map[SesiKey]*Tally{},
		Gradebook: map[GradebookKey]*GradebookRecord{},
	}
}

func (a *Aggregator) AddBatch(entries []Entry) {
	for _, e := range entries {
		a.Add(e)
	}
}

func (a *Aggregator) Add(e Entry) {
	item := e.Item
	ctx := e.Context
	resolved := item.Reason != ReasonUnknownQuestion

	// Rollups count only weight-bearing items; an unresolved key has
	// bobot 0 and therefore never skews percentages.
	if item.Bobot > 0 {
		a.bump(a.tally(a.PerMapel, item.Mapel), item, resolved)
		if item.Topik != "" {
			a.bump(a.tallyTopik(TopikKey{Mapel: item.Mapel, Topik: item.Topik}), item, resolved)
		}
		if ctx.StudentID != "" {
			a.bump(a.tallySiswa(SiswaKey{StudentID: ctx.StudentID, Mapel: item.Mapel}), item, resolved)
		}
		if ctx.SessionID != "" {
			a.bump(a.tallySesi(SesiKey{SessionID: ctx.SessionID, Mapel: item.Mapel}), item, resolved)
		}
	}

	if ctx.StudentID == "" || ctx.SessionID == "" || item.Mapel == "" {
		return
	}
	key := GradebookKey{StudentID: ctx.StudentID, SessionID: ctx.SessionID, Mapel: item.Mapel}
	rec := a.Gradebook[key]
	if rec == nil {
		rec = &GradebookRecord{
			StudentID: ctx.StudentID,
			SessionID: ctx.SessionID,
			Mapel:     item.Mapel,
			ByTopic:   map[string]*TopicTally{},
		}
		a.Gradebook[key] = rec
	}
	if ctx.StudentName != "" {
		rec.StudentName = ctx.StudentName
	}
	rec.NQ++
	rec.Bobot += item.Bobot
	rec.Skor += item.Score
	if resolved {
		if item.Correct {
			rec.Benar++
		} else {
			rec.Salah++
		}
	}
	if ctx.TimestampMS > rec.LastTimestampMS {
		rec.LastTimestampMS = ctx.TimestampMS
	}
	if item.Topik != "" {
		bt := rec.ByTopic[item.Topik]
		if bt == nil {
			bt = &TopicTally{}
			rec.ByTopic[item.Topik] = bt
		}
		bt.NQ++
		bt.Bobot += item.Bobot
		bt.Skor += item.Score
		if resolved {
			if item.Correct {
				bt.Benar++
			} else {
				bt.Salah++
			}
		}
	}
}

func (a *Aggregator) bump(t *Tally, item ScoredItem, resolved bool) {
	t.Bobot += item.Bobot
	t.Skor += item.Score
	if resolved {
		if item.Correct {
			t.Benar++
		} else {
			t.Salah++
		}
	}
}

func (a *Aggregator) tally(m map[string]*Tally, k string) *Tally {
	t := m[k]
	if t == nil {
		t = &Tally{}
		m[k] = t
	}
	return t
}

func (a *Aggregator) tallyTopik(k TopikKey) *Tally {
	t := a.PerTopik[k]
	if t == nil {
		t = &Tally{}
		a.PerTopik[k] = t
	}
	return t
}

func (a *Aggregator) tallySiswa(k SiswaKey) *Tally {
	t := a.PerSiswa[k]
	if t == nil {
		t = &Tally{}
		a.PerSiswa[k] = t
	}
	return t
}

func (a *Aggregator) tallySesi(k SesiKey) *Tally {
	t := a.PerSesi[k]
	if t == nil {
		t = &Tally{}
		a.PerSesi[k] = t
	}
	return t
}

// MapelPercent returns each subject's derived percentage, the input the
// remediation analyzer consumes.
func (a *Aggregator) MapelPercent() map[string]float64 {
	out := make(map[string]float64, len(a.PerMapel))
	for m, t := range a.PerMapel {
		out[m] = t.Persen()
	}
	return out
}

// SortedGradebookKeys returns gradebook keys in (student, session,
// mapel) order for deterministic serialization.
func (a *Aggregator) SortedGradebookKeys() []GradebookKey {
	keys := make([]GradebookKey, 0, len(a.Gradebook))
	for k := range a.Gradebook {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].StudentID != keys[j].StudentID {
			return keys[i].StudentID < keys[j].StudentID
		}
		if keys[i].SessionID != keys[j].SessionID {
			return keys[i].SessionID < keys[j].SessionID
		}
		return keys[i].Mapel < keys[j].Mapel
	})
	return keys
}

// ParseLogRecord maps one answer-log row (header name -> value, with the
// historical alias spellings) to a submission plus its context.
func ParseLogRecord(rec map[string]string) (SubmissionContext, Submission) {
	pick := func(names ...string) string {
		for _, n := range names {
			if v, ok := rec[n]; ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}
	ts, _ := strconv.ParseInt(pick("timestamp_ms", "ts_ms", "time_ms"), 10, 64)
	ctx := SubmissionContext{
		StudentID:   pick("student_id", "siswa_id", "user_id"),
		StudentName: pick("student_name", "nama", "name"),
		SessionID:   pick("session_id", "sesi_id", "attempt_id"),
		TimestampMS: ts,
	}
	sub := Submission{
		Mapel:      strings.ToLower(pick("mapel", "subject", "mata_pelajaran")),
		QuestionID: pick("question_id", "qid", "id_soal"),
		Chosen:     pick("chosen", "jawaban", "jawaban_siswa", "answer"),
	}
	return ctx, sub
}
