package score

import (
	"reflect"
	"testing"
)

func sampleEntries() []Entry {
	ctx := SubmissionContext{StudentID: "S1", StudentName: "Budi", SessionID: "sesi-1", TimestampMS: 100}
	later := ctx
	later.TimestampMS = 250
	return []Entry{
		{Context: ctx, Item: ScoredItem{Mapel: "ipa", QuestionID: "ipa-0001", Chosen: "B", Kunci: "B", Correct: true, Score: 2, Bobot: 2, Topik: "gaya", Reason: ReasonOK}},
		{Context: later, Item: ScoredItem{Mapel: "ipa", QuestionID: "ipa-0002", Chosen: "A", Kunci: "C", Correct: false, Score: 0, Bobot: 1, Topik: "gaya", Reason: ReasonOK}},
		{Context: ctx, Item: ScoredItem{Mapel: "ipa", QuestionID: "xyz-9999", Chosen: "A", Reason: ReasonUnknownQuestion}},
	}
}

func TestAggregatorRollups(t *testing.T) {
	agg := NewAggregator()
	agg.AddBatch(sampleEntries())

	m := agg.PerMapel["ipa"]
	if m == nil {
		t.Fatalf("expected ipa rollup")
	}
	if m.Benar != 1 || m.Salah != 1 || m.Skor != 2 || m.Bobot != 3 {
		t.Fatalf("unexpected mapel tally %+v", m)
	}
	if got := m.Persen(); got < 66.6 || got > 66.7 {
		t.Fatalf("expected ~66.67%%, got %f", got)
	}

	tk := agg.PerTopik[TopikKey{Mapel: "ipa", Topik: "gaya"}]
	if tk == nil || tk.Bobot != 3 {
		t.Fatalf("unexpected topic tally %+v", tk)
	}
	if s := agg.PerSiswa[SiswaKey{StudentID: "S1", Mapel: "ipa"}]; s == nil || s.Skor != 2 {
		t.Fatalf("unexpected student tally %+v", s)
	}
	if s := agg.PerSesi[SesiKey{SessionID: "sesi-1", Mapel: "ipa"}]; s == nil || s.Bobot != 3 {
		t.Fatalf("unexpected session tally %+v", s)
	}
}

func TestAggregatorUnresolvedNeverSkews(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Entry{
		Context: SubmissionContext{StudentID: "S1", SessionID: "sesi-1"},
		Item:    ScoredItem{Mapel: "ipa", QuestionID: "xyz-9999", Reason: ReasonUnknownQuestion},
	})
	if _, ok := agg.PerMapel["ipa"]; ok {
		t.Fatalf("zero-weight item must not open a rollup")
	}
	rec := agg.Gradebook[GradebookKey{StudentID: "S1", SessionID: "sesi-1", Mapel: "ipa"}]
	if rec == nil {
		t.Fatalf("gradebook still records the attempt")
	}
	if rec.NQ != 1 || rec.Benar != 0 || rec.Salah != 0 {
		t.Fatalf("unresolved item counts neither benar nor salah: %+v", rec)
	}
}

func TestAggregatorBatchEqualsIncremental(t *testing.T) {
	entries := sampleEntries()

	batch := NewAggregator()
	batch.AddBatch(entries)

	incr := NewAggregator()
	incr.AddBatch(entries[:2])
	incr.AddBatch(entries[2:])

	if !reflect.DeepEqual(batch.PerMapel, incr.PerMapel) {
		t.Fatalf("per-mapel diverged: %v vs %v", batch.PerMapel, incr.PerMapel)
	}
	if !reflect.DeepEqual(batch.Gradebook, incr.Gradebook) {
		t.Fatalf("gradebook diverged")
	}
}

func TestGradebookRecord(t *testing.T) {
	agg := NewAggregator()
	agg.AddBatch(sampleEntries())

	rec := agg.Gradebook[GradebookKey{StudentID: "S1", SessionID: "sesi-1", Mapel: "ipa"}]
	if rec == nil {
		t.Fatalf("expected gradebook record")
	}
	if rec.NQ != 3 || rec.Benar != 1 || rec.Salah != 1 || rec.Skor != 2 || rec.Bobot != 3 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.LastTimestampMS != 250 {
		t.Fatalf("expected max timestamp 250, got %d", rec.LastTimestampMS)
	}
	if rec.StudentName != "Budi" {
		t.Fatalf("expected student name, got %q", rec.StudentName)
	}
	bt := rec.ByTopic["gaya"]
	if bt == nil || bt.NQ != 2 || bt.Benar != 1 || bt.Salah != 1 {
		t.Fatalf("unexpected topic breakdown %+v", bt)
	}
}

func TestGradebookRequiresFullIdentity(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Entry{
		Context: SubmissionContext{StudentID: "S1"},
		Item:    ScoredItem{Mapel: "ipa", QuestionID: "ipa-0001", Bobot: 1, Reason: ReasonOK},
	})
	if len(agg.Gradebook) != 0 {
		t.Fatalf("missing session id must not create a gradebook record")
	}
	if agg.PerMapel["ipa"] == nil {
		t.Fatalf("rollups still accumulate without a session id")
	}
}

func TestPercentZeroBobot(t *testing.T) {
	if got := Percent(0, 0); got != 0 {
		t.Fatalf("expected 0 for zero bobot, got %f", got)
	}
	if got := Percent(3, 4); got != 75 {
		t.Fatalf("expected 75, got %f", got)
	}
}

func TestParseLogRecordAliases(t *testing.T) {
	rec := map[string]string{
		"siswa_id":     "S9",
		"nama":         "Sari",
		"attempt_id":   "a-1",
		"timestamp_ms": "1234",
		"subject":      "IPA",
		"id_soal":      "ipa-0001",
		"jawaban":      "b",
	}
	ctx, sub := ParseLogRecord(rec)
	if ctx.StudentID != "S9" || ctx.StudentName != "Sari" || ctx.SessionID != "a-1" || ctx.TimestampMS != 1234 {
		t.Fatalf("unexpected context %+v", ctx)
	}
	if sub.Mapel != "ipa" || sub.QuestionID != "ipa-0001" || sub.Chosen != "b" {
		t.Fatalf("unexpected submission %+v", sub)
	}
}
