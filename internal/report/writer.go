// Package report serializes scoring artifacts: the scored-answers CSV,
// the four rollup CSVs, the gradebook (CSV, JSON, Excel) and the
// remediation JSON. CSV and JSON are independent serializations of the
// same in-memory records; neither is derived from the other's file.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"learncheck/internal/remedial"
	"learncheck/internal/score"
)

var scoredColumns = []string{
	"student_id", "student_name", "session_id", "timestamp_ms",
	"mapel", "question_id", "chosen", "kunci", "topik", "tingkat",
	"correct", "score", "bobot", "reason",
}

// WriteScoredCSV writes one row per scored submission.
func WriteScoredCSV(path string, entries []score.Entry) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(scoredColumns); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.Context.StudentID, e.Context.StudentName, e.Context.SessionID,
			strconv.FormatInt(e.Context.TimestampMS, 10),
			e.Item.Mapel, e.Item.QuestionID, e.Item.Chosen, e.Item.Kunci,
			e.Item.Topik, e.Item.Tingkat,
			strconv.FormatBool(e.Item.Correct),
			strconv.Itoa(e.Item.Score), strconv.Itoa(e.Item.Bobot),
			e.Item.Reason,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteRollupCSVs writes rekap_per_mapel/topik/siswa/sesi.csv into dir.
func WriteRollupCSVs(dir string, agg *score.Aggregator) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create rollup dir: %w", err)
	}

	mapelRows := make([]rollupRow, 0, len(agg.PerMapel))
	for k, t := range agg.PerMapel {
		mapelRows = append(mapelRows, rollupRow{keys: []string{k}, tally: *t})
	}
	if err := writeRollup(filepath.Join(dir, "rekap_per_mapel.csv"), []string{"key"}, mapelRows); err != nil {
		return err
	}

	topikRows := make([]rollupRow, 0, len(agg.PerTopik))
	for k, t := range agg.PerTopik {
		topikRows = append(topikRows, rollupRow{keys: []string{k.Mapel, k.Topik}, tally: *t})
	}
	if err := writeRollup(filepath.Join(dir, "rekap_per_topik.csv"), []string{"key1", "key2"}, topikRows); err != nil {
		return err
	}

	siswaRows := make([]rollupRow, 0, len(agg.PerSiswa))
	for k, t := range agg.PerSiswa {
		siswaRows = append(siswaRows, rollupRow{keys: []string{k.StudentID, k.Mapel}, tally: *t})
	}
	if err := writeRollup(filepath.Join(dir, "rekap_per_siswa.csv"), []string{"key1", "key2"}, siswaRows); err != nil {
		return err
	}

	sesiRows := make([]rollupRow, 0, len(agg.PerSesi))
	for k, t := range agg.PerSesi {
		sesiRows = append(sesiRows, rollupRow{keys: []string{k.SessionID, k.Mapel}, tally: *t})
	}
	return writeRollup(filepath.Join(dir, "rekap_per_sesi.csv"), []string{"key1", "key2"}, sesiRows)
}

type rollupRow struct {
	keys  []string
	tally score.Tally
}

func writeRollup(path string, keyCols []string, rows []rollupRow) error {
	sort.Slice(rows, func(i, j int) bool {
		for n := range rows[i].keys {
			if rows[i].keys[n] != rows[j].keys[n] {
				return rows[i].keys[n] < rows[j].keys[n]
			}
		}
		return false
	})

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(append([]string{}, keyCols...), "benar", "salah", "skor", "bobot", "persen")
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := append(append([]string{}, r.keys...),
			strconv.Itoa(r.tally.Benar), strconv.Itoa(r.tally.Salah),
			strconv.Itoa(r.tally.Skor), strconv.Itoa(r.tally.Bobot),
			fmt.Sprintf("%.2f", r.tally.Persen()),
		)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

var gradebookColumns = []string{
	"student_id", "student_name", "session_id", "mapel",
	"n_q", "benar", "salah", "skor", "bobot", "persen",
	"last_timestamp_ms", "by_topic_json",
}

// WriteGradebookCSV writes one row per (student, session, mapel); the
// per-topic breakdown is embedded as a JSON cell.
func WriteGradebookCSV(path string, agg *score.Aggregator) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(gradebookColumns); err != nil {
		return err
	}
	for _, key := range agg.SortedGradebookKeys() {
		rec := agg.Gradebook[key]
		byTopic, err := json.Marshal(rec.ByTopic)
		if err != nil {
			return fmt.Errorf("marshal by_topic: %w", err)
		}
		row := []string{
			rec.StudentID, rec.StudentName, rec.SessionID, rec.Mapel,
			strconv.Itoa(rec.NQ), strconv.Itoa(rec.Benar), strconv.Itoa(rec.Salah),
			strconv.Itoa(rec.Skor), strconv.Itoa(rec.Bobot),
			fmt.Sprintf("%.2f", score.Percent(rec.Skor, rec.Bobot)),
			strconv.FormatInt(rec.LastTimestampMS, 10),
			string(byTopic),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type gradebookJSON struct {
	score.GradebookRecord
	Persen float64 `json:"persen"`
}

// WriteGradebookJSON writes the same records as nested objects.
func WriteGradebookJSON(path string, agg *score.Aggregator) error {
	payload := make([]gradebookJSON, 0, len(agg.Gradebook))
	for _, key := range agg.SortedGradebookKeys() {
		rec := agg.Gradebook[key]
		pct := score.Percent(rec.Skor, rec.Bobot)
		payload = append(payload, gradebookJSON{
			GradebookRecord: *rec,
			Persen:          float64(int(pct*100+0.5)) / 100,
		})
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal gradebook: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create gradebook dir: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// WriteRemedialJSON writes the remediation flags for the guru-facing
// layer to consume.
func WriteRemedialJSON(path string, flags []remedial.Flag) error {
	b, err := json.MarshalIndent(flags, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal remedial flags: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create remedial dir: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
