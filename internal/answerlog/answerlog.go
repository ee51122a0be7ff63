// Package answerlog persists raw submissions to the append-only CSV log.
package answerlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Columns is the fixed answer-log schema; appends never reorder it.
var Columns = []string{
	"student_id", "student_name", "session_id", "timestamp_ms",
	"mapel", "question_id", "chosen",
}

// Row is one raw submission as logged, before scoring.
type Row struct {
	StudentID   string
	StudentName string
	SessionID   string
	TimestampMS int64
	Mapel       string
	QuestionID  string
	Chosen      string
}

// Log appends rows to a single CSV file. Appends are serialized by a
// mutex so concurrent writers cannot interleave partial rows.
type Log struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Log {
	return &Log{path: path}
}

func (l *Log) Path() string {
	return l.path
}

// Append writes the rows, emitting the header first when the file is new
// or empty.
func (l *Log) Append(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	needHeader := true
	if st, err := os.Stat(l.path); err == nil && st.Size() > 0 {
		needHeader = false
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open answer log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, r := range rows {
		record := []string{
			r.StudentID, r.StudentName, r.SessionID,
			strconv.FormatInt(r.TimestampMS, 10),
			r.Mapel, r.QuestionID, r.Chosen,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadRecords reads any answer-style CSV into header-keyed maps. Callers
// computing rollups treat the result as a snapshot; writes racing with
// the read are not reflected.
func ReadRecords(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	header := all[0]
	out := make([]map[string]string, 0, len(all)-1)
	for _, rec := range all[1:] {
		m := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				m[col] = rec[i]
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// ReadAll reads back the log's own fixed-schema rows.
func (l *Log) ReadAll() ([]Row, error) {
	recs, err := ReadRecords(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]Row, 0, len(recs))
	for _, rec := range recs {
		ts, _ := strconv.ParseInt(rec["timestamp_ms"], 10, 64)
		out = append(out, Row{
			StudentID:   rec["student_id"],
			StudentName: rec["student_name"],
			SessionID:   rec["session_id"],
			TimestampMS: ts,
			Mapel:       rec["mapel"],
			QuestionID:  rec["question_id"],
			Chosen:      rec["chosen"],
		})
	}
	return out, nil
}
