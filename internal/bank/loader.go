package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MalformedBankError marks a bank whose top-level JSON shape is unusable.
// It is fatal for that one subject's load only.
type MalformedBankError struct {
	Mapel  string
	Reason string
}

func (e *MalformedBankError) Error() string {
	return fmt.Sprintf("bank %s: %s", e.Mapel, e.Reason)
}

// Loader reads subject bank files and the topic taxonomy from disk.
type Loader struct {
	SoalDir    string
	MappingDir string
}

func NewLoader(soalDir, mappingDir string) *Loader {
	return &Loader{SoalDir: soalDir, MappingDir: mappingDir}
}

// ListSubjects returns the lower-cased stems of every *.json bank file.
func (l *Loader) ListSubjects() ([]string, error) {
	entries, err := os.ReadDir(l.SoalDir)
	if err != nil {
		return nil, fmt.Errorf("read soal dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.ToLower(strings.TrimSuffix(name, ".json")))
	}
	sort.Strings(out)
	return out, nil
}

// LoadBank reads, parses and normalizes one subject's bank file.
func (l *Loader) LoadBank(mapel string) (*Bank, error) {
	mapel = strings.ToLower(strings.TrimSpace(mapel))
	path := filepath.Join(l.SoalDir, mapel+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank %s: %w", mapel, err)
	}
	return ParseBank(mapel, raw)
}

// LoadAll loads every subject wholesale. A malformed bank does not abort
// the others; its error is returned in the second map keyed by subject.
func (l *Loader) LoadAll() (map[string]*Bank, map[string]error) {
	banks := map[string]*Bank{}
	errs := map[string]error{}
	subjects, err := l.ListSubjects()
	if err != nil {
		errs[""] = err
		return banks, errs
	}
	for _, m := range subjects {
		b, err := l.LoadBank(m)
		if err != nil {
			errs[m] = err
			continue
		}
		banks[m] = b
	}
	return banks, errs
}

// ParseBank accepts the two supported top-level shapes: a bare array of
// question records, or an object wrapping the array under one of the
// known list keys, optionally with mapel/versi metadata.
func ParseBank(mapel string, raw []byte) (*Bank, error) {
	mapel = strings.ToLower(strings.TrimSpace(mapel))

	var top any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &MalformedBankError{Mapel: mapel, Reason: "invalid JSON: " + err.Error()}
	}

	var (
		meta map[string]any
		list []any
	)
	switch t := top.(type) {
	case []any:
		list = t
	case map[string]any:
		meta = t
		for _, alt := range []string{"soal", "questions", "data", "items", "bank", "bank_soal"} {
			if arr, ok := meta[alt].([]any); ok {
				list = arr
				break
			}
			if v, present := meta[alt]; present && v != nil {
				return nil, &MalformedBankError{Mapel: mapel, Reason: fmt.Sprintf("field %q is not a list", alt)}
			}
		}
		if list == nil {
			list = []any{}
		}
	default:
		return nil, &MalformedBankError{Mapel: mapel, Reason: "unsupported top-level JSON shape"}
	}

	b := &Bank{Mapel: mapel, Version: "1.0"}
	if meta != nil {
		if m := strings.ToLower(strings.TrimSpace(anyToString(meta["mapel"]))); m != "" {
			b.Mapel = m
		}
		if v := strings.TrimSpace(anyToString(meta["versi"])); v != "" {
			b.Version = v
		}
	}

	for idx, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		q := NormalizeQuestion(rec)
		if q.ID == "" {
			q.ID = fmt.Sprintf("%s-%04d", b.Mapel, idx+1)
		}
		b.Soal = append(b.Soal, q)
	}
	return b, nil
}

// LoadTopicIndex reads the subject -> canonical topics taxonomy. A
// missing file yields an empty taxonomy, not an error.
func (l *Loader) LoadTopicIndex() (map[string][]string, error) {
	path := filepath.Join(l.MappingDir, "topic_index.json")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read topic index: %w", err)
	}
	var data map[string][]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse topic index: %w", err)
	}
	out := make(map[string][]string, len(data))
	for mapel, topics := range data {
		norm := make([]string, 0, len(topics))
		for _, t := range topics {
			norm = append(norm, NormalizeTopic(t))
		}
		out[strings.ToLower(mapel)] = norm
	}
	return out, nil
}
