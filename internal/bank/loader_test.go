package bank

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseBankShapes(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantMapel string
		wantN     int
	}{
		{
			name:      "bare array",
			raw:       `[{"teks":"q1","kunci":"A"},{"teks":"q2","kunci":"B"}]`,
			wantMapel: "ipa",
			wantN:     2,
		},
		{
			name:      "wrapped soal",
			raw:       `{"mapel":"IPA","versi":"2.1","soal":[{"teks":"q1","kunci":"A"}]}`,
			wantMapel: "ipa",
			wantN:     1,
		},
		{
			name:      "wrapped questions",
			raw:       `{"questions":[{"teks":"q1","kunci":"A"}]}`,
			wantMapel: "ipa",
			wantN:     1,
		},
		{
			name:      "empty object",
			raw:       `{}`,
			wantMapel: "ipa",
			wantN:     0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseBank("ipa", []byte(tc.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Mapel != tc.wantMapel {
				t.Fatalf("expected mapel %q, got %q", tc.wantMapel, b.Mapel)
			}
			if len(b.Soal) != tc.wantN {
				t.Fatalf("expected %d question(s), got %d", tc.wantN, len(b.Soal))
			}
		})
	}
}

func TestParseBankMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "invalid json", raw: `{"soal": [`},
		{name: "scalar top level", raw: `42`},
		{name: "soal not a list", raw: `{"soal": {"a": 1}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBank("ipa", []byte(tc.raw))
			var mbe *MalformedBankError
			if !errors.As(err, &mbe) {
				t.Fatalf("expected MalformedBankError, got %v", err)
			}
			if mbe.Mapel != "ipa" {
				t.Fatalf("expected mapel ipa in error, got %q", mbe.Mapel)
			}
		})
	}
}

func TestParseBankAssignsIDs(t *testing.T) {
	raw := `[{"teks":"q1"},{"id":"custom","teks":"q2"},{"teks":"q3"}]`
	b, err := ParseBank("mtk", []byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"mtk-0001", "custom", "mtk-0003"}
	for i, q := range b.Soal {
		if q.ID != want[i] {
			t.Fatalf("question %d: expected id %q, got %q", i, want[i], q.ID)
		}
	}
}

func TestParseBankSkipsNonObjectRecords(t *testing.T) {
	raw := `[{"teks":"q1"}, "stray", 3, {"teks":"q4"}]`
	b, err := ParseBank("ipa", []byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Soal) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(b.Soal))
	}
	if b.Soal[1].ID != "ipa-0004" {
		t.Fatalf("expected raw list position in id, got %q", b.Soal[1].ID)
	}
}

func writeBankFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoaderLoadAllPartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeBankFile(t, dir, "ipa.json", `[{"teks":"q1","kunci":"A"}]`)
	writeBankFile(t, dir, "mtk.json", `{"soal": [`)

	l := NewLoader(dir, dir)
	banks, errs := l.LoadAll()

	if len(banks) != 1 {
		t.Fatalf("expected 1 loaded bank, got %d", len(banks))
	}
	if _, ok := banks["ipa"]; !ok {
		t.Fatalf("expected ipa to load, got %v", banks)
	}
	if _, ok := errs["mtk"]; !ok {
		t.Fatalf("expected mtk error, got %v", errs)
	}
}

func TestLoaderListSubjects(t *testing.T) {
	dir := t.TempDir()
	writeBankFile(t, dir, "MTK.json", `[]`)
	writeBankFile(t, dir, "ipa.json", `[]`)
	writeBankFile(t, dir, "notes.txt", `x`)

	l := NewLoader(dir, dir)
	got, err := l.ListSubjects()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"ipa", "mtk"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoadTopicIndex(t *testing.T) {
	dir := t.TempDir()
	writeBankFile(t, dir, "topic_index.json", `{"IPA": ["Dunia Tumbuhan", "gaya"]}`)

	l := NewLoader(dir, dir)
	idx, err := l.LoadTopicIndex()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string][]string{"ipa": {"dunia_tumbuhan", "gaya"}}
	if !reflect.DeepEqual(idx, want) {
		t.Fatalf("expected %v, got %v", want, idx)
	}
}

func TestLoadTopicIndexMissingFile(t *testing.T) {
	l := NewLoader(t.TempDir(), t.TempDir())
	idx, err := l.LoadTopicIndex()
	if err != nil {
		t.Fatalf("missing taxonomy should not fail: %v", err)
	}
	if len(idx) != 0 {
		t.Fatalf("expected empty taxonomy, got %v", idx)
	}
}
