package materi

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Pick is one indexed paragraph for a (mapel, topik) pair.
type Pick struct {
	ParaIndex int    `json:"para_index"`
	Score     int    `json:"score"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Snippet   string `json:"snippet"`
}

// Index maps mapel -> topik -> the best-scoring paragraphs (top 2).
type Index map[string]map[string][]Pick

// LoadAlias reads the optional variant -> canonical topic alias CSV.
// The file is optional; any read failure yields an empty alias map.
func LoadAlias(path string) map[string]string {
	alias := map[string]string{}
	recs, err := readCSVMaps(path)
	if err != nil {
		return alias
	}
	for _, rec := range recs {
		v := NormalizeLabel(rec["variant"])
		c := NormalizeLabel(rec["canonical"])
		if v != "" && c != "" {
			alias[v] = c
		}
	}
	return alias
}

// NormalizeLabel trims and lower-cases a topic label.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// BuildIndex ranks every subject's paragraphs against its taxonomy
// topics and keeps the top two picks per topic, earliest first on ties.
func BuildIndex(materiDir string, topicIndex map[string][]string, alias map[string]string) Index {
	out := Index{}
	for mapel, topics := range topicIndex {
		text := ReadMaterial(materiDir, mapel)
		if text == "" {
			continue
		}
		paras := SplitParagraphs(text)

		perTopic := map[string][]Pick{}
		for _, t := range topics {
			canonical := NormalizeLabel(t)
			if a, ok := alias[canonical]; ok {
				canonical = a
			}
			var picks []Pick
			for idx, p := range paras {
				s := ScoreParagraph(p.Text, canonical)
				if s > 0 {
					picks = append(picks, Pick{
						ParaIndex: idx,
						Score:     s,
						StartLine: p.StartLine,
						EndLine:   p.EndLine,
						Snippet:   Truncate(p.Text, SnippetLimit),
					})
				}
			}
			sort.SliceStable(picks, func(i, j int) bool {
				if picks[i].Score != picks[j].Score {
					return picks[i].Score > picks[j].Score
				}
				return picks[i].ParaIndex < picks[j].ParaIndex
			})
			if len(picks) > 2 {
				picks = picks[:2]
			}
			perTopic[t] = picks
		}
		out[mapel] = perTopic
	}
	return out
}

// SaveIndex writes the index JSON next to the taxonomy mapping files.
func SaveIndex(idx Index, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create mapping dir: %w", err)
	}
	b, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal materi index: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// LoadIndex reads a previously built index; missing file means empty.
func LoadIndex(path string) Index {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Index{}
	}
	var idx Index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return Index{}
	}
	return idx
}

// WriteIndexCSV writes the flat one-row-per-pick preview.
func WriteIndexCSV(idx Index, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"mapel", "topik", "para_index", "score", "start_line", "end_line", "preview"}); err != nil {
		return err
	}
	for _, mapel := range sortedKeys(idx) {
		topics := idx[mapel]
		names := make([]string, 0, len(topics))
		for t := range topics {
			names = append(names, t)
		}
		sort.Strings(names)
		for _, t := range names {
			for _, p := range topics[t] {
				preview := strings.ReplaceAll(Truncate(p.Snippet, 120), "\n", " ")
				rec := []string{
					mapel, t,
					strconv.Itoa(p.ParaIndex), strconv.Itoa(p.Score),
					strconv.Itoa(p.StartLine), strconv.Itoa(p.EndLine),
					preview,
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
		}
	}
	w.Flush()
	return w.Error()
}

// BestSnippet answers the remediation lookup: the indexed snippet when
// available, else a direct scan of the subject's material.
func BestSnippet(materiDir string, idx Index, mapel, topik string) string {
	mapel = strings.ToLower(strings.TrimSpace(mapel))
	if picks := idx[mapel][NormalizeLabel(topik)]; len(picks) > 0 {
		return Truncate(picks[0].Snippet, SnippetLimit)
	}
	if picks := idx[mapel][topik]; len(picks) > 0 {
		return Truncate(picks[0].Snippet, SnippetLimit)
	}
	return FallbackExcerpt(materiDir, mapel, topik)
}

func sortedKeys(idx Index) []string {
	out := make([]string, 0, len(idx))
	for k := range idx {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func readCSVMaps(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	header := all[0]
	out := make([]map[string]string, 0, len(all)-1)
	for _, rec := range all[1:] {
		m := map[string]string{}
		for i, col := range header {
			if i < len(rec) {
				m[col] = rec[i]
			}
		}
		out = append(out, m)
	}
	return out, nil
}
