// Package materi segments supporting-material text and ranks paragraphs
// against topic labels for remediation excerpts.
package materi

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SnippetLimit caps every returned excerpt, in runes.
const SnippetLimit = 500

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// Paragraph is one blank-line-delimited chunk with 1-based line bounds.
type Paragraph struct {
	StartLine int
	EndLine   int
	Text      string
}

// SplitParagraphs splits text on blank-line boundaries. Text without any
// blank line is a single paragraph.
func SplitParagraphs(text string) []Paragraph {
	lines := strings.Split(text, "\n")
	var paras []Paragraph
	start := 0
	for i := 0; i <= len(lines); i++ {
		if i == len(lines) || strings.TrimSpace(lines[i]) == "" {
			if start < i {
				chunk := strings.TrimSpace(strings.Join(lines[start:i], "\n"))
				if chunk != "" {
					paras = append(paras, Paragraph{StartLine: start + 1, EndLine: i, Text: chunk})
				}
			}
			start = i + 1
		}
	}
	if len(paras) == 0 && strings.TrimSpace(text) != "" {
		paras = []Paragraph{{StartLine: 1, EndLine: len(lines), Text: strings.TrimSpace(text)}}
	}
	return paras
}

// Tokens lower-cases, folds underscores into spaces, and extracts the
// alphanumeric words of a label or paragraph.
func Tokens(s string) []string {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
	return tokenRe.FindAllString(s, -1)
}

// ScoreParagraph counts how many of the topic's tokens occur in the
// paragraph, plus one bonus when the literal topic phrase (underscores
// read as spaces) appears as a substring.
func ScoreParagraph(paragraph, topik string) int {
	ptoks := map[string]struct{}{}
	for _, t := range Tokens(paragraph) {
		ptoks[t] = struct{}{}
	}
	score := 0
	for _, t := range uniqueTokens(topik) {
		if _, ok := ptoks[t]; ok {
			score++
		}
	}
	phrase := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(topik)), "_", " ")
	if phrase != "" && strings.Contains(strings.ToLower(paragraph), phrase) {
		score++
	}
	return score
}

func uniqueTokens(s string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range Tokens(s) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// BestExcerpt returns the top-scoring paragraph truncated to
// SnippetLimit, or empty when nothing scores above zero. Ties resolve
// to the earliest paragraph.
func BestExcerpt(text, topik string) string {
	best, bestScore := "", 0
	for _, p := range SplitParagraphs(text) {
		if s := ScoreParagraph(p.Text, topik); s > bestScore {
			best, bestScore = p.Text, s
		}
	}
	return Truncate(best, SnippetLimit)
}

// Truncate caps s at n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ReadMaterial finds a subject's material file, preferring .txt over .md.
// Absent material is not an error; it reads as empty.
func ReadMaterial(materiDir, mapel string) string {
	for _, ext := range []string{".txt", ".md"} {
		raw, err := os.ReadFile(filepath.Join(materiDir, strings.ToLower(mapel)+ext))
		if err == nil {
			return string(raw)
		}
	}
	return ""
}

// FallbackExcerpt scans a subject's material directly when no prebuilt
// index covers the topic: first paragraph containing the topic phrase,
// else the opening paragraph.
func FallbackExcerpt(materiDir, mapel, topicHint string) string {
	text := ReadMaterial(materiDir, mapel)
	if text == "" {
		return ""
	}
	paras := SplitParagraphs(text)
	if hint := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(topicHint)), "_", " "); hint != "" {
		for _, p := range paras {
			if strings.Contains(strings.ToLower(p.Text), hint) {
				return Truncate(p.Text, SnippetLimit)
			}
		}
	}
	if len(paras) > 0 {
		return Truncate(paras[0].Text, SnippetLimit)
	}
	return Truncate(text, SnippetLimit)
}
