package score

import (
	"reflect"
	"testing"

	"learncheck/internal/bank"
)

func testBanks() map[string]*bank.Bank {
	return map[string]*bank.Bank{
		"ipa": {Mapel: "ipa", Soal: []bank.Question{
			{ID: "ipa-0001", Key: "B", Weight: 2, Topic: "gaya", Difficulty: "mudah"},
			{ID: "shared-01", Key: "A", Weight: 1, Topic: "gaya", Difficulty: "mudah"},
			{ID: "unik-01", Key: "C", Weight: 3, Topic: "energi", Difficulty: "sulit"},
		}},
		"mtk": {Mapel: "mtk", Soal: []bank.Question{
			{ID: "shared-01", Key: "D", Weight: 1, Topic: "aljabar", Difficulty: "sedang"},
		}},
	}
}

func TestNormalizeChoice(t *testing.T) {
	tests := []struct{ in, want string }{
		{"B", "B"},
		{" b. ", "B"},
		{"jawaban: c", "A"},
		{"2", "B"},
		{"x5", "E"},
		{"", ""},
		{"z9", ""},
		{"?", ""},
	}
	for _, tc := range tests {
		if got := NormalizeChoice(tc.in); got != tc.want {
			t.Fatalf("NormalizeChoice(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestScore(t *testing.T) {
	ix := BuildIndex(testBanks())

	tests := []struct {
		name        string
		sub         Submission
		wantReason  string
		wantCorrect bool
		wantScore   int
		wantMapel   string
	}{
		{
			name:        "digit alias hits key",
			sub:         Submission{Mapel: "ipa", QuestionID: "ipa-0001", Chosen: "2"},
			wantReason:  ReasonOK,
			wantCorrect: true,
			wantScore:   2,
			wantMapel:   "ipa",
		},
		{
			name:        "wrong answer",
			sub:         Submission{Mapel: "ipa", QuestionID: "ipa-0001", Chosen: "A"},
			wantReason:  ReasonOK,
			wantCorrect: false,
			wantScore:   0,
			wantMapel:   "ipa",
		},
		{
			name:        "omitted subject resolves unique id",
			sub:         Submission{QuestionID: "unik-01", Chosen: "C"},
			wantReason:  ReasonOK,
			wantCorrect: true,
			wantScore:   3,
			wantMapel:   "ipa",
		},
		{
			name:       "omitted subject ambiguous id never guessed",
			sub:        Submission{QuestionID: "shared-01", Chosen: "A"},
			wantReason: ReasonUnknownQuestion,
			wantMapel:  "",
		},
		{
			name:       "unknown id zero weight",
			sub:        Submission{Mapel: "ipa", QuestionID: "xyz-9999", Chosen: "A"},
			wantReason: ReasonUnknownQuestion,
			wantMapel:  "ipa",
		},
		{
			name:       "empty choice invalid",
			sub:        Submission{Mapel: "ipa", QuestionID: "ipa-0001", Chosen: "  "},
			wantReason: ReasonInvalidChoice,
			wantMapel:  "ipa",
		},
		{
			name:       "explicit subject with wrong bank",
			sub:        Submission{Mapel: "mtk", QuestionID: "ipa-0001", Chosen: "B"},
			wantReason: ReasonUnknownQuestion,
			wantMapel:  "mtk",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := Score(tc.sub, ix)
			if item.Reason != tc.wantReason {
				t.Fatalf("expected reason %s, got %s", tc.wantReason, item.Reason)
			}
			if item.Correct != tc.wantCorrect {
				t.Fatalf("expected correct=%v, got %v", tc.wantCorrect, item.Correct)
			}
			if item.Score != tc.wantScore {
				t.Fatalf("expected score %d, got %d", tc.wantScore, item.Score)
			}
			if item.Mapel != tc.wantMapel {
				t.Fatalf("expected mapel %q, got %q", tc.wantMapel, item.Mapel)
			}
			if item.Reason == ReasonUnknownQuestion && item.Bobot != 0 {
				t.Fatalf("unresolved item must carry bobot 0, got %d", item.Bobot)
			}
		})
	}
}

func TestScoreIsPure(t *testing.T) {
	ix := BuildIndex(testBanks())
	sub := Submission{Mapel: "ipa", QuestionID: "ipa-0001", Chosen: "B"}
	first := Score(sub, ix)
	second := Score(sub, ix)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scoring must be idempotent: %+v vs %+v", first, second)
	}
}

func TestScoreInvalidChoiceKeepsBobot(t *testing.T) {
	ix := BuildIndex(testBanks())
	item := Score(Submission{Mapel: "ipa", QuestionID: "ipa-0001", Chosen: "?"}, ix)
	if item.Reason != ReasonInvalidChoice {
		t.Fatalf("expected INVALID_CHOICE, got %s", item.Reason)
	}
	if item.Bobot != 2 || item.Score != 0 {
		t.Fatalf("expected bobot 2 and score 0, got %d/%d", item.Bobot, item.Score)
	}
}
