package cli

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"learncheck/internal/answerlog"
	"learncheck/internal/bank"
	"learncheck/internal/materi"
	"learncheck/internal/predict"
)

type quizItem struct {
	Mapel    string
	Question bank.Question
}

// RunSim assembles a quiz across subjects, answers it with the
// configured predictor, appends the raw answers to the log, and prints
// the results plus remedial excerpts for the wrong ones.
func RunSim(e *Env, args []string) error {
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	mapelFlag := fs.String("mapel", "", "comma-separated subjects, e.g. ipa,biologi")
	allFlag := fs.Bool("all", false, "use every subject under the soal dir")
	topikFlag := fs.String("topik", "", "comma-separated topic filter")
	tingkatFlag := fs.String("tingkat", "", "comma-separated difficulty filter (mudah,sedang,sulit)")
	nFlag := fs.Int("n", 0, "questions per subject")
	seedFlag := fs.Int64("seed", 0, "RNG seed for reproducible selection")
	dupFlag := fs.Bool("allow-duplicate", false, "sample with replacement")
	studentID := fs.String("student-id", "S1", "student id")
	studentName := fs.String("student-name", "Demo User", "student name")
	sessionID := fs.String("session-id", "", "session id (generated when empty)")
	materialize := fs.Bool("materialize", false, "write scored CSV, rollups, gradebook and remedial JSON afterwards")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *nFlag <= 0 {
		return fmt.Errorf("sim: -n must be positive")
	}

	var seed *int64
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seed = seedFlag
		}
	})

	loader := e.loader()
	targets := splitList(*mapelFlag)
	if *allFlag {
		var err error
		targets, err = loader.ListSubjects()
		if err != nil {
			return err
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("sim: no subjects given (use -mapel or -all)")
	}

	sesi := *sessionID
	if sesi == "" {
		sesi = fmt.Sprintf("%s-%s", *studentID, uuid.NewString())
	}

	rng := bank.NewRand(seed)
	topics := splitList(*topikFlag)
	levels := splitList(*tingkatFlag)

	var quiz []quizItem
	for _, m := range targets {
		b, err := loader.LoadBank(m)
		if err != nil {
			e.Log.Warnw("bank skipped", "mapel", m, "err", err)
			continue
		}
		cand := bank.Filter(b, topics, levels)
		if len(cand) == 0 {
			continue
		}
		for _, q := range bank.Sample(cand, *nFlag, rng, *dupFlag) {
			quiz = append(quiz, quizItem{Mapel: b.Mapel, Question: q})
		}
	}
	if len(quiz) == 0 {
		return fmt.Errorf("sim: no questions match the filters")
	}
	rng.Shuffle(len(quiz), func(i, j int) { quiz[i], quiz[j] = quiz[j], quiz[i] })

	var predictor predict.Predictor
	if e.Cfg.PredictEndpoint != "" {
		predictor = predict.NewHTTP(e.Cfg.PredictEndpoint)
	} else {
		predictor = predict.NewRandom(rng)
	}

	ctx := context.Background()
	idx := materi.LoadIndex(filepath.Join(e.Cfg.MappingDir, "materi_index.json"))

	fmt.Printf("=== SIMULASI KUIS (%d soal) ===\n", len(quiz))
	fmt.Printf("Student : %s (%s)\n", *studentName, *studentID)
	fmt.Printf("Session : %s\n", sesi)

	type wrongItem struct {
		Mapel, Topik, ID, Chosen, Kunci string
	}
	var (
		rows    []answerlog.Row
		wrong   []wrongItem
		benar   int
		perMapl = map[string]*struct{ benar, total, skor, bobot int }{}
	)
	for i, it := range quiz {
		q := it.Question
		chosen, err := predictor.Predict(ctx, predict.Input{
			Text:    q.Text,
			Options: q.Options,
			Mapel:   it.Mapel,
			Topik:   q.Topic,
		})
		if err != nil || chosen == "" {
			// No opinion from the model: fall back to the baseline draw.
			avail := predict.AvailableChoices(q.Options)
			chosen = avail[rng.Intn(len(avail))]
		}

		key := strings.ToUpper(q.Key)
		isCorrect := chosen == key && key != ""
		st := perMapl[it.Mapel]
		if st == nil {
			st = &struct{ benar, total, skor, bobot int }{}
			perMapl[it.Mapel] = st
		}
		st.total++
		st.bobot += q.Weight
		if isCorrect {
			benar++
			st.benar++
			st.skor += q.Weight
		} else {
			wrong = append(wrong, wrongItem{Mapel: it.Mapel, Topik: q.Topic, ID: q.ID, Chosen: chosen, Kunci: key})
		}

		rows = append(rows, answerlog.Row{
			StudentID:   *studentID,
			StudentName: *studentName,
			SessionID:   sesi,
			TimestampMS: time.Now().UnixMilli(),
			Mapel:       it.Mapel,
			QuestionID:  q.ID,
			Chosen:      chosen,
		})
		fmt.Printf("[%d/%d] %s | %s -> %s\n", i+1, len(quiz), strings.ToUpper(it.Mapel), q.Topic, chosen)
	}

	logPath := filepath.Join(e.Cfg.JawabanDir, "siswa_jawaban.csv")
	if err := answerlog.New(logPath).Append(rows); err != nil {
		return err
	}

	fmt.Println("\n=== HASIL ===")
	fmt.Printf("Skor: %d/%d benar (%.2f%%)\n", benar, len(quiz), 100.0*float64(benar)/float64(len(quiz)))
	for m, st := range perMapl {
		pct := 0.0
		if st.bobot > 0 {
			pct = 100.0 * float64(st.skor) / float64(st.bobot)
		}
		fmt.Printf(" - %s: %d/%d benar (%.2f%%)\n", m, st.benar, st.total, pct)
	}

	if len(wrong) > 0 {
		fmt.Println("\n=== REMEDIAL (untuk yang salah) ===")
		for _, w := range wrong {
			snip := materi.BestSnippet(e.Cfg.MateriDir, idx, w.Mapel, w.Topik)
			if snip == "" {
				snip = "(belum ada materi terindeks untuk topik ini)"
			}
			fmt.Printf("\n[%s] %s | topik: %s\n", strings.ToUpper(w.Mapel), w.ID, w.Topik)
			fmt.Printf("  Jawaban: %s | Kunci: %s\n", w.Chosen, w.Kunci)
			fmt.Printf("  Materi disarankan: %s\n", snip)
		}
	}

	if *materialize {
		outDir := filepath.Join(e.Cfg.JawabanDir, "out")
		if err := evaluatePipeline(e, logPath, outDir); err != nil {
			return err
		}
		e.Log.Infow("artifacts materialized", "out_dir", outDir)
	}
	return nil
}
