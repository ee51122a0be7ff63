// Package predict abstracts the optional best-answer predictor. The
// trained classifier lives behind an HTTP endpoint; the engine only
// knows this interface and treats an empty choice as "no opinion".
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"learncheck/internal/bank"
)

// Input carries one question to a predictor.
type Input struct {
	Text    string            `json:"text"`
	Options map[string]string `json:"options"`
	Mapel   string            `json:"mapel"`
	Topik   string            `json:"topik"`
}

// Predictor returns a choice letter A-E, or empty for no opinion.
type Predictor interface {
	Predict(ctx context.Context, in Input) (string, error)
}

// SafeChoice sanitizes a predictor's answer: a valid letter passes,
// digits 1-5 map to A-E, everything else is no opinion.
func SafeChoice(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if len(s) > 0 && bank.IsChoiceLetter(s[:1]) {
		return s[:1]
	}
	for _, ch := range s {
		if ch >= '1' && ch <= '5' {
			return bank.ChoiceLetters[ch-'1']
		}
	}
	return ""
}

// AvailableChoices lists the labels with non-empty option text, falling
// back to A-D when the options are unusable.
func AvailableChoices(options map[string]string) []string {
	var avail []string
	for _, l := range bank.ChoiceLetters {
		if strings.TrimSpace(options[l]) != "" {
			avail = append(avail, l)
		}
	}
	if len(avail) == 0 {
		return bank.ChoiceLetters[:4]
	}
	return avail
}

// Random is the baseline predictor: a uniform draw over the available
// options using its own injected generator.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Random{rng: rng}
}

func (r *Random) Predict(_ context.Context, in Input) (string, error) {
	avail := AvailableChoices(in.Options)
	return avail[r.rng.Intn(len(avail))], nil
}

// HTTP calls an external model endpoint: POST the input, read {choice}.
type HTTP struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTP(endpoint string) *HTTP {
	return &HTTP{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type httpResponse struct {
	Choice string `json:"choice"`
}

func (h *HTTP) Predict(ctx context.Context, in Input) (string, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal predict request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call predictor: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("predictor status %d", resp.StatusCode)
	}

	var out httpResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode predictor response: %w", err)
	}
	return SafeChoice(out.Choice), nil
}
