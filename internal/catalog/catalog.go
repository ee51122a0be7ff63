// Package catalog owns the process-wide bank state. Callers read through
// a Catalog instance instead of package globals so tests can build
// independent catalogs.
package catalog

import (
	"sync"

	"go.uber.org/zap"

	"learncheck/internal/bank"
	"learncheck/internal/score"
)

// Generation is one complete, immutable build of the bank set and its
// derived indexes. Readers always see a whole generation, never a mix.
type Generation struct {
	Banks      map[string]*bank.Bank
	Index      *score.Index
	TopicIndex map[string][]string
	LoadErrors map[string]error
}

type Catalog struct {
	loader *bank.Loader
	log    *zap.SugaredLogger

	mu  sync.RWMutex
	gen *Generation
}

func New(loader *bank.Loader, log *zap.SugaredLogger) *Catalog {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Catalog{loader: loader, log: log}
}

// Reload rebuilds every bank wholesale and swaps the new generation in
// atomically. A malformed bank fails only its own subject; the rest of
// the reload proceeds and the failure is kept on the generation.
func (c *Catalog) Reload() *Generation {
	banks, loadErrs := c.loader.LoadAll()
	topicIndex, err := c.loader.LoadTopicIndex()
	if err != nil {
		c.log.Warnw("topic index unavailable", "err", err)
		topicIndex = map[string][]string{}
	}

	gen := &Generation{
		Banks:      banks,
		Index:      score.BuildIndex(banks),
		TopicIndex: topicIndex,
		LoadErrors: loadErrs,
	}
	for mapel, err := range loadErrs {
		c.log.Warnw("bank load failed", "mapel", mapel, "err", err)
	}
	c.log.Infow("banks reloaded", "subjects", len(banks), "keys", gen.Index.Len(), "failed", len(loadErrs))

	c.mu.Lock()
	c.gen = gen
	c.mu.Unlock()
	return gen
}

// Snapshot returns the current generation, loading on first use.
func (c *Catalog) Snapshot() *Generation {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()
	if gen != nil {
		return gen
	}
	return c.Reload()
}
