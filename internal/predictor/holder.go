package predictor

import (
	"sync"

	"StockAdvisor/internal/model"
)

// DefaultFallbackProbability is served while no trained engine is loaded.
const DefaultFallbackProbability = 0.4

// Holder is the shared reference to the current engine. Handlers read it
// concurrently; the trainer swaps in new engines.
type Holder struct {
	mu       sync.RWMutex
	engine   *Engine
	report   *model.TrainingReport
	fallback float64
}

// NewHolder creates an empty holder. A fallback outside [0, 1] is replaced
// with DefaultFallbackProbability.
func NewHolder(fallback float64) *Holder {
	if fallback < 0 || fallback > 1 {
		fallback = DefaultFallbackProbability
	}
	return &Holder{fallback: fallback}
}

// Predict returns the current engine's probability for the latest bar, or
// the fallback probability when nothing has been trained.
func (h *Holder) Predict() model.Prediction {
	h.mu.RLock()
	e := h.engine
	h.mu.RUnlock()

	if e == nil {
		return model.Prediction{Probability: h.fallback, Fallback: true}
	}
	return model.Prediction{Probability: e.PredictProbability()}
}

// Swap installs e and its training report.
func (h *Holder) Swap(e *Engine, report *model.TrainingReport) {
	h.mu.Lock()
	h.engine = e
	h.report = report
	h.mu.Unlock()
}

// Ready reports whether a trained engine is loaded.
func (h *Holder) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.engine != nil
}

// Report returns the report of the loaded engine, or nil.
func (h *Holder) Report() *model.TrainingReport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.report
}
