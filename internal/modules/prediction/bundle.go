package prediction

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/advisor/internal/modules/features"
)

// Expected-return clamp band, in percent. Predictions outside this band are
// extrapolation artifacts, not advice.
const (
	MinExpectedReturn = 5.0
	MaxExpectedReturn = 25.0
)

// ArtifactFileName is the bundle file name inside the data directory.
const ArtifactFileName = "model_bundle.msgpack"

// Bundle holds everything needed to serve predictions: the feature encoders,
// the scaler, and the two fitted regressors. A bundle is immutable after
// construction; retraining produces a new bundle.
type Bundle struct {
	Version         string                   `msgpack:"version"`
	TrainedAt       time.Time                `msgpack:"trained_at"`
	Samples         int                      `msgpack:"samples"`
	Encoders        *features.Encoder        `msgpack:"encoders"`
	Scaler          *features.StandardScaler `msgpack:"scaler"`
	ReturnModel     *LinearModel             `msgpack:"return_model"`
	AllocationModel *LinearModel             `msgpack:"allocation_model"`
}

// PredictReturn predicts the expected annual return percentage for an
// unscaled feature vector, clamped into the configured band.
func (b *Bundle) PredictReturn(vector []float64) float64 {
	scaled := b.Scaler.Transform(vector)
	raw := b.ReturnModel.Predict(scaled)[0]

	if raw < MinExpectedReturn {
		return MinExpectedReturn
	}
	if raw > MaxExpectedReturn {
		return MaxExpectedReturn
	}
	return raw
}

// PredictAllocation predicts raw category weights (stocks, mutual funds,
// ETFs) for an unscaled feature vector. The outputs are not guaranteed
// non-negative or summed to 100; the allocation normalizer owns that
// invariant.
func (b *Bundle) PredictAllocation(vector []float64) (stocks, mutualFunds, etfs float64) {
	scaled := b.Scaler.Transform(vector)
	out := b.AllocationModel.Predict(scaled)
	return out[0], out[1], out[2]
}

// Save writes the bundle atomically to the given directory.
func (b *Bundle) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	data, err := msgpack.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode model bundle: %w", err)
	}

	path := filepath.Join(dir, ArtifactFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write model bundle: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move model bundle into place: %w", err)
	}

	return nil
}

// LoadBundle reads a previously saved bundle from the given directory.
func LoadBundle(dir string) (*Bundle, error) {
	path := filepath.Join(dir, ArtifactFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model bundle: %w", err)
	}

	var b Bundle
	if err := msgpack.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode model bundle: %w", err)
	}

	if b.ReturnModel == nil || b.AllocationModel == nil || b.Scaler == nil || b.Encoders == nil {
		return nil, fmt.Errorf("model bundle at %s is incomplete", path)
	}

	return &b, nil
}

// Holder provides atomic access to the live bundle. Requests read through
// Get; the retrain path is the single writer through Swap. Readers always
// see either the old bundle or the new one, never a partial state.
type Holder struct {
	mu     sync.RWMutex
	bundle *Bundle
}

// NewHolder creates a holder around an initial bundle.
func NewHolder(b *Bundle) *Holder {
	return &Holder{bundle: b}
}

// Get returns the current bundle.
func (h *Holder) Get() *Bundle {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bundle
}

// Swap replaces the current bundle and returns the previous one.
func (h *Holder) Swap(b *Bundle) *Bundle {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.bundle
	h.bundle = b
	return old
}
