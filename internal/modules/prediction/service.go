package prediction

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ArtifactUploader pushes a saved artifact to off-box storage. Nil disables
// backups.
type ArtifactUploader interface {
	UploadFile(ctx context.Context, key, path string) error
}

// Service owns the model lifecycle: initial load-or-train, retraining, and
// the atomic swap that makes a new bundle live.
type Service struct {
	trainer  *Trainer
	holder   *Holder
	dataDir  string
	uploader ArtifactUploader
	log      zerolog.Logger
}

// NewService creates the model service. The holder must already contain a
// valid bundle (see Bootstrap).
func NewService(trainer *Trainer, holder *Holder, dataDir string, uploader ArtifactUploader, log zerolog.Logger) *Service {
	return &Service{
		trainer:  trainer,
		holder:   holder,
		dataDir:  dataDir,
		uploader: uploader,
		log:      log.With().Str("component", "prediction").Logger(),
	}
}

// Bootstrap loads the saved bundle from the data directory, or trains a new
// one synchronously when no artifact exists. The process never serves with a
// partially initialized predictor: this either returns a complete bundle or
// an error.
func Bootstrap(trainer *Trainer, dataDir string, log zerolog.Logger) (*Holder, error) {
	bundle, err := LoadBundle(dataDir)
	if err == nil {
		log.Info().
			Str("version", bundle.Version).
			Time("trained_at", bundle.TrainedAt).
			Msg("Loaded model bundle from disk")
		return NewHolder(bundle), nil
	}

	log.Warn().Err(err).Msg("No usable model bundle on disk, training from scratch")

	bundle, err = trainer.Train()
	if err != nil {
		return nil, fmt.Errorf("initial training failed: %w", err)
	}
	if err := bundle.Save(dataDir); err != nil {
		return nil, fmt.Errorf("failed to persist initial bundle: %w", err)
	}

	return NewHolder(bundle), nil
}

// Bundle returns the currently live bundle.
func (s *Service) Bundle() *Bundle {
	return s.holder.Get()
}

// Retrain fits a new bundle, persists it, swaps it in atomically, and
// backs up the artifact when an uploader is configured. In-flight requests
// keep the bundle they already read; new requests see the new one.
func (s *Service) Retrain(ctx context.Context) (*Bundle, error) {
	bundle, err := s.trainer.Train()
	if err != nil {
		return nil, fmt.Errorf("retrain failed: %w", err)
	}

	if err := bundle.Save(s.dataDir); err != nil {
		return nil, fmt.Errorf("failed to persist retrained bundle: %w", err)
	}

	old := s.holder.Swap(bundle)
	s.log.Info().
		Str("old_version", old.Version).
		Str("new_version", bundle.Version).
		Msg("Model bundle swapped")

	if s.uploader != nil {
		key := fmt.Sprintf("%s/%s", bundle.Version, ArtifactFileName)
		path := filepath.Join(s.dataDir, ArtifactFileName)
		if err := s.uploader.UploadFile(ctx, key, path); err != nil {
			// Backup failure must not undo a successful retrain.
			s.log.Error().Err(err).Msg("Artifact backup failed")
		}
	}

	return bundle, nil
}
