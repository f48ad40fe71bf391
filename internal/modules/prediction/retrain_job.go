package prediction

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RetrainJob refreshes the model bundle on a schedule.
type RetrainJob struct {
	svc *Service
	log zerolog.Logger
}

// NewRetrainJob creates the scheduled retrain job.
func NewRetrainJob(svc *Service, log zerolog.Logger) *RetrainJob {
	return &RetrainJob{
		svc: svc,
		log: log.With().Str("job", "retrain").Logger(),
	}
}

// Name returns the job name.
func (j *RetrainJob) Name() string {
	return "retrain"
}

// Run retrains and swaps the bundle.
func (j *RetrainJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	bundle, err := j.svc.Retrain(ctx)
	if err != nil {
		return err
	}

	j.log.Info().Str("version", bundle.Version).Msg("Scheduled retrain complete")
	return nil
}
