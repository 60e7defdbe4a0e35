package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/model"
	"StockAdvisor/internal/notifier"
)

// Retrainer rebuilds and swaps the model.
type Retrainer interface {
	Train(ctx context.Context) (*model.TrainingReport, error)
}

// StatusSource exposes the currently served model.
type StatusSource interface {
	Predict() model.Prediction
	Report() *model.TrainingReport
}

// Sender delivers operator messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs periodic retraining and answers operator commands.
type Scheduler struct {
	Cron     *cron.Cron
	Trainer  Retrainer
	Status   StatusSource
	Notifier Sender // optional
	Symbol   string
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. The cron parser accepts a seconds field.
func NewScheduler(ctx context.Context, trainer Retrainer, status StatusSource, symbol string) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Trainer: trainer,
		Status:  status,
		Symbol:  symbol,
		Ctx:     ctx,
	}
}

// RegisterRetrain schedules retraining on spec. An empty spec disables
// periodic retraining and reports false.
func (s *Scheduler) RegisterRetrain(spec string) (bool, error) {
	if spec == "" {
		return false, nil
	}
	if _, err := s.Cron.AddFunc(spec, s.retrainTask); err != nil {
		return false, fmt.Errorf("register retrain task: %w", err)
	}
	return true, nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow retrains immediately, outside the cron schedule.
func (s *Scheduler) RunNow(ctx context.Context) (*model.TrainingReport, error) {
	return s.Trainer.Train(ctx)
}

func (s *Scheduler) retrainTask() {
	log.Info().Str("symbol", s.Symbol).Msg("running scheduled retrain")
	if _, err := s.Trainer.Train(s.Ctx); err != nil {
		log.Warn().Err(err).Msg("scheduled retrain failed, keeping previous model")
	}
}

// ReportResult notifies the operator of a training outcome. It matches the
// trainer's result hook.
func (s *Scheduler) ReportResult(ctx context.Context, report *model.TrainingReport, err error) {
	if err != nil {
		s.trySend(ctx, notifier.FormatTrainingFailure(s.Symbol, err))
		return
	}
	s.trySend(ctx, notifier.FormatTrainingReport(report))
}

// HandleCommand processes an operator command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/status":
		return notifier.FormatStatus(s.Symbol, s.Status.Report(), s.Status.Predict())
	case "/retrain":
		// The outcome is delivered through ReportResult.
		if _, err := s.RunNow(ctx); err != nil {
			log.Warn().Err(err).Msg("operator retrain failed")
		}
		return ""
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
