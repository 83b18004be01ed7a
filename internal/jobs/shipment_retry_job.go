package jobs

import (
	"context"
	"time"

	"lectio/internal/core/application/usecases/commands"

	"github.com/go-faster/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultShipmentRetrySchedule runs the retry every five minutes.
const DefaultShipmentRetrySchedule = "0 */5 * * * *"

// ShipmentRetrier is the use case the job drives.
type ShipmentRetrier interface {
	Handle(ctx context.Context, cmd commands.RetryPendingShipmentsCommand) (int, error)
}

// ShipmentRetryJob periodically hands Ready home delivery orders that still
// have no tracking id back to the courier. A run that is still going when the
// next one is due makes the next one skip.
type ShipmentRetryJob struct {
	handler   ShipmentRetrier
	cron      *cron.Cron
	schedule  string
	batchSize int
	timeout   time.Duration
	logger    *zap.Logger
}

// NewShipmentRetryJob uses a six-field (seconds first) cron schedule. An
// empty schedule means DefaultShipmentRetrySchedule.
func NewShipmentRetryJob(handler ShipmentRetrier, schedule string, batchSize int, logger *zap.Logger) *ShipmentRetryJob {
	if schedule == "" {
		schedule = DefaultShipmentRetrySchedule
	}
	if batchSize <= 0 {
		batchSize = commands.DefaultRetryBatchSize
	}

	return &ShipmentRetryJob{
		handler:   handler,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule:  schedule,
		batchSize: batchSize,
		timeout:   5 * time.Minute,
		logger:    logger.Named("shipment_retry_job"),
	}
}

func (j *ShipmentRetryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return errors.Wrapf(err, "schedule %q", j.schedule)
	}

	j.cron.Start()
	j.logger.Info("shipment retry job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running retry to finish.
func (j *ShipmentRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("shipment retry job stopped")
}

// Run performs one retry pass.
func (j *ShipmentRetryJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cmd, err := commands.NewRetryPendingShipmentsCommand(j.batchSize)
	if err != nil {
		j.logger.Error("invalid retry command", zap.Error(err))
		return
	}

	shipped, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("shipment retry failed", zap.Int("shipped", shipped), zap.Error(err))
		return
	}
	if shipped > 0 {
		j.logger.Info("pending shipments sent", zap.Int("shipped", shipped))
	}
}
