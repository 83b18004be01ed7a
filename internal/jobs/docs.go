// Package jobs runs scheduled background work with github.com/robfig/cron/v3.
//
// ShipmentRetryJob is the only job today. It picks up home delivery orders
// left Ready without a tracking id after a courier failure and retries the
// shipment, in batches of commands.DefaultRetryBatchSize by default.
//
//	retry := jobs.NewShipmentRetryJob(handler, cfg.ShipmentRetrySchedule, 0, logger)
//	manager := jobs.NewJobManager(logger, retry)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// Schedules use six fields, seconds first.
package jobs
