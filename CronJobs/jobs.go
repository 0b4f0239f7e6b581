package CronJobs

import (
	"fmt"

	"Blane/BlaneAPI"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PaymentSyncer periodically pulls recent vendor payments from the Blane
// API into the local cache.
type PaymentSyncer struct {
	cronScheduler  *cron.Cron
	schedule       string
	runImmediately bool
	jobID          cron.EntryID
}

// NewPaymentSyncer creates a new payment syncer with the given schedule
// (six-field cron expression, seconds included).
func NewPaymentSyncer(schedule string, runImmediately bool) *PaymentSyncer {
	return &PaymentSyncer{
		cronScheduler:  cron.New(cron.WithSeconds()),
		schedule:       schedule,
		runImmediately: runImmediately,
	}
}

// Start initiates the payment sync cron job
func (s *PaymentSyncer) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc(s.schedule, func() {
		logrus.Info("Running scheduled vendor payment sync")
		s.runSync()
	})

	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	logrus.Infof("Payment sync scheduler started with schedule %q", s.schedule)

	if s.runImmediately {
		logrus.Info("Running initial payment sync")
		s.runSync()
	}

	return nil
}

// Stop terminates the payment syncer
func (s *PaymentSyncer) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		logrus.Info("Payment sync scheduler stopped")
	}
}

// UpdateSchedule changes the schedule of the payment syncer
func (s *PaymentSyncer) UpdateSchedule(schedule string) error {
	s.cronScheduler.Remove(s.jobID)

	var err error
	s.jobID, err = s.cronScheduler.AddFunc(schedule, func() {
		logrus.Info("Running scheduled vendor payment sync")
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("error rescheduling cron job: %w", err)
	}
	s.schedule = schedule
	return nil
}

func (s *PaymentSyncer) runSync() {
	stored, err := BlaneAPI.SyncVendorPayments()
	if err != nil {
		logrus.WithError(err).Error("Scheduled payment sync failed")
		return
	}
	logrus.Infof("Scheduled payment sync stored %d new payments", stored)
}
