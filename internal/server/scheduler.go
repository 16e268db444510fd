package server

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartSchedule runs job on the cron spec until the returned scheduler is stopped.
func StartSchedule(spec string, job func() error, logger *logrus.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		logger.Info("Starting scheduled debt calculation")
		if err := job(); err != nil {
			logger.WithError(err).Error("Scheduled debt calculation failed")
		} else {
			logger.Info("Scheduled debt calculation finished")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
