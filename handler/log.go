package handler

import (
	"github.com/sirupsen/logrus"

	"formpost/display"
	"formpost/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

func logSubmission(form, endpoint string, outcome display.Outcome) {
	entry := log.WithFields(logrus.Fields{
		"form":     form,
		"endpoint": endpoint,
		"status":   outcome.Status.String(),
	})
	if outcome.Status == display.Failure {
		entry.Warn(outcome.Text)
		return
	}
	entry.Info("submitted")
}
