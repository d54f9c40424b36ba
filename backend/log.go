package backend

import (
	"github.com/sirupsen/logrus"

	"formpost/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}
