package watchlist

import (
	"github.com/sirupsen/logrus"

	"github.com/grovetools/watchers/logging"
)

// LogNotifier prints notifications with the pretty logger and records them
// in the structured log.
type LogNotifier struct {
	pretty *logging.PrettyLogger
	logger *logrus.Entry
}

// NewLogNotifier returns a notifier for command-line use.
func NewLogNotifier(pretty *logging.PrettyLogger, logger *logrus.Entry) *LogNotifier {
	return &LogNotifier{pretty: pretty, logger: logger}
}

func (n *LogNotifier) Info(text string) {
	n.logger.Info(text)
	n.pretty.Success(text)
}

func (n *LogNotifier) Warning(text string) {
	n.logger.Warn(text)
	n.pretty.WarnPretty(text)
}

func (n *LogNotifier) Error(err error) {
	n.logger.WithError(err).Error("Watcher operation failed")
	n.pretty.ErrorPretty("Watcher operation failed", err)
}
