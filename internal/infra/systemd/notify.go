// Package systemd reports service state to systemd when running as a Type=notify unit.
// Outside systemd every call is a no-op.
package systemd

import (
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/sirupsen/logrus"
)

func notify(logger *logrus.Logger, state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logger.WithError(err).Warnf("sd_notify %s failed", state)
		return
	}
	if sent {
		logger.Debugf("sd_notify %s sent", state)
	}
}

// Ready signals that startup finished.
func Ready(logger *logrus.Logger) { notify(logger, daemon.SdNotifyReady) }

// Stopping signals that shutdown began.
func Stopping(logger *logrus.Logger) { notify(logger, daemon.SdNotifyStopping) }
