package bc

import (
	"github.com/rs/zerolog/log"
)

type NotificationKind int

const (
	// Alert is a blocking message about the environment or the network.
	Alert NotificationKind = iota
	Success
	Failure
)

func (k NotificationKind) String() string {
	switch k {
	case Alert:
		return "alert"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "unknown"
}

type Notification struct {
	Kind    NotificationKind
	Message string
	Err     error
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	switch n.Kind {
	case Alert:
		log.Error().Err(n.Err).Msg(n.Message)
	case Failure:
		log.Warn().Err(n.Err).Msg(n.Message)
	default:
		log.Info().Msg(n.Message)
	}
}
