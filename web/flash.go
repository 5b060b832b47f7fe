package web

import (
	"sync"

	"github.com/regnull/namereg/bc"
)

// Flash collects bridge notifications until the next page render.
type Flash struct {
	mu       sync.Mutex
	messages []bc.Notification
	log      bc.LogNotifier
}

func NewFlash() *Flash {
	return &Flash{}
}

func (f *Flash) Notify(n bc.Notification) {
	f.log.Notify(n)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, n)
}

// Drain returns the pending notifications and forgets them. Alerts are
// skipped, the page shows the session alert instead.
func (f *Flash) Drain() []bc.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []bc.Notification
	for _, n := range f.messages {
		if n.Kind != bc.Alert {
			res = append(res, n)
		}
	}
	f.messages = nil
	return res
}
