package runner

import "wdp.dev/cli/internal/core/command"

// Observer is notified of every step of a run, in order
type Observer interface {
	Opening(url string)
	Connected()
	Sent(cmd command.Command)
	Received(text string)
	Disconnected(err error)
}

// NopObserver ignores all notifications
type NopObserver struct{}

func (NopObserver) Opening(string)       {}
func (NopObserver) Connected()           {}
func (NopObserver) Sent(command.Command) {}
func (NopObserver) Received(string)      {}
func (NopObserver) Disconnected(error)   {}

// multiObserver fans notifications out to several observers
type multiObserver []Observer

// MultiObserver returns an Observer that forwards to each non-nil observer
func MultiObserver(observers ...Observer) Observer {
	var m multiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multiObserver) Opening(url string) {
	for _, o := range m {
		o.Opening(url)
	}
}

func (m multiObserver) Connected() {
	for _, o := range m {
		o.Connected()
	}
}

func (m multiObserver) Sent(cmd command.Command) {
	for _, o := range m {
		o.Sent(cmd)
	}
}

func (m multiObserver) Received(text string) {
	for _, o := range m {
		o.Received(text)
	}
}

func (m multiObserver) Disconnected(err error) {
	for _, o := range m {
		o.Disconnected(err)
	}
}
