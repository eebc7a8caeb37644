// Package widget provides the embedding surface: a Host object with an
// explicit mounted/unmounted lifecycle and a pre-mount command queue. The
// engine itself never consults ambient globals; only bootstrap glue holds a
// Host.
package widget

import (
	"sync"

	"github.com/agentchat/agentchat/pkg/controllers"
	"github.com/agentchat/agentchat/pkg/logger"
)

// Command is a deferred call against the session, issued by the embedding
// page before the widget has finished loading.
type Command func(*controllers.SessionController)

type Host struct {
	mu      sync.Mutex
	mounted bool
	session *controllers.SessionController
	queue   []Command
}

func NewHost() *Host {
	return &Host{}
}

// Enqueue records a command for the mount, or runs it immediately once
// mounted.
func (h *Host) Enqueue(cmd Command) {
	h.mu.Lock()
	if !h.mounted {
		h.queue = append(h.queue, cmd)
		h.mu.Unlock()
		return
	}
	session := h.session
	h.mu.Unlock()

	cmd(session)
}

// Mount attaches the session and drains the pre-mount queue exactly once.
// Mounting twice is a warning no-op, not an error.
func (h *Host) Mount(session *controllers.SessionController) {
	h.mu.Lock()
	if h.mounted {
		h.mu.Unlock()
		logger.Warn("widget is already mounted")
		return
	}
	h.mounted = true
	h.session = session
	pending := h.queue
	h.queue = nil
	h.mu.Unlock()

	for _, cmd := range pending {
		cmd(session)
	}
}

// Unmount detaches the session. Commands enqueued afterwards wait for the
// next mount.
func (h *Host) Unmount() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mounted = false
	h.session = nil
}

func (h *Host) Mounted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mounted
}

// Session returns the mounted session, or nil when unmounted.
func (h *Host) Session() *controllers.SessionController {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}
