//go:build !linux

package system

import "context"

// StartKeyWatcher is a no-op off Linux; the simulator reads keys from its window.
func StartKeyWatcher(ctx context.Context, l logger, h KeyHandlers) {
	if l != nil {
		l.Infof("input", "evdev key watcher unavailable on this platform")
	}
}
