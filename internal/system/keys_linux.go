//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// StartKeyWatcher watches Linux evdev devices under /dev/input/event* and
// reports key levels to h until ctx is done.
//
// It is best-effort: if no input devices are available, it logs and returns.
func StartKeyWatcher(ctx context.Context, l logger, h KeyHandlers) {
	tvSize := int(binary.Size(unix.Timeval{}))

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if l != nil {
			l.Infof("input", "no evdev devices found, keys disabled")
		}
		return
	}

	for _, path := range paths {
		go watchDevice(ctx, l, path, tvSize, h)
	}
}

func watchDevice(ctx context.Context, l logger, path string, tvSize int, h KeyHandlers) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()
	if l != nil {
		l.Infof("input", "watching %s", path)
	}

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, ev := range parseKeyEvents(buf[:n], tvSize) {
			h.dispatch(ev)
		}
	}
}
