//go:build linux

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

func redirectStdIO(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	// Dup3 rather than Dup2: linux/arm64 has no dup2 syscall.
	for _, target := range []*os.File{os.Stdout, os.Stderr} {
		if err := unix.Dup3(int(f.Fd()), int(target.Fd()), 0); err != nil {
			return err
		}
	}
	return nil
}
