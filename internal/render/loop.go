package render

import (
	"context"
	"fmt"
	"time"
)

// RunTicker calls frame at hz until ctx is done or frame fails.
func RunTicker(ctx context.Context, hz int, frame func() error) error {
	if hz <= 0 {
		hz = DefaultHz
	}
	d := time.Second / time.Duration(hz)
	if d <= 0 {
		return fmt.Errorf("invalid tick rate: %d", hz)
	}
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := frame(); err != nil {
				return err
			}
		}
	}
}
