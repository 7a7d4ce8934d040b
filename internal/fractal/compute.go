package fractal

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the partition count used when Computer.Workers is unset.
const DefaultWorkers = 8

// MaxPixels bounds the grid so a bad size fails before allocation.
const MaxPixels = 1 << 26

var (
	ErrInvalidGrid       = errors.New("invalid grid size")
	ErrInvalidIterations = errors.New("invalid iteration limit")
)

// Partition is the half-open column range [X0, X1) owned by one worker.
type Partition struct {
	Index  int
	X0, X1 int
}

func (p Partition) String() string {
	return fmt.Sprintf("#%d[%d,%d)", p.Index, p.X0, p.X1)
}

// PartitionError reports a worker that did not return its points.
type PartitionError struct {
	Partition Partition
	Cause     error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %s failed: %v", e.Partition, e.Cause)
}

func (e *PartitionError) Unwrap() error { return e.Cause }

// SplitColumns divides [0, width) into at most workers contiguous ranges
// whose sizes differ by no more than one column.
func SplitColumns(width, workers int) []Partition {
	if width <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > width {
		workers = width
	}
	base := width / workers
	extra := width % workers
	parts := make([]Partition, 0, workers)
	x := 0
	for i := 0; i < workers; i++ {
		w := base
		if i < extra {
			w++
		}
		parts = append(parts, Partition{Index: i, X0: x, X1: x + w})
		x += w
	}
	return parts
}

// Logger is the subset of app.Logger used by the orchestrators.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, string, ...interface{})  {}
func (nopLogger) Errorf(string, string, ...interface{}) {}

// Computer runs partitioned compute passes.
type Computer struct {
	Viewport Viewport
	Workers  int
	Solve    SolveFunc
	Logger   Logger
}

// NewComputer returns a Computer over the default viewport.
func NewComputer(workers int) *Computer {
	return &Computer{Viewport: DefaultViewport, Workers: workers}
}

type partitionResult struct {
	points []EscapePoint
	err    error
}

// Compute solves every pixel of a width x height grid and blocks until all
// partitions are done. Argument errors are returned with a nil field. A
// failed partition is logged and skipped; the field is still returned
// together with the joined partition errors.
func (c *Computer) Compute(width, height, maxIterations int) (*Field, error) {
	if width <= 0 || height <= 0 || width*height > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, width, height)
	}
	if maxIterations < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIterations, maxIterations)
	}

	vp := c.Viewport
	if vp == (Viewport{}) {
		vp = DefaultViewport
	}
	solve := c.Solve
	if solve == nil {
		solve = Solve
	}
	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := c.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	start := time.Now()
	parts := SplitColumns(width, workers)
	results := make([]partitionResult, len(parts))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, part := range parts {
		g.Go(func() error {
			results[i] = solvePartition(part, vp, solve, width, height, maxIterations)
			return nil
		})
	}
	_ = g.Wait()

	field := newField(width, height, maxIterations, vp)
	var errs []error
	for i, res := range results {
		if res.err != nil {
			perr := &PartitionError{Partition: parts[i], Cause: res.err}
			logger.Errorf("compute", "%v", perr)
			field.missing = append(field.missing, parts[i])
			errs = append(errs, perr)
			continue
		}
		field.merge(res.points)
	}

	logger.Infof("compute", "%dx%d max=%d partitions=%d failed=%d in %s",
		width, height, maxIterations, len(parts), len(errs), time.Since(start))
	return field, errors.Join(errs...)
}

func solvePartition(part Partition, vp Viewport, solve SolveFunc, width, height, maxIterations int) (res partitionResult) {
	defer func() {
		if r := recover(); r != nil {
			res = partitionResult{err: fmt.Errorf("panic: %v\n%s", r, debug.Stack())}
		}
	}()

	points := make([]EscapePoint, 0, (part.X1-part.X0)*height)
	for x := part.X0; x < part.X1; x++ {
		for y := 0; y < height; y++ {
			points = append(points, solve.Pixel(vp, x, y, width, height, maxIterations))
		}
	}
	return partitionResult{points: points}
}
