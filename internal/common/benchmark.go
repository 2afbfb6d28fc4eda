package common

import (
	"time"

	"go.uber.org/zap"
)

type Benchmarker struct {
	start  time.Time
	label  string
	logger *zap.Logger
}

func RuntimeBenchmark[T any](logger *zap.Logger, label string, functionUnderTest func() (T, error)) (T, error) {
	start := time.Now()
	result, err := functionUnderTest()
	logger.Debug("bench", zap.String("label", label), zap.Duration("took", time.Since(start)))
	return result, err
}

func NewBenchmarker(logger *zap.Logger, label string) *Benchmarker {
	return &Benchmarker{start: time.Now(), label: label, logger: logger}
}

// Elapsed is the time since the benchmarker was created.
func (benchmarker *Benchmarker) Elapsed() time.Duration {
	return time.Since(benchmarker.start)
}

func (benchmarker *Benchmarker) Close() {
	benchmarker.logger.Debug("bench", zap.String("label", benchmarker.label), zap.Duration("took", benchmarker.Elapsed()))
}
