package worker

import (
	"context"
	"time"

	"github.com/priyanshtech/TaskManager/internal/logger"
	"go.uber.org/zap"
)

const (
	defaultInterval     = 30 * time.Second
	defaultCheckTimeout = 5 * time.Second
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StoreGauge отражает доступность хранилища (реализуется metrics.Metrics).
type StoreGauge interface {
	SetStoreUp(up bool)
}

// HealthWorker периодически проверяет хранилище и обновляет метрику store_up.
type HealthWorker struct {
	checker  HealthChecker
	gauge    StoreGauge
	interval time.Duration
	timeout  time.Duration
}

// NewHealthWorker: nil interval означает значение по умолчанию (30s).
func NewHealthWorker(checker HealthChecker, gauge StoreGauge, interval *time.Duration) *HealthWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = defaultInterval
	} else {
		intervalToSet = *interval
	}

	timeout := defaultCheckTimeout
	if intervalToSet < timeout {
		timeout = intervalToSet
	}

	return &HealthWorker{
		checker:  checker,
		gauge:    gauge,
		interval: intervalToSet,
		timeout:  timeout,
	}
}

// Start блокируется до отмены ctx. Первая проверка выполняется сразу.
func (w *HealthWorker) Start(ctx context.Context) {
	logger.Info("Worker: Фоновая проверка хранилища запущена", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка хранилища останавливается")
			return
		}
	}
}

func (w *HealthWorker) Check(ctx context.Context) bool {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	err := w.checker.HealthCheck(checkCtx)
	up := err == nil
	if w.gauge != nil {
		w.gauge.SetStoreUp(up)
	}

	if !up {
		logger.Warn("Worker: Хранилище недоступно", zap.Error(err), zap.Duration("ms", time.Since(start)))
		return false
	}
	logger.Debug("Worker: Хранилище доступно", zap.Duration("ms", time.Since(start)))
	return true
}
