package informer

import (
	"context"
	"sync"
	"time"

	"vmxsphere/pkg/log"

	"go.uber.org/zap"
)

// Reflector 把 ListWatcher 的运行集镜像进 DeltaFIFO：
// 启动时全量 List 一次，之后轮询 Watch，外加周期性的全量 resync 兜底。
type Reflector struct {
	name         string
	listWatcher  ListWatcher
	deltaFIFO    *DeltaFIFO
	version      string
	logger       *log.Logger
	stopCh       chan struct{}
	wg           sync.WaitGroup
	resyncPeriod time.Duration
}

func NewReflector(
	name string,
	listWatcher ListWatcher,
	deltaFIFO *DeltaFIFO,
	logger *log.Logger,
	resyncPeriod time.Duration,
) *Reflector {
	return &Reflector{
		name:         name,
		listWatcher:  listWatcher,
		deltaFIFO:    deltaFIFO,
		logger:       logger,
		stopCh:       make(chan struct{}),
		resyncPeriod: resyncPeriod,
	}
}

func (r *Reflector) Run(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.listAndWatch(ctx)
	}()
}

func (r *Reflector) Stop() {
	close(r.stopCh)
	r.wg.Wait()
}

func (r *Reflector) listAndWatch(ctx context.Context) {
	// 首次全量同步
	items, err := r.listWatcher.List(ctx)
	if err != nil {
		r.logger.Error("reflector list failed", zap.String("name", r.name), zap.Error(err))
		return
	}

	r.version = r.listWatcher.Version(items)
	r.logger.Info("reflector initial list completed", zap.String("name", r.name), zap.Int("count", len(items)))

	r.deltaFIFO.Replace(items)

	resyncTicker := time.NewTicker(r.resyncPeriod)
	defer resyncTicker.Stop()

	watchTicker := time.NewTicker(5 * time.Second)
	defer watchTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-resyncTicker.C:
			r.resync(ctx)
		case <-watchTicker.C:
			newVersion, items, err := r.listWatcher.Watch(ctx, r.version)
			if err != nil {
				r.logger.Error("reflector watch failed", zap.String("name", r.name), zap.Error(err))
				continue
			}

			if newVersion != r.version {
				r.version = newVersion
				r.deltaFIFO.Replace(items)
			}
		}
	}
}

func (r *Reflector) resync(ctx context.Context) {
	items, err := r.listWatcher.List(ctx)
	if err != nil {
		r.logger.Error("reflector resync list failed", zap.String("name", r.name), zap.Error(err))
		return
	}

	r.version = r.listWatcher.Version(items)
	r.deltaFIFO.Replace(items)
	r.logger.Debug("reflector resync completed", zap.String("name", r.name), zap.Int("count", len(items)))
}
