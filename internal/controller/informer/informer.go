package informer

import (
	"context"
	"sync"
	"time"

	"vmxsphere/pkg/log"

	"go.uber.org/zap"
)

type Informer interface {
	Run(ctx context.Context)
	Stop()
	AddEventHandler(handler EventHandler)
	HasSynced() bool
	GetStore() Store
}

type informer struct {
	name      string
	reflector *Reflector
	deltaFIFO *DeltaFIFO
	handlers  []EventHandler
	logger    *log.Logger
	stopCh    chan struct{}
	wg        sync.WaitGroup
	store     Store
}

func NewInformer(
	name string,
	listWatcher ListWatcher,
	logger *log.Logger,
	resyncPeriod time.Duration,
) Informer {
	store := NewThreadSafeStore()
	deltaFIFO := NewDeltaFIFO(store)
	reflector := NewReflector(name, listWatcher, deltaFIFO, logger, resyncPeriod)

	return &informer{
		name:      name,
		reflector: reflector,
		deltaFIFO: deltaFIFO,
		handlers:  make([]EventHandler, 0),
		logger:    logger,
		stopCh:    make(chan struct{}),
		store:     store,
	}
}

func (i *informer) Run(ctx context.Context) {
	i.reflector.Run(ctx)

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		i.processLoop(ctx)
	}()
}

func (i *informer) Stop() {
	close(i.stopCh)
	i.reflector.Stop()
	i.wg.Wait()
}

func (i *informer) AddEventHandler(handler EventHandler) {
	i.handlers = append(i.handlers, handler)
}

func (i *informer) HasSynced() bool {
	return i.deltaFIFO.HasSynced()
}

func (i *informer) GetStore() Store {
	return i.store
}

func (i *informer) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-i.stopCh:
			return
		default:
			err := i.deltaFIFO.Pop(func(delta Delta) error {
				return i.processDelta(delta)
			})
			if err != nil {
				i.logger.Error("process delta failed", zap.String("name", i.name), zap.Error(err))
			}
			// 避免 CPU 占用过高
			time.Sleep(100 * time.Millisecond)
		}
	}
}

func (i *informer) processDelta(delta Delta) error {
	for _, handler := range i.handlers {
		var err error
		switch delta.Type {
		case DeltaAdded:
			err = handler.OnAdd(delta.VM)
		case DeltaUpdated:
			if delta.Prev != nil {
				err = handler.OnUpdate(delta.Prev, delta.VM)
			} else {
				err = handler.OnAdd(delta.VM)
			}
		case DeltaDeleted:
			err = handler.OnDelete(delta.VM)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
