package util

import (
	"sync"

	"github.com/owlhub/owlflow-jira/logger"
	"go.uber.org/zap"
)

// Worker runs handler for every item sent to it, one at a time, on a single
// goroutine.
type Worker[T any] struct {
	name     string
	stop     chan struct{}
	wg       *sync.WaitGroup
	handler  func(T) error
	itemChan chan T
}

func NewWorker[T any](name string, wg *sync.WaitGroup, handler func(T) error, capacity int) *Worker[T] {
	return &Worker[T]{
		itemChan: make(chan T, capacity),
		name:     name,
		wg:       wg,
		stop:     make(chan struct{}),
		handler:  handler,
	}
}

func (w *Worker[T]) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		for {
			select {
			case item := <-w.itemChan:
				if err := w.handler(item); err != nil {
					logger.Error("error in handling item in worker", zap.String("worker", w.name), zap.Error(err))
				}
			case <-w.stop:
				logger.Info("stopping worker", zap.String("worker", w.name))
				return
			}
		}
	}()
}

func (w *Worker[T]) Sender() chan<- T {
	return w.itemChan
}

// Stop signals the worker goroutine to exit. Items still queued are dropped.
func (w *Worker[T]) Stop() {
	close(w.stop)
}
