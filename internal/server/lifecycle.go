// Package server runs skirmish's long-lived work under a shared,
// signal-aware context.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a unit of work that runs until it is done or its context is
// cancelled.
type Service interface {
	Run(ctx context.Context) error
}

// FuncService adapts a function into the Service interface.
type FuncService func(ctx context.Context) error

// Run calls f.
func (f FuncService) Run(ctx context.Context) error { return f(ctx) }

// Lifecycle runs a set of named services concurrently.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
	expected []error
	mu       sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	if logger == nil {
		panic("server.NewLifecycle: logger must not be nil")
	}
	return &Lifecycle{logger: logger, expected: []error{context.Canceled}}
}

// ExpectStop registers errors that end a service normally, such as a player
// quitting. They still stop the other services and are returned from Run,
// but are logged at info level. context.Canceled is always expected.
func (l *Lifecycle) ExpectStop(errs ...error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expected = append(l.expected, errs...)
}

func (l *Lifecycle) isExpected(err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, target := range l.expected {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every service and waits for all of them to return. The shared
// context is cancelled on SIGINT or SIGTERM, when ctx is cancelled, or when
// any service fails.
//
// Postcondition: all services have returned; the result is the first
// service error, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for _, ns := range services {
		wg.Go(func() {
			l.logger.Info("starting service", zap.String("service", ns.name))
			svcStart := time.Now()
			if err := ns.service.Run(ctx); err != nil {
				log, msg := l.logger.Error, "service failed"
				if l.isExpected(err) {
					log, msg = l.logger.Info, "service stopped"
				}
				log(msg,
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				errOnce.Do(func() { firstErr = fmt.Errorf("service %s: %w", ns.name, err) })
				cancel()
				return
			}
			l.logger.Info("service finished",
				zap.String("service", ns.name),
				zap.Duration("uptime", time.Since(svcStart)),
			)
		})
	}
	wg.Wait()

	l.logger.Info("shutdown complete",
		zap.Int("count", len(services)),
		zap.Duration("total_uptime", time.Since(start)),
	)
	return firstErr
}
