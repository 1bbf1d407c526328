package promotion

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

// DefaultSchedule checks promotions every morning
const DefaultSchedule = "0 8 * * *"

// Checker answers whether a model currently has a promotion
type Checker interface {
	CheckPromotions(ctx context.Context, model string) (bool, error)
}

// Watcher periodically checks a list of models and notifies when a promotion appears
// A model is notified again only after its promotion has ended and reappeared
type Watcher struct {
	Checker  Checker
	Notifier domain.Notifier
	Models   []string
	Schedule string
	Log      *logrus.Logger

	mu     sync.Mutex
	active map[string]bool
	cron   *cron.Cron
}

// NewWatcher creates a new Watcher instance
func NewWatcher(checker Checker, notifier domain.Notifier, models []string, log *logrus.Logger) *Watcher {
	return &Watcher{
		Checker:  checker,
		Notifier: notifier,
		Models:   models,
		Schedule: DefaultSchedule,
		Log:      log,
		active:   make(map[string]bool),
	}
}

// Start registers the check on the cron schedule and starts the scheduler
func (w *Watcher) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(w.Schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid promotion schedule %q: %w", w.Schedule, err)
	}
	c.Start()

	w.mu.Lock()
	w.cron = c
	w.mu.Unlock()

	w.Log.WithFields(logrus.Fields{
		"schedule": w.Schedule,
		"models":   w.Models,
	}).Info("Promotion watcher started")
	return nil
}

// Stop stops the scheduler and waits for a running check to finish
func (w *Watcher) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// RunOnce checks every model and returns those that were notified
func (w *Watcher) RunOnce(ctx context.Context) []string {
	var notified []string

	for _, model := range w.Models {
		found, err := w.Checker.CheckPromotions(ctx, model)
		if err != nil {
			w.Log.WithField("model", model).WithError(err).Warn("Promotion check failed")
			continue
		}

		if !w.transition(model, found) {
			continue
		}

		if err := w.Notifier.NotifyPromotion(ctx, model); err != nil {
			w.Log.WithField("model", model).WithError(err).Error("Failed to send promotion alert")
			// Retry on the next run
			w.setActive(model, false)
			continue
		}
		notified = append(notified, model)
	}

	return notified
}

// transition records the promotion state and reports a not-active to active change
func (w *Watcher) transition(model string, found bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	was := w.active[model]
	w.active[model] = found
	return found && !was
}

func (w *Watcher) setActive(model string, active bool) {
	w.mu.Lock()
	w.active[model] = active
	w.mu.Unlock()
}
