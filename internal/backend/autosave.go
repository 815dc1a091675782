package backend

import (
	"context"
	"sync"
	"time"

	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/pkg/logger"
)

// DefaultSaveDelay is how long an auto-save waits after the last edit
const DefaultSaveDelay = 1500 * time.Millisecond

// Notifier receives auto-save lifecycle events. The engine never blocks
// on a notifier; implementations should return quickly.
type Notifier interface {
	Saving(sheet cells.Sheet)
	Saved(sheet cells.Sheet, result *SaveResult)
	SaveFailed(sheet cells.Sheet, err error)
}

// Collector reads the settled field values of one sheet at save time
type Collector func(sheet cells.Sheet) map[string]cells.Value

// AutoSaver debounces sheet saves: each edit schedules a save and
// cancels the pending one for the same sheet, so a burst of typing
// turns into a single request per sheet once the auditor pauses.
type AutoSaver struct {
	mu       sync.Mutex
	timers   map[cells.Sheet]*time.Timer
	delay    time.Duration
	client   *Client
	collect  Collector
	notifier Notifier
	timeout  time.Duration
	logger   logger.Logger
}

// NewAutoSaver creates an auto-saver over the given client. A zero
// delay means DefaultSaveDelay.
func NewAutoSaver(client *Client, collect Collector, notifier Notifier, delay time.Duration) *AutoSaver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &AutoSaver{
		timers:   make(map[cells.Sheet]*time.Timer),
		delay:    delay,
		client:   client,
		collect:  collect,
		notifier: notifier,
		timeout:  10 * time.Second,
		logger:   logger.GetGlobalLogger().WithComponent("autosave"),
	}
}

// Schedule queues a save of the sheet after the debounce delay. A
// pending save for the same sheet is cancelled and replaced; a save
// already in flight is never cancelled.
func (a *AutoSaver) Schedule(sheet cells.Sheet) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if timer, ok := a.timers[sheet]; ok {
		timer.Stop()
	}
	a.timers[sheet] = time.AfterFunc(a.delay, func() {
		a.fire(sheet)
	})
}

// Stop cancels every pending save. In-flight saves finish on their own.
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for sheet, timer := range a.timers {
		timer.Stop()
		delete(a.timers, sheet)
	}
}

func (a *AutoSaver) fire(sheet cells.Sheet) {
	a.mu.Lock()
	delete(a.timers, sheet)
	a.mu.Unlock()

	if a.notifier != nil {
		a.notifier.Saving(sheet)
	}

	fields := a.collect(sheet)

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	result, err := a.client.SaveSheet(ctx, sheet, fields)
	if err != nil {
		a.logger.WithError(err).WithField("sheet", sheet).Error("Auto-save failed")
		if a.notifier != nil {
			a.notifier.SaveFailed(sheet, err)
		}
		return
	}

	if a.notifier != nil {
		a.notifier.Saved(sheet, result)
	}
}
