package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// RemoteStore is the remote document side of the bridge, one document per
// user per store type.
type RemoteStore interface {
	Save(ctx context.Context, userID, storeType string, snapshot []byte) error
	Load(ctx context.Context, userID, storeType string) (data []byte, found bool, err error)
}

// ObservedStore is a local store the bridge mirrors: it can be snapshotted,
// restored wholesale, and announces every mutation.
type ObservedStore interface {
	Snapshot(userID string) ([]byte, error)
	Restore(userID string, data []byte) error
	Subscribe(fn func(userID string))
}

// Bridge mirrors local store snapshots into the remote document store.
// Mutations are debounced per user per store with a restarting timer, so a
// burst of edits lands remotely as one write. Remote failures are logged and
// swallowed; local persistence stays the source of truth for the running
// process. Last write wins, single device assumed.
type Bridge struct {
	remote   RemoteStore
	debounce time.Duration
	metrics  *metrics.Manager

	mu      sync.Mutex
	stores  map[string]ObservedStore
	names   []string
	timers  map[string]*time.Timer
	stopped bool
}

func NewBridge(remote RemoteStore, debounce time.Duration, metricsManager *metrics.Manager) *Bridge {
	return &Bridge{
		remote:   remote,
		debounce: debounce,
		metrics:  metricsManager,
		stores:   map[string]ObservedStore{},
		timers:   map[string]*time.Timer{},
	}
}

// Watch registers a store under its document name and subscribes to its
// mutations. Call for all stores before serving traffic.
func (b *Bridge) Watch(storeName string, store ObservedStore) {
	b.mu.Lock()
	b.stores[storeName] = store
	b.names = append(b.names, storeName)
	b.mu.Unlock()

	store.Subscribe(func(userID string) {
		b.schedule(userID, storeName)
	})
}

func timerKey(userID, storeName string) string {
	return userID + "||" + storeName
}

// schedule (re)starts the debounce timer for one user and store. Every new
// mutation within the window pushes the write further out.
func (b *Bridge) schedule(userID, storeName string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}

	key := timerKey(userID, storeName)
	if timer, ok := b.timers[key]; ok {
		timer.Stop()
	}
	b.timers[key] = time.AfterFunc(b.debounce, func() {
		b.mu.Lock()
		delete(b.timers, key)
		b.mu.Unlock()

		if err := b.saveSnapshot(context.Background(), userID, storeName); err != nil {
			log.Errorf("sync bridge: save %s snapshot for user [%s]: %s", storeName, userID, err)
		}
	})
}

func (b *Bridge) saveSnapshot(ctx context.Context, userID, storeName string) error {
	b.mu.Lock()
	store, ok := b.stores[storeName]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown store %q", storeName)
	}

	b.metrics.CounterSyncSaves.Inc()

	snapshot, err := store.Snapshot(userID)
	if err != nil {
		b.metrics.CounterSyncSaveFailures.Inc()
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := b.remote.Save(ctx, userID, storeName, snapshot); err != nil {
		b.metrics.CounterSyncSaveFailures.Inc()
		return fmt.Errorf("remote save: %w", err)
	}

	log.Tracef("sync bridge: %s snapshot saved for user [%s]", storeName, userID)
	return nil
}

// OnSignIn loads the remote snapshots and installs them wholesale into the
// local stores. Remote is authoritative here, no field merging. Failures are
// logged and swallowed, a broken remote must not block a login.
func (b *Bridge) OnSignIn(ctx context.Context, userID string) {
	b.mu.Lock()
	names := append([]string{}, b.names...)
	b.mu.Unlock()

	for _, storeName := range names {
		b.metrics.CounterSyncLoads.Inc()

		data, found, err := b.remote.Load(ctx, userID, storeName)
		if err != nil {
			b.metrics.CounterSyncLoadFailures.Inc()
			log.Errorf("sync bridge: load %s snapshot for user [%s]: %s", storeName, userID, err)
			continue
		}
		if !found {
			log.Debugf("sync bridge: no remote %s snapshot for user [%s]", storeName, userID)
			continue
		}

		b.mu.Lock()
		store := b.stores[storeName]
		b.mu.Unlock()
		if err := store.Restore(userID, data); err != nil {
			b.metrics.CounterSyncLoadFailures.Inc()
			log.Errorf("sync bridge: restore %s snapshot for user [%s]: %s", storeName, userID, err)
			continue
		}

		log.Debugf("sync bridge: %s snapshot restored for user [%s]", storeName, userID)
	}
}

// OnSignOut cancels the user's pending timers and flushes both snapshots
// once, synchronously, so nothing written in the final debounce window is
// lost. Best effort; failures are logged and swallowed.
func (b *Bridge) OnSignOut(ctx context.Context, userID string) {
	b.mu.Lock()
	for _, storeName := range b.names {
		key := timerKey(userID, storeName)
		if timer, ok := b.timers[key]; ok {
			timer.Stop()
			delete(b.timers, key)
		}
	}
	names := append([]string{}, b.names...)
	b.mu.Unlock()

	var flushErr error
	for _, storeName := range names {
		if err := b.saveSnapshot(ctx, userID, storeName); err != nil {
			flushErr = multierr.Append(flushErr, fmt.Errorf("%s: %w", storeName, err))
		}
	}
	if flushErr != nil {
		log.Errorf("sync bridge: sign-out flush for user [%s]: %s", userID, flushErr)
	}
}

// Stop cancels all pending timers. Used at shutdown; no final flush, the
// local snapshots hold everything anyway.
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	for key, timer := range b.timers {
		timer.Stop()
		delete(b.timers, key)
	}
}
