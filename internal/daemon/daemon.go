// Package daemon wires the vault, the task store, the scanner and the
// sync coordinator together and runs them as a single long-lived
// process.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/sourcegraph/conc/pool"

	"github.com/taskvault/taskvault/internal/config"
	"github.com/taskvault/taskvault/internal/event"
	"github.com/taskvault/taskvault/internal/scan"
	"github.com/taskvault/taskvault/internal/settings"
	syncpkg "github.com/taskvault/taskvault/internal/sync"
	"github.com/taskvault/taskvault/internal/task"
	"github.com/taskvault/taskvault/internal/vault"
	"github.com/taskvault/taskvault/pkg/clog"
	"github.com/taskvault/taskvault/pkg/panicerr"
)

// Daemon owns every component of the running process.
type Daemon struct {
	env *config.Env

	vault       *vault.Local
	bus         *event.Bus
	store       *task.Store
	taskRepo    *task.YAMLRepository
	settings    *settings.Manager
	locations   *scan.LocationMap
	locRepo     *scan.YAMLLocationRepository
	scanner     *scan.Scanner
	coordinator *syncpkg.Coordinator
	watcher     *vault.Watcher
}

// New builds the full component graph and loads persisted state from
// the data directory. Nothing is started yet.
func New(env *config.Env) (*Daemon, error) {
	v, err := vault.NewLocal(env.VaultDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}

	settingsRepo := settings.NewYAMLRepository(filepath.Join(env.DataDir, "settings.yaml"))
	s, err := settingsRepo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	mgr := settings.NewManager(s, settingsRepo)

	store := task.NewStore()
	taskRepo := task.NewYAMLRepository(filepath.Join(env.DataDir, "tasks.yaml"))
	if err := taskRepo.Load(store); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	locations := scan.NewLocationMap()
	locRepo := scan.NewYAMLLocationRepository(filepath.Join(env.DataDir, "locations.yaml"))
	if err := locRepo.Load(locations); err != nil {
		return nil, fmt.Errorf("failed to load task locations: %w", err)
	}

	bus := event.New()
	d := &Daemon{
		env:         env,
		vault:       v,
		bus:         bus,
		store:       store,
		taskRepo:    taskRepo,
		settings:    mgr,
		locations:   locations,
		locRepo:     locRepo,
		scanner:     scan.NewScanner(v, store, mgr, locations),
		coordinator: syncpkg.NewCoordinator(v, store, mgr),
		watcher:     vault.NewWatcher(v, bus),
	}
	return d, nil
}

// Start runs the daemon until ctx is cancelled. Startup order matters:
// documents are read into the store before the store starts writing
// documents back out.
func (d *Daemon) Start(ctx context.Context) error {
	for _, id := range d.projectIDs() {
		d.coordinator.InitialSync(ctx, id)
	}

	if n, err := d.scanner.ScanAllNotes(ctx); err != nil {
		slog.WarnContext(ctx, "initial note scan failed", "error", err)
	} else if n > 0 {
		slog.InfoContext(ctx, "initial note scan finished", "tasks", n)
	}

	d.coordinator.Attach()

	subID, events := d.bus.Subscribe(256)
	defer d.bus.Unsubscribe(subID)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(panicerr.SafeContext(d.watcher.Run))
	p.Go(panicerr.SafeContext(func(ctx context.Context) error {
		return d.consume(ctx, events)
	}))

	err := p.Wait()
	d.shutdown()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// consume routes vault events: documents under a project's Tasks folder
// feed the sync coordinator, every other markdown file feeds the
// daily-note scanner.
func (d *Daemon) consume(ctx context.Context, events <-chan event.Event) error {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			d.route(ctx, ev)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (d *Daemon) route(ctx context.Context, ev event.Event) {
	ctx = clog.ContextWithSlog(ctx)
	clog.AddAttribute(ctx, "file", ev.Path)
	slog.DebugContext(ctx, "vault event", "type", ev.Type.String())

	if d.coordinator.IsTaskDocument(ev.Path) {
		switch ev.Type {
		case event.FileCreated, event.FileModified:
			d.coordinator.SyncMarkdownToTask(ctx, ev.Path)
		}
		return
	}

	switch ev.Type {
	case event.FileCreated, event.FileModified:
		d.scanner.ScheduleScan(ev.Path)
	case event.FileDeleted, event.FileRenamed:
		// Tasks minted from the note keep living in the store; their
		// recorded locations are pruned on the next scan of the path.
	}
}

// ScanOnce runs a one-shot scan of every allowed note, for CLI use.
func (d *Daemon) ScanOnce(ctx context.Context) (int, error) {
	n, err := d.scanner.ScanAllNotes(ctx)
	d.persist()
	return n, err
}

// SyncOnce runs a one-shot bidirectional sync of every project.
func (d *Daemon) SyncOnce(ctx context.Context) {
	for _, id := range d.projectIDs() {
		d.coordinator.InitialSync(ctx, id)
	}
	for _, t := range d.store.GetAll() {
		d.coordinator.SyncTaskToMarkdown(ctx, t)
	}
	d.persist()
}

func (d *Daemon) projectIDs() []string {
	var ids []string
	d.settings.Snapshot(func(s *settings.Settings) {
		for _, p := range s.Projects {
			ids = append(ids, p.ID)
		}
	})
	return ids
}

// Store exposes the task store for CLI commands.
func (d *Daemon) Store() *task.Store { return d.store }

// Settings exposes the settings manager for CLI commands.
func (d *Daemon) Settings() *settings.Manager { return d.settings }

func (d *Daemon) shutdown() {
	d.scanner.CancelPending()
	d.persist()
	slog.Info("daemon stopped")
}

func (d *Daemon) persist() {
	if err := d.taskRepo.Save(d.store); err != nil {
		slog.Warn("failed to save tasks", "error", err)
	}
	if err := d.locRepo.Save(d.locations); err != nil {
		slog.Warn("failed to save task locations", "error", err)
	}
	d.settings.Save()
}
