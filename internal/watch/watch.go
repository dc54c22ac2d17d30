// Package watch runs the long-lived service that keeps a campaign's computed
// timeline in sync with its campaign file.
package watch

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/caubebinhan/boembotiktok-sub000/internal/campaign"
	"github.com/caubebinhan/boembotiktok-sub000/internal/events"
	"github.com/caubebinhan/boembotiktok-sub000/internal/lock"
	"github.com/caubebinhan/boembotiktok-sub000/internal/schedule"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func parseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Options configures a Service.
type Options struct {
	CampaignPath string
	TimelinePath string
	LockPath     string // defaults to TimelinePath + ".lock"
	LogLevel     string
	DebounceMs   int // editor save storms collapse into one recompute
	Seed         int64
	Out          io.Writer
}

// Service watches one campaign file and recomputes its timeline on change.
// The current plan is held as an immutable value and swapped whole; readers
// never observe a half-updated schedule.
type Service struct {
	opts     Options
	logLevel LogLevel
	logger   *log.Logger

	fileLock *lock.FileLock
	watcher  *fsnotify.Watcher
	bus      *events.Bus
	group    singleflight.Group
	rng      *rand.Rand
	debounce time.Duration

	mu   sync.RWMutex
	plan schedule.Plan

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	shutdown sync.Once
}

// New creates a watch service for one campaign file.
func New(opts Options) *Service {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	if opts.LockPath == "" {
		opts.LockPath = opts.TimelinePath + ".lock"
	}
	debounce := time.Duration(opts.DebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		opts:     opts,
		logLevel: parseLogLevel(opts.LogLevel),
		logger:   log.New(opts.Out, "", 0),
		fileLock: lock.NewFileLock(opts.LockPath),
		bus:      events.NewBus(100),
		rng:      rand.New(rand.NewSource(seed)),
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Bus exposes the event bus so callers can observe recomputes.
func (s *Service) Bus() *events.Bus {
	return s.bus
}

// Plan returns the current plan value.
func (s *Service) Plan() schedule.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan
}

// Run starts the service and blocks until shutdown completes.
func (s *Service) Run() error {
	if err := s.fileLock.TryLock(); err != nil {
		return fmt.Errorf("watch lock: %w", err)
	}
	s.log(LogLevelInfo, "watch starting pid=%d campaign=%s", os.Getpid(), s.opts.CampaignPath)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.fileLock.Unlock()
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	s.watcher = watcher

	// Watch the directory: editors replace files by rename, which drops a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.opts.CampaignPath)); err != nil {
		s.cleanup()
		return fmt.Errorf("watch %s: %w", s.opts.CampaignPath, err)
	}

	if err := s.Recompute(); err != nil {
		s.cleanup()
		return fmt.Errorf("initial schedule: %w", err)
	}

	s.wg.Add(1)
	go s.fsnotifyLoop()
	s.log(LogLevelInfo, "watch ready")

	s.waitSignals()
	return nil
}

// fsnotifyLoop processes filesystem change events with debouncing.
func (s *Service) fsnotifyLoop() {
	defer s.wg.Done()

	var timer *time.Timer
	for {
		select {
		case <-s.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.opts.CampaignPath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.log(LogLevelDebug, "fsnotify event=%s file=%s", event.Op, event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.debounce, func() {
				if err := s.Recompute(); err != nil {
					s.log(LogLevelError, "recompute failed: %v", err)
				}
			})
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log(LogLevelError, "fsnotify error=%v", err)
		}
	}
}

// Recompute reloads the campaign, reallocates the timeline, and writes the
// handoff file. Concurrent triggers collapse into a single computation.
func (s *Service) Recompute() error {
	_, err, _ := s.group.Do("recompute", func() (any, error) {
		return nil, s.recompute()
	})
	return err
}

func (s *Service) recompute() error {
	c, err := campaign.Load(s.opts.CampaignPath)
	if err != nil {
		return err
	}

	now := time.Now()
	anchor := c.Schedule.Anchor(now)
	plan, err := schedule.NewPlan(c.Videos, c.Sources, c.Schedule, anchor, s.rng)
	if err != nil {
		return err
	}

	if err := campaign.WriteTimeline(s.opts.TimelinePath, c.Name, plan, now); err != nil {
		return err
	}

	s.mu.Lock()
	s.plan = plan
	s.mu.Unlock()

	s.bus.Publish(events.Event{
		Type: events.EventScheduleRecomputed,
		Data: map[string]interface{}{
			"campaign": c.Name,
			"items":    len(plan.Items),
			"anchor":   anchor,
		},
	})
	s.log(LogLevelInfo, "schedule recomputed campaign=%s items=%d anchor=%s",
		c.Name, len(plan.Items), anchor.Format("2006-01-02 15:04"))
	return nil
}

func (s *Service) waitSignals() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		s.log(LogLevelInfo, "received signal=%s, shutting down", sig)
	case <-s.ctx.Done():
	}
	s.Shutdown()
}

// Shutdown performs graceful shutdown (idempotent via sync.Once).
func (s *Service) Shutdown() {
	s.shutdown.Do(func() {
		s.cancel()
		if s.watcher != nil {
			s.watcher.Close()
		}
		s.wg.Wait()
		s.bus.Close()
		s.fileLock.Unlock()
		s.log(LogLevelInfo, "watch stopped")
	})
}

func (s *Service) cleanup() {
	if s.watcher != nil {
		s.watcher.Close()
	}
	s.fileLock.Unlock()
}

func (s *Service) log(level LogLevel, format string, args ...any) {
	if level < s.logLevel {
		return
	}
	levelStr := "INFO"
	switch level {
	case LogLevelDebug:
		levelStr = "DEBUG"
	case LogLevelWarn:
		levelStr = "WARN"
	case LogLevelError:
		levelStr = "ERROR"
	}
	msg := fmt.Sprintf(format, args...)
	s.logger.Printf("%s %s watch: %s", time.Now().Format(time.RFC3339), levelStr, msg)
}
