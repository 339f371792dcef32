package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/service/worker"
	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/crmdesk/agenda/pkg/utils/errutil"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const clearScreen = "\033[H\033[2J"

// screen serializes redraws coming from fetch commits, ticks and view edits
type screen struct {
	mu       sync.Mutex
	w        io.Writer
	view     usecase.ViewState
	status   string
	loc      *time.Location
	now      func() time.Time
	snapshot func(ch types.Channel) model.ChannelSnapshot
	clear    bool
}

func (s *screen) render(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clear {
		_, _ = io.WriteString(s.w, clearScreen)
	}
	renderPanel(s.w, panelTitle(s.view), s.snapshot(s.view.Channel()), now, s.loc)
	if s.status != "" {
		fmt.Fprintln(s.w, s.status)
	}
}

func (s *screen) current() usecase.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *screen) shows(ch types.Channel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Channel() == ch
}

func (s *screen) update(view usecase.ViewState, status string) {
	s.mu.Lock()
	s.view = view
	s.status = status
	s.mu.Unlock()
}

// readEdits applies lines from r to the screen's view until r ends or ctx is
// done. View edits go through the debounced loader so fast typing issues one
// fetch.
func readEdits(ctx context.Context, r io.Reader, scr *screen, panel *usecase.PanelUseCase, refresh func(), quit func()) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		view, action, err := applyEdit(scr.current(), scanner.Text())
		switch {
		case err != nil:
			scr.update(view, err.Error()+"; "+editHelp)
			scr.render(scr.now())
		case action == editView:
			scr.update(view, "")
			scr.render(scr.now())
			panel.ScheduleLoad(ctx, view)
		case action == editRefresh:
			refresh()
		case action == editQuit:
			quit()
			return
		}
	}
}

func cmdWatch() *cli.Command {
	var cfg agendaConfig
	var viewCfg viewFlags
	var refresh time.Duration
	var noClear bool
	var interactive bool

	flags := append(cfg.Flags(), viewCfg.Flags()...)
	flags = append(flags,
		&cli.DurationFlag{
			Name:        "refresh",
			Usage:       "Interval between refetches; labels update on their own tick",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("AGENDA_REFRESH"),
			Destination: &refresh,
		},
		&cli.BoolFlag{
			Name:        "no-clear",
			Usage:       "Append redraws instead of clearing the terminal",
			Destination: &noClear,
		},
		&cli.BoolFlag{
			Name:        "interactive",
			Aliases:     []string{"i"},
			Usage:       "Read view edits from stdin (mode, user, scope, kind, r, q)",
			Destination: &interactive,
		},
	)

	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Show a live panel with relative times kept current",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if refresh < time.Minute {
				return goerr.New("--refresh must be at least 1m", goerr.V("refresh", refresh.String()))
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			var scr *screen
			onCommit := func(snap model.ChannelSnapshot) {
				if scr != nil && scr.shows(snap.Channel) {
					scr.render(scr.now())
				}
			}

			uc, settings, err := cfg.Configure(usecase.WithOrchestratorOptions(usecase.WithCommitHook(onCommit)))
			if err != nil {
				return err
			}
			defer uc.Close()

			view, err := viewCfg.view(settings)
			if err != nil {
				return err
			}

			scr = &screen{
				w:        os.Stdout,
				view:     view,
				loc:      settings.Location,
				now:      uc.Now,
				snapshot: uc.Orchestrator.Snapshot,
				clear:    !noClear,
			}

			ticker := worker.NewRelativeTimeTicker(scr.render, settings.TickInterval, worker.WithTickerClock(uc.Now))
			if err := ticker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start ticker")
			}
			defer ticker.Stop()

			load := func(force bool) {
				run := uc.Panel.Load
				if force {
					run = uc.Panel.Refresh
				}
				// failures are shown inline; keep watching
				if _, _, err := run(ctx, scr.current()); err != nil && ctx.Err() == nil {
					_ = errutil.Handle(ctx, err, "failed to load panel")
				}
			}
			load(false)

			refreshNow := make(chan struct{}, 1)
			if interactive {
				go readEdits(ctx, os.Stdin, scr, uc.Panel,
					func() {
						select {
						case refreshNow <- struct{}{}:
						default:
						}
					},
					stop,
				)
			}

			refreshTicker := time.NewTicker(refresh)
			defer refreshTicker.Stop()

			for {
				select {
				case <-ctx.Done():
					logging.Default().Info("watch stopped")
					return nil
				case <-refreshTicker.C:
					load(true)
				case <-refreshNow:
					load(true)
				}
			}
		},
	}
}
