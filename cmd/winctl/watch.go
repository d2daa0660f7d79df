package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/MethodicalGamesInc/tauri/config"
	"github.com/MethodicalGamesInc/tauri/event"
	"github.com/MethodicalGamesInc/tauri/window"
)

// maxWatchLines bounds the scrollback kept in memory.
const maxWatchLines = 256

// cmdWatch subscribes to a set of event names and renders deliveries on a
// terminal screen until q, Escape, Ctrl-C or a signal.
func cmdWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger, names []string) int {
	s, err := connect(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer s.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize screen: %v\n", err)
		return 1
	}
	fini := sync.OnceFunc(screen.Fini)
	defer fini()

	ui := &watchUI{screen: screen}

	for _, name := range watchNames(names) {
		_, err := s.bus.Listen(ctx, name, func(ctx context.Context, ev event.Event) error {
			ui.append(ev)
			return nil
		})
		if err != nil {
			fini()
			fmt.Fprintf(os.Stderr, "Error: listening to %q: %v\n", name, err)
			return 1
		}
	}

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
				ui.redraw()
			}
		}
	}()

	ui.redraw()

	select {
	case <-ctx.Done():
	case <-quit:
	}
	ui.stop()
	fini()
	<-quit
	return 0
}

// watchNames merges the window lifecycle events with any names the user
// asked for. Close requests are left out of the defaults: a subscription on
// that name makes the host wait for a client decision.
func watchNames(args []string) []string {
	names := []string{
		window.EventWindowCreated,
		window.EventDestroyed,
		window.EventFocus,
		window.EventBlur,
		window.EventResized,
		window.EventMoved,
	}
	seen := make(map[string]struct{}, len(names)+len(args))
	for _, name := range names {
		seen[name] = struct{}{}
	}
	for _, name := range args {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// watchUI keeps a bounded scrollback and renders its tail under a fixed
// header. Deliveries arrive on the bridge's dispatch goroutine while key
// handling runs on its own, so the mutex covers both the line buffer and
// drawing.
type watchUI struct {
	screen tcell.Screen

	mu     sync.Mutex
	lines  []string
	closed bool
}

// stop blocks further drawing. Called before Fini so a late delivery cannot
// touch a finished screen.
func (u *watchUI) stop() {
	u.mu.Lock()
	u.closed = true
	u.mu.Unlock()
}

func (u *watchUI) append(ev event.Event) {
	payload := string(ev.Payload)
	if len(payload) > 120 {
		payload = payload[:117] + "..."
	}
	line := fmt.Sprintf("  %s  %-28s %-12s %s",
		time.Now().Format("15:04:05"), ev.Name, ev.WindowLabel, payload)

	u.mu.Lock()
	defer u.mu.Unlock()
	u.lines = append(u.lines, line)
	if len(u.lines) > maxWatchLines {
		u.lines = u.lines[len(u.lines)-maxWatchLines:]
	}
	u.draw()
}

func (u *watchUI) redraw() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.draw()
}

func (u *watchUI) draw() {
	if u.closed {
		return
	}
	width, height := u.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}
	u.screen.Clear()

	header := fmt.Sprintf("  %-8s  %-28s %-12s %s", "time", "event", "window", "payload")
	putLine(u.screen, 0, width, header, tcell.StyleDefault.Reverse(true))

	rows := height - 1
	start := 0
	if len(u.lines) > rows {
		start = len(u.lines) - rows
	}
	for i, line := range u.lines[start:] {
		putLine(u.screen, i+1, width, line, tcell.StyleDefault)
	}
	u.screen.Show()
}

func putLine(s tcell.Screen, y, width int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		if col >= width {
			break
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		s.SetContent(col, y, ' ', nil, style)
	}
}
