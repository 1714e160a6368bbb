// Package main runs the watch panel against a scripted in-memory debuggee.
// It is a demonstration host: key dispatch, prompting and persistence live
// here, while the watch semantics live in internal/watch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/pcullen/watchpanel/internal/config"
	"github.com/pcullen/watchpanel/internal/dap"
	"github.com/pcullen/watchpanel/internal/format"
	"github.com/pcullen/watchpanel/internal/panel"
	"github.com/pcullen/watchpanel/internal/persist"
	"github.com/pcullen/watchpanel/internal/session"
	"github.com/pcullen/watchpanel/internal/watch"
	"github.com/pcullen/watchpanel/internal/watch/rows"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var showVersion bool
	flag.StringVar(&configPath, "config", "watchdemo.toml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "watchdemo.toml", "Path to configuration file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("watchdemo %s\n", version)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("config: %v (using defaults)", err)
	}

	h, err := newHost(configPath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer h.close()

	if err := h.loop(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// statusLine is the host's Notifier; messages land on the bottom line.
type statusLine struct {
	mu   sync.Mutex
	text string
	err  bool
}

func (s *statusLine) Info(msg string) {
	s.mu.Lock()
	s.text, s.err = msg, false
	s.mu.Unlock()
}

func (s *statusLine) Error(msg string) {
	s.mu.Lock()
	s.text, s.err = msg, true
	s.mu.Unlock()
}

func (s *statusLine) get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.err
}

type host struct {
	ctx       context.Context
	cfg       config.Config
	screen    tcell.Screen
	panel     *panel.Panel
	program   *demoProgram
	session   *session.Session
	store     *watch.Store
	status    *statusLine
	formatter format.Formatter
	luaFmt    *format.LuaFormatter
	watcher   *config.Watcher
}

func newHost(configPath string, cfg config.Config) (*host, error) {
	h := &host{
		ctx:     context.Background(),
		cfg:     cfg,
		program: newDemoProgram(),
		status:  &statusLine{},
	}

	h.session = session.New(h.program, dap.Capabilities{
		SupportsSetExpression: true,
		SupportsSetVariable:   true,
	})
	h.store = watch.NewStore(h.session, watch.WithNotifier(h.status))
	if cfg.Watch.RefreshOnStop {
		h.store.Bind(h.ctx, h.session)
	} else {
		h.session.SetHandlers(session.Handlers{
			OnFrameChanged: func(frame session.FrameRef) {
				h.store.HandleFrameChanged(h.ctx, frame)
			},
		})
	}

	if err := h.loadFormatter(cfg); err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	h.screen = screen
	h.panel = panel.New(screen, cfg.Panel)

	// The scripted debuggee starts at its first stop.
	h.session.HandleStopped(dap.StoppedEventBody{Reason: "entry"})
	h.session.SelectFrame(session.Frame(1))

	h.restoreWatches()

	// Live config reload; changes arrive in the event loop as interrupts.
	watcher, err := config.NewWatcher(configPath,
		func(c config.Config) { screen.PostEvent(tcell.NewEventInterrupt(c)) },
		func(err error) { h.status.Error(err.Error()) },
	)
	if err != nil {
		h.status.Error("config reload unavailable: " + err.Error())
	} else {
		h.watcher = watcher
	}

	return h, nil
}

func (h *host) loadFormatter(cfg config.Config) error {
	if h.luaFmt != nil {
		h.luaFmt.Close()
		h.luaFmt = nil
	}
	if cfg.Format.Script == "" {
		h.formatter = format.Raw()
		return nil
	}
	f, err := format.NewLuaFormatterFile(cfg.Format.Script)
	if err != nil {
		return fmt.Errorf("loading formatter script: %w", err)
	}
	h.luaFmt = f
	h.formatter = f
	return nil
}

func (h *host) restoreWatches() {
	if h.cfg.Persist.Path == "" {
		return
	}
	saved, err := persist.Load(h.cfg.Persist.Path)
	if err != nil {
		h.status.Error("restoring watches: " + err.Error())
		return
	}
	for _, w := range saved {
		if err := h.store.Add(h.ctx, w.Text, w.Expanded, h.cfg.Position()); err != nil {
			h.status.Error(err.Error())
		}
	}
}

func (h *host) close() {
	if h.watcher != nil {
		h.watcher.Close()
	}
	if h.luaFmt != nil {
		h.luaFmt.Close()
	}
	if h.screen != nil {
		h.screen.Fini()
	}
}

func (h *host) loop() error {
	h.status.Info("a:add  e:edit  d:delete  =:set  c:copy  enter:expand  n:step  q:quit")

	for {
		rs := h.render()

		switch ev := h.screen.PollEvent().(type) {
		case *tcell.EventResize:
			h.screen.Sync()

		case *tcell.EventInterrupt:
			if c, ok := ev.Data().(config.Config); ok {
				h.applyConfig(c)
			}

		case *tcell.EventKey:
			if done := h.handleKey(ev, rs); done {
				return h.saveWatches()
			}
		}
	}
}

func (h *host) applyConfig(c config.Config) {
	h.cfg = c
	h.panel.SetConfig(c.Panel)
	if err := h.loadFormatter(c); err != nil {
		h.status.Error(err.Error())
		return
	}
	h.status.Info("configuration reloaded")
}

// handleKey dispatches one key event; it returns true when the host should
// exit.
func (h *host) handleKey(ev *tcell.EventKey, rs []rows.Row) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		h.panel.MoveCursor(-1)
		return false
	case tcell.KeyDown:
		h.panel.MoveCursor(1)
		return false
	case tcell.KeyEnter:
		h.toggleExpand(rs)
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'k':
		h.panel.MoveCursor(-1)
	case 'j':
		h.panel.MoveCursor(1)
	case ' ':
		h.toggleExpand(rs)
	case 'n', 's':
		h.stepProgram()
	case 'r':
		h.store.RefreshAll(h.ctx)
	case 'a':
		h.addWatch()
	case 'd':
		h.removeWatch(rs)
	case 'e':
		h.editWatch(rs)
	case '=':
		h.setValue(rs)
	case 'c':
		h.copyRow(rs)
	}
	return false
}

func (h *host) stepProgram() {
	h.program.Step()
	h.session.HandleStopped(dap.StoppedEventBody{Reason: "step"})
	h.status.Info("stepped")
}

func (h *host) toggleExpand(rs []rows.Row) {
	row, ok := h.panel.CursorRow(rs)
	if !ok {
		return
	}
	var err error
	switch {
	case row.Expr != nil:
		if row.Expr.Expanded {
			err = h.store.CollapseExpression(row.Expr.Text)
		} else {
			err = h.store.ExpandExpression(h.ctx, row.Expr.Text)
		}
	case row.Node != nil:
		if row.Node.Expanded {
			h.store.CollapseNode(row.Node)
		} else {
			err = h.store.ExpandNode(h.ctx, row.Node)
		}
	}
	if err != nil {
		h.status.Error(err.Error())
	}
}

func (h *host) addWatch() {
	text, ok := h.prompt("watch: ", "")
	if !ok {
		return
	}
	if err := h.store.Add(h.ctx, text, h.cfg.Watch.DefaultExpanded, h.cfg.Position()); err != nil {
		h.status.Error(err.Error())
		return
	}
	h.status.Info("added " + text)
}

func (h *host) removeWatch(rs []rows.Row) {
	row, ok := h.panel.CursorRow(rs)
	if !ok || row.Expr == nil {
		h.status.Error("select a watch expression row to delete")
		return
	}
	if err := h.store.Remove(row.Expr.Text); err != nil {
		h.status.Error(err.Error())
		return
	}
	h.status.Info("removed " + row.Expr.Text)
}

func (h *host) editWatch(rs []rows.Row) {
	row, ok := h.panel.CursorRow(rs)
	if !ok || row.Expr == nil {
		h.status.Error("select a watch expression row to edit")
		return
	}
	text, ok := h.prompt("edit: ", row.Expr.Text)
	if !ok {
		return
	}
	if err := h.store.Edit(h.ctx, row.Expr.Text, text); err != nil {
		h.status.Error(err.Error())
	}
}

func (h *host) setValue(rs []rows.Row) {
	row, ok := h.panel.CursorRow(rs)
	if !ok {
		return
	}
	value, ok := h.prompt("value: ", "")
	if !ok {
		return
	}
	var err error
	switch {
	case row.Expr != nil:
		err = h.store.SetExpressionValue(h.ctx, row.Expr.Text, value)
	case row.Node != nil:
		err = h.store.SetVariableValue(h.ctx, row.ParentRef, row.Node.Name, value)
	}
	if err != nil {
		h.status.Error(err.Error())
	}
}

func (h *host) copyRow(rs []rows.Row) {
	row, ok := h.panel.CursorRow(rs)
	if !ok {
		return
	}
	text, err := row.CopyText()
	if err != nil {
		h.status.Error(err.Error())
		return
	}
	h.status.Info("copied " + text)
}

func (h *host) saveWatches() error {
	if h.cfg.Persist.Path == "" {
		return nil
	}
	if err := persist.Save(h.cfg.Persist.Path, persist.Snapshot(h.store)); err != nil {
		return fmt.Errorf("saving watches: %w", err)
	}
	return nil
}

// render rebuilds the row projection and draws the panel plus status line.
func (h *host) render() []rows.Row {
	rs := rows.Build(h.store, h.formatter)

	w, height := h.screen.Size()
	h.panel.SetRegion(0, 0, w, height-1)
	h.panel.Render(rs)

	h.drawStatus(w, height-1)
	h.screen.Show()
	return rs
}

func (h *host) drawStatus(width, y int) {
	msg, isErr := h.status.get()
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	if isErr {
		style = tcell.StyleDefault.Foreground(tcell.ColorRed)
	}
	x := 0
	for _, r := range msg {
		if x >= width {
			break
		}
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		h.screen.SetContent(x, y, ' ', nil, style)
	}
}

// prompt reads a line of input on the status row. Returns false when the
// user cancels with Escape.
func (h *host) prompt(label, initial string) (string, bool) {
	input := []rune(initial)
	w, height := h.screen.Size()
	y := height - 1
	style := tcell.StyleDefault

	for {
		x := 0
		for _, r := range label + string(input) {
			if x >= w {
				break
			}
			h.screen.SetContent(x, y, r, nil, style)
			x++
		}
		for cx := x; cx < w; cx++ {
			h.screen.SetContent(cx, y, ' ', nil, style)
		}
		h.screen.ShowCursor(x, y)
		h.screen.Show()

		ev, ok := h.screen.PollEvent().(*tcell.EventKey)
		if !ok {
			continue
		}
		switch ev.Key() {
		case tcell.KeyEnter:
			h.screen.HideCursor()
			return string(input), len(input) > 0
		case tcell.KeyEscape, tcell.KeyCtrlC:
			h.screen.HideCursor()
			return "", false
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(input) > 0 {
				input = input[:len(input)-1]
			}
		case tcell.KeyRune:
			input = append(input, ev.Rune())
		}
	}
}
