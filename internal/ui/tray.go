package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/clipsheet/clipsheet-agent/internal/store"
)

type Tray struct {
	repo   store.Repository
	addr   string
	logger *slog.Logger

	statusItem      *systray.MenuItem
	extractionsItem *systray.MenuItem

	mu sync.Mutex

	onQuit func()
}

type TrayConfig struct {
	Repository store.Repository
	Addr       string
	Logger     *slog.Logger
	OnQuit     func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		repo:   cfg.Repository,
		addr:   cfg.Addr,
		logger: cfg.Logger,
		onQuit: cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Clipsheet")
	systray.SetTooltip("Clipsheet Agent")

	t.statusItem = systray.AddMenuItem("Status: Running", "Current agent status")
	t.statusItem.Disable()

	addrItem := systray.AddMenuItem("API: "+t.addr, "Local API address")
	addrItem.Disable()

	t.extractionsItem = systray.AddMenuItem("Extractions: 0", "Recorded extractions")
	t.extractionsItem.Disable()

	systray.AddSeparator()

	refreshItem := systray.AddMenuItem("Refresh", "Refresh counters")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Clipsheet Agent")

	go func() {
		for {
			select {
			case <-refreshItem.ClickedCh:
				t.refreshCounters()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.refreshCounters()
	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) refreshCounters() {
	extractions, err := t.repo.ListExtractions(context.Background(), 500)
	if err != nil {
		t.logger.Warn("failed to count extractions", "error", err)
		return
	}
	t.UpdateExtractionsCount(len(extractions))
}

func (t *Tray) UpdateStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusItem.SetTitle("Status: " + status)
}

func (t *Tray) UpdateExtractionsCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.extractionsItem.SetTitle(fmt.Sprintf("Extractions: %d", count))
}

func (t *Tray) Quit() {
	systray.Quit()
}
