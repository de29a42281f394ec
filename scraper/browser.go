// Package scraper owns the shared headless-browser engine and the isolated
// render sessions borrowed from it, one per crawl request.
package scraper

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/crawlio/crawlio/config"
	"github.com/crawlio/crawlio/models"
)

// Browser wraps the process-wide browser engine. It is launched once at
// startup, torn down once at shutdown, and shared by all concurrent render
// sessions; sessions own all mutable state (cookies, viewport, history), so
// the engine handle itself is safe for concurrent use.
type Browser struct {
	browser        *rod.Browser
	browserCfg     config.BrowserConfig
	waiterCfg      config.WaiterConfig
	activeSessions atomic.Int32
	startTime      time.Time
}

// NewBrowser launches the headless browser and connects to it.
func NewBrowser(browserCfg config.BrowserConfig, waiterCfg config.WaiterConfig) (*Browser, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewCrawlError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewCrawlError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	return &Browser{
		browser:    browser,
		browserCfg: browserCfg,
		waiterCfg:  waiterCfg,
		startTime:  time.Now(),
	}, nil
}

// Stats returns a snapshot of session utilisation.
func (b *Browser) Stats() models.SessionStats {
	return models.SessionStats{
		MaxSessions:    b.browserCfg.MaxSessions,
		ActiveSessions: int(b.activeSessions.Load()),
	}
}

// Close kills the browser process. Call on graceful shutdown to prevent
// zombie Chrome processes.
func (b *Browser) Close() {
	slog.Info("browser shutting down")
	b.browser.MustClose()
	slog.Info("browser shutdown complete")
}
