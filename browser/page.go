package browser

import (
	"errors"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/yllada/ai-wrapper/views"
)

// rodTarget drives one page inside its own incognito context.
type rodTarget struct {
	context    *rod.Browser
	page       *rod.Page
	router     *rod.HijackRouter
	navTimeout time.Duration
}

func (t *rodTarget) navigate(url string) error {
	page := t.page.Timeout(t.navTimeout)
	defer page.CancelTimeout()
	return page.Navigate(url)
}

func (t *rodTarget) setVisible(visible bool) error {
	state := proto.BrowserWindowStateMinimized
	if visible {
		state = proto.BrowserWindowStateNormal
	}
	if err := t.page.SetWindow(&proto.BrowserBounds{WindowState: state}); err != nil {
		return err
	}
	if !visible {
		return nil
	}
	_, err := t.page.Activate()
	return err
}

func (t *rodTarget) setBounds(v views.Viewport) error {
	if v.Empty() {
		// A zero-sized window is rejected by Chrome; keep the last size.
		return nil
	}
	if err := t.page.SetWindow(windowBounds(v)); err != nil {
		return err
	}
	return t.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             v.Width,
		Height:            v.Height,
		DeviceScaleFactor: 1,
	})
}

// windowBounds converts v to Chrome window bounds. Coordinates are screen
// absolute: GTK 4 does not report where the host window sits on screen.
func windowBounds(v views.Viewport) *proto.BrowserBounds {
	left, top := v.X, v.Y
	width, height := v.Width, v.Height
	return &proto.BrowserBounds{
		Left:   &left,
		Top:    &top,
		Width:  &width,
		Height: &height,
	}
}

func (t *rodTarget) close() error {
	var errs []error
	if t.router != nil {
		errs = append(errs, t.router.Stop())
	}
	errs = append(errs, t.page.Close(), t.context.Close())
	return errors.Join(errs...)
}
