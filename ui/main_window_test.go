package ui

import (
	"testing"

	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/views"
)

func TestContentBounds(t *testing.T) {
	tests := []struct {
		name         string
		width        int
		height       int
		panelVisible bool
		want         views.Bounds
	}{
		{"before allocation", 0, 0, false, views.Bounds{Width: 1200, Height: 800}},
		{"maximized", 1920, 1050, false, views.Bounds{Width: 1920, Height: 1050}},
		{"maximized with panel", 1920, 1050, true, views.Bounds{Width: 1920 - common.LocalPanelWidth, Height: 1050}},
		{"default with panel", 0, 0, true, views.Bounds{Width: 1200 - common.LocalPanelWidth, Height: 800}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contentBounds(tt.width, tt.height, 1200, 800, tt.panelVisible)
			if got != tt.want {
				t.Errorf("contentBounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResizeProperties(t *testing.T) {
	watched := make(map[string]bool)
	for _, p := range resizeProperties {
		watched[p] = true
	}
	for _, p := range []string{"default-width", "default-height", "maximized", "fullscreened"} {
		if !watched[p] {
			t.Errorf("window property %q does not trigger a re-layout", p)
		}
	}
}
