// Package ui provides the graphical user interface for AI Wrapper.
// This file contains icon generation for the system tray.
package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/yllada/ai-wrapper/common"
)

// IconStyle colors a generated tray icon.
type IconStyle struct {
	Size       int
	Background color.RGBA
	Ring       color.RGBA
	Spark      color.RGBA
}

// ReadyIconStyle is used once every session is running.
func ReadyIconStyle() IconStyle {
	return IconStyle{
		Size:       common.TrayIconSize,
		Background: color.RGBA{19, 19, 20, 255},   // window background
		Ring:       color.RGBA{138, 180, 248, 255}, // blue
		Spark:      color.RGBA{255, 255, 255, 255},
	}
}

// StartingIconStyle is used while the browser is starting.
func StartingIconStyle() IconStyle {
	return IconStyle{
		Size:       common.TrayIconSize,
		Background: color.RGBA{19, 19, 20, 255},
		Ring:       color.RGBA{117, 117, 117, 255},
		Spark:      color.RGBA{189, 189, 189, 255},
	}
}

// GenerateIcon draws a round badge with a four-point spark and returns it
// as PNG.
func GenerateIcon(style IconStyle) []byte {
	size := style.Size
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	c := float64(size) / 2
	outer := c - 0.5
	inner := outer - 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			d := math.Hypot(dx, dy)
			switch {
			case d > outer:
				continue
			case d > inner:
				img.Set(x, y, style.Ring)
			case inSpark(math.Abs(dx), math.Abs(dy), inner-1.5):
				img.Set(x, y, style.Spark)
			default:
				img.Set(x, y, style.Background)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		common.LogWarn("Error encoding tray icon: %v", err)
	}
	return buf.Bytes()
}

// inSpark reports whether a point, folded into the first quadrant, lies in
// a star whose arms reach r along both axes.
func inSpark(x, y, r float64) bool {
	if r <= 0 {
		return false
	}
	// Concave edge: sqrt(x) + sqrt(y) <= sqrt(r).
	return math.Sqrt(x)+math.Sqrt(y) <= math.Sqrt(r)
}
