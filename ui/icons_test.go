package ui

import (
	"bytes"
	"image/png"
	"testing"
)

func TestGenerateIcon(t *testing.T) {
	for name, style := range map[string]IconStyle{
		"ready":    ReadyIconStyle(),
		"starting": StartingIconStyle(),
	} {
		t.Run(name, func(t *testing.T) {
			data := GenerateIcon(style)
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("png.Decode() error = %v", err)
			}
			if got := img.Bounds().Dx(); got != style.Size {
				t.Errorf("width = %d, want %d", got, style.Size)
			}

			c := style.Size / 2
			r, g, b, _ := img.At(c, c).RGBA()
			sr, sg, sb, _ := style.Spark.RGBA()
			if r != sr || g != sg || b != sb {
				t.Errorf("center pixel should be the spark color")
			}
			if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
				t.Errorf("corner pixel should be transparent")
			}
		})
	}
}

func TestGenerateIcon_Differs(t *testing.T) {
	if bytes.Equal(GenerateIcon(ReadyIconStyle()), GenerateIcon(StartingIconStyle())) {
		t.Error("ready and starting icons should differ")
	}
}

func TestInSpark(t *testing.T) {
	if !inSpark(0, 0, 5) {
		t.Error("origin should be inside")
	}
	if !inSpark(5, 0, 5) {
		t.Error("arm tip should be inside")
	}
	if inSpark(3, 3, 5) {
		t.Error("diagonal point should be outside the concave star")
	}
	if inSpark(0, 0, 0) {
		t.Error("zero radius should draw nothing")
	}
}
