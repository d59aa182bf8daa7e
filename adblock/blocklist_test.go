package adblock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/ai-wrapper/common"
)

func TestDefaultBlocklist(t *testing.T) {
	b, err := New(DefaultPatterns)
	require.NoError(t, err)

	tests := []struct {
		url     string
		blocked bool
	}{
		{"https://ad.doubleclick.net/pixel?id=1", true},
		{"https://doubleclick.net/", true},
		{"http://pagead2.googlesyndication.com/pagead/js/adsbygoogle.js", true},
		{"https://www.googleadservices.com/pagead/conversion/123/?label=x", true},
		{"https://z.moatads.com/a/b/c/d.js", true},
		{"https://gemini.google.com/app", false},
		{"https://notdoubleclick.net/", false},
		{"https://doubleclick.net.example.com/", false},
		{"ftp://ad.doubleclick.net/file", false},
		{"not a url", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.blocked, b.Match(tt.url))
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	for _, raw := range []string{
		"doubleclick.net",
		"*://",
		"*://*.example.com",
		"https://ads.*.example.com/*",
		"://example.com/*",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := Compile(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrInvalidPattern))
		})
	}
}

func TestPattern_PathWildcardSpansSegments(t *testing.T) {
	b, err := New([]string{"https://cdn.example.com/ads/*"})
	require.NoError(t, err)

	assert.True(t, b.Match("https://cdn.example.com/ads/banner.js"))
	assert.True(t, b.Match("https://cdn.example.com/ads/2024/10/banner.js"))
	assert.False(t, b.Match("https://cdn.example.com/assets/app.js"))
	assert.False(t, b.Match("http://cdn.example.com/ads/banner.js"))
}

func TestPattern_LiteralMetacharacters(t *testing.T) {
	b, err := New([]string{"*://example.com/track?id=*"})
	require.NoError(t, err)

	assert.True(t, b.Match("https://example.com/track?id=42"))
	assert.False(t, b.Match("https://example.com/trackXid=42"))
}

func TestBlocklist_CheckCounts(t *testing.T) {
	b, err := New(DefaultPatterns)
	require.NoError(t, err)

	pattern, ok := b.Check("https://ad.doubleclick.net/x")
	assert.True(t, ok)
	assert.Equal(t, "*://*.doubleclick.net/*", pattern)

	_, ok = b.Check("https://claude.ai/")
	assert.False(t, ok)

	b.Check("https://moatads.com/")
	assert.Equal(t, int64(2), b.Blocked())
}

func TestBlocklist_EmptyAndDedupe(t *testing.T) {
	b, err := New(nil)
	require.NoError(t, err)
	assert.False(t, b.Match("https://ad.doubleclick.net/"))

	b, err = New([]string{DefaultPatterns[0], DefaultPatterns[0]})
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultPatterns[0]}, b.Patterns())

	var nilList *Blocklist
	assert.False(t, nilList.Match("https://ad.doubleclick.net/"))
}

func TestBlocklist_TriggerPatterns(t *testing.T) {
	b, err := New([]string{"*://*.moatads.com/*", "https://cdn.example.com/ads/*"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"*://*.moatads.com/*",
		"*://moatads.com/*",
		"https://cdn.example.com/ads/*",
	}, b.TriggerPatterns())
}
