package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaIPhoneSafari  = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
	uaWindowsChrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaLineIPhone    = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148 Line/13.15.0"
)

func TestClassifyDesktopDefaults(t *testing.T) {
	info := Classify(uaWindowsChrome)
	assert.Equal(t, "desktop", info.DeviceType)
	assert.Equal(t, "Unknown", info.DeviceModel)
	assert.Equal(t, "Chrome", info.Browser)
	assert.Contains(t, info.OS, "Windows")
}

func TestClassifyMobile(t *testing.T) {
	info := Classify(uaIPhoneSafari)
	assert.Equal(t, "mobile", info.DeviceType)
	assert.Equal(t, "iPhone", info.DeviceModel)
	assert.NotEqual(t, "Unknown", info.OS)
}

func TestClassifyInAppBrowserCascade(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"line", uaLineIPhone, "Line"},
		{"instagram", uaIPhoneSafari + " Instagram 295.0.0.0", "Instagram"},
		{"facebook fban", uaIPhoneSafari + " [FBAN/FBIOS;FBAV/430.0]", "Facebook"},
		{"twitter", uaWindowsChrome + " TwitterAndroid", "Twitter"},
		// Line is checked before Instagram: a UA carrying both labels
		// still classifies as Line.
		{"line beats instagram", "Mozilla/5.0 (iPhone) Line/10.0; Instagram", "Line"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ua).Browser)
		})
	}
}

func TestClassifyMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "not a user agent", "🙂"} {
		info := Classify(raw)
		assert.Equal(t, "desktop", info.DeviceType)
		assert.Equal(t, "Unknown", info.DeviceModel)
		assert.Equal(t, "Unknown", info.OS)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify(uaLineIPhone)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(uaLineIPhone))
	}
}
