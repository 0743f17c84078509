// Package analytics turns raw user-agent strings into the structured
// device facts stored on each visit log.
package analytics

import (
	"strings"

	"github.com/mileusna/useragent"
)

const unknown = "Unknown"

// DeviceInfo is the classification result for one user-agent string.
type DeviceInfo struct {
	DeviceType  string `json:"device_type"` // mobile / tablet / desktop
	DeviceModel string `json:"device_model"`
	Browser     string `json:"browser"`
	OS          string `json:"os"`
}

// Classify parses a raw user-agent string. It never fails: anything
// unparseable degrades to "Unknown" (device type degrades to "desktop").
// Deterministic for a given input.
func Classify(rawUserAgent string) DeviceInfo {
	ua := useragent.Parse(rawUserAgent)

	deviceType := "desktop"
	switch {
	case ua.Mobile:
		deviceType = "mobile"
	case ua.Tablet:
		deviceType = "tablet"
	}

	deviceModel := ua.Device
	if deviceModel == "" {
		deviceModel = unknown
	}

	// In-app browsers (LINE, Instagram, Facebook, Twitter web views)
	// obscure the real browser name; recipients overwhelmingly open the
	// link from a chat app, so these labels matter more than the engine.
	// Checked on the lowered raw string, first match wins.
	browser := ua.Name
	if browser == "" {
		browser = unknown
	}
	lowered := strings.ToLower(rawUserAgent)
	switch {
	case strings.Contains(lowered, "line"):
		browser = "Line"
	case strings.Contains(lowered, "instagram"):
		browser = "Instagram"
	case strings.Contains(lowered, "fban"), strings.Contains(lowered, "fbav"):
		browser = "Facebook"
	case strings.Contains(lowered, "twitter"):
		browser = "Twitter"
	}

	os := unknown
	if ua.OS != "" {
		os = ua.OS
		if ua.OSVersion != "" {
			os += " " + ua.OSVersion
		}
	}

	return DeviceInfo{
		DeviceType:  deviceType,
		DeviceModel: deviceModel,
		Browser:     browser,
		OS:          os,
	}
}
