package service

import "strings"

// Классы устройств, по которым агрегируется статистика User-Agent
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

// ClassifyDevice определяет класс устройства по строке User-Agent.
// Порядок проверок значим: планшеты распознаются раньше мобильных,
// потому что их User-Agent часто содержит оба маркера.
func ClassifyDevice(userAgent string) string {
	if userAgent == "" || userAgent == DeviceUnknown {
		return DeviceUnknown
	}

	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "ipad") || (strings.Contains(ua, "tablet") && !strings.Contains(ua, "mobile")):
		return DeviceTablet
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") ||
		strings.Contains(ua, "iphone") || strings.Contains(ua, "ipod"):
		return DeviceMobile
	case strings.Contains(ua, "windows") || strings.Contains(ua, "macintosh") ||
		strings.Contains(ua, "linux") || strings.Contains(ua, "x11"):
		return DeviceDesktop
	default:
		return DeviceUnknown
	}
}
