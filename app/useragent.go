package app

import (
	"strconv"
	"strings"

	"github.com/avct/uasurfer"
)

func getPlatformName(ua *uasurfer.UserAgent) string {
	switch ua.OS.Platform {
	case uasurfer.PlatformWindows:
		return "windows"
	case uasurfer.PlatformMac:
		return "macintosh"
	case uasurfer.PlatformLinux:
		return "linux"
	case uasurfer.PlatformiPad:
		return "ipad"
	case uasurfer.PlatformiPhone:
		return "iphone"
	case uasurfer.PlatformiPod:
		return "ipod"
	case uasurfer.PlatformBlackberry:
		return "blackberry"
	case uasurfer.PlatformWindowsPhone:
		return "windows phone"
	default:
		return "unknown"
	}
}

func getOSName(ua *uasurfer.UserAgent) string {
	switch ua.OS.Name {
	case uasurfer.OSWindows:
		return "windows"
	case uasurfer.OSMacOSX:
		return "macos"
	case uasurfer.OSLinux:
		return "linux"
	case uasurfer.OSiOS:
		return "ios"
	case uasurfer.OSAndroid:
		return "android"
	default:
		return "unknown"
	}
}

func getBrowserName(ua *uasurfer.UserAgent, userAgentString string) string {
	// uasurfer reports Edge as Chrome
	if strings.Contains(userAgentString, "Edge") || strings.Contains(userAgentString, "Edg/") {
		return "edge"
	}

	switch ua.Browser.Name {
	case uasurfer.BrowserChrome:
		return "chrome"
	case uasurfer.BrowserFirefox:
		return "firefox"
	case uasurfer.BrowserSafari:
		return "safari"
	case uasurfer.BrowserOpera:
		return "opera"
	case uasurfer.BrowserIE:
		return "ie"
	default:
		return "unknown"
	}
}

func getBrowserVersion(ua *uasurfer.UserAgent) string {
	version := ua.Browser.Version

	if version.Major == 0 && version.Minor == 0 && version.Patch == 0 {
		return "unknown"
	}

	return strconv.Itoa(version.Major) + "." + strconv.Itoa(version.Minor) + "." + strconv.Itoa(version.Patch)
}
