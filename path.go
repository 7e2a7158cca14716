package pathifier

import "strings"

// PathMode selects how a host path is presented to its consumer.
type PathMode int

// Path modes.
const (
	// PathNative leaves paths untouched.
	PathNative PathMode = iota
	// PathWSL rewrites Windows drive paths into their /mnt/<drive> form
	// inside the Windows Subsystem for Linux.
	PathWSL
)

// extendedPathPrefix marks Windows extended-length paths (\\?\C:\...).
const extendedPathPrefix = `\\?\`

// Resolve converts an absolute host path into the representation expected by
// the consumer. The transform is purely textual and never checks that the
// result exists.
func Resolve(path string, mode PathMode) string {
	if mode != PathWSL {
		return path
	}
	return toWSL(path)
}

// toWSL maps E:\workspace\img.png to /mnt/e/workspace/img.png. Paths without
// a drive letter are returned with forward slashes only.
func toWSL(path string) string {
	path = strings.TrimPrefix(path, extendedPathPrefix)
	path = strings.ReplaceAll(path, `\`, "/")
	if len(path) < 2 || path[1] != ':' || !isASCIILetter(path[0]) {
		return path
	}
	drive := strings.ToLower(path[:1])
	return "/mnt/" + drive + path[2:]
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Platform describes host capabilities. It is detected once at startup and
// passed into the core so that one implementation serves every host.
type Platform struct {
	OS             string // GOOS value the platform was detected from
	WSLTranslation bool   // Host can hand paths to a co-located WSL
	PasteTip       bool   // Host benefits from the terminal paste tip
}

// DetectPlatform returns the capabilities of the host identified by goos.
func DetectPlatform(goos string) Platform {
	return Platform{
		OS:             goos,
		WSLTranslation: goos == "windows",
		PasteTip:       goos == "darwin",
	}
}

// PathMode returns the path mode for s on this platform. Hosts without WSL
// translation always resolve natively, whatever the settings say.
func (p Platform) PathMode(s Settings) PathMode {
	if p.WSLTranslation && s.WSLMode {
		return PathWSL
	}
	return PathNative
}

// ShowPasteTip reports whether the paste tip should be displayed.
func (p Platform) ShowPasteTip(s Settings) bool {
	return p.PasteTip && s.ShowMacOSTip
}
