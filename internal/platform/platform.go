// Package platform decides which credential backend the host OS calls for.
package platform

import (
	"os"
	"runtime"
	"strings"
)

// OS is the host operating system as far as credential storage is concerned.
type OS string

const (
	MacOS OS = "macOS"
	Linux OS = "Linux"
	WSL   OS = "WSL"
)

// Backend is where credential blobs live.
type Backend string

const (
	Keychain Backend = "keychain"
	File     Backend = "file"
	// Keyring is the desktop Secret Service. Never auto-detected.
	Keyring Backend = "keyring"
)

// Detect maps goos and environment hints to an OS. Unknown systems are
// treated as Linux.
func Detect(goos string, getenv func(string) string) OS {
	switch goos {
	case "darwin":
		return MacOS
	case "linux":
		if getenv("WSL_DISTRO_NAME") != "" || getenv("WSL_INTEROP") != "" {
			return WSL
		}
	}
	return Linux
}

// Current detects the running OS. WSL sessions that scrub the WSL_*
// variables (sudo, env -i) are still caught by the kernel release string.
func Current() OS {
	host := Detect(runtime.GOOS, os.Getenv)
	if host == Linux && isWSLKernel(kernelRelease()) {
		return WSL
	}
	return host
}

func isWSLKernel(release string) bool {
	r := strings.ToLower(release)
	return strings.Contains(r, "microsoft") || strings.Contains(r, "wsl")
}

// BackendFor picks the backend for a detected OS. A non-empty configured
// name other than "auto" wins.
func BackendFor(host OS, configured string) Backend {
	switch Backend(strings.ToLower(configured)) {
	case Keychain:
		return Keychain
	case File:
		return File
	case Keyring:
		return Keyring
	}
	if host == MacOS {
		return Keychain
	}
	return File
}
