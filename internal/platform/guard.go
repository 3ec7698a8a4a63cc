package platform

import (
	"os"
	"strings"
)

var containerMarkers = []string{"docker", "lxc", "containerd", "kubepods", "overlay"}

// IsRoot reports whether the process runs with uid 0.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// IsContainer applies the usual heuristics: /.dockerenv, cgroup or mount
// markers for PID 1, or a container env var.
func IsContainer() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	for _, f := range []string{"/proc/1/cgroup", "/proc/self/mountinfo"} {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		if hasContainerMarker(string(data)) {
			return true
		}
	}
	return os.Getenv("CONTAINER") != "" || os.Getenv("container") != ""
}

func hasContainerMarker(s string) bool {
	for _, m := range containerMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
