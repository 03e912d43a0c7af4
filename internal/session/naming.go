package session

import (
	"fmt"
	"strconv"

	"recording-orchestrator/internal/deviceconfig"
)

// localBucket is the reserved host key naming devices on this machine.
const localBucket = "local"

// isLocalHost reports whether host refers to the local machine for naming
// purposes. Local kinect devices may be named under the "local" bucket
// instead of their loopback address.
func isLocalHost(host string) bool {
	switch host {
	case localBucket, "localhost", "127.0.0.1", "::1", "":
		return true
	}
	return false
}

// ResolveDeviceName returns the friendly name for a capture device. It is a
// total function of its inputs and the configuration snapshot: an unmapped
// device gets a deterministic synthetic name, never an empty string, and
// fallback names for distinct indices never collide.
//
// Lookup order for kinect devices: exact (host, index) entry, then the
// reserved "local" bucket when host is a loopback/local marker, then the
// synthetic fallback. Audio devices are keyed by index only; host is ignored.
func ResolveDeviceName(class DeviceClass, host string, index int, cfg *deviceconfig.Config) string {
	key := strconv.Itoa(index)

	switch class {
	case DeviceKinect:
		if names, ok := cfg.Kinect.DeviceNames[host]; ok {
			if name, ok := names[key]; ok && name != "" {
				return name
			}
		}
		if isLocalHost(host) {
			if name, ok := cfg.Kinect.DeviceNames[localBucket][key]; ok && name != "" {
				return name
			}
			return fmt.Sprintf("kinect_%d", index)
		}
		return fmt.Sprintf("kinect_%s_%d", host, index)

	case DeviceAudio:
		if name, ok := cfg.Audio.DeviceNames[key]; ok && name != "" {
			return name
		}
		return fmt.Sprintf("audio_%d", index)
	}

	return fmt.Sprintf("%s_%d", class, index)
}
