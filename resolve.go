package serial

import (
	"runtime"
	"strings"
)

// SerialPrefix returns the prefix prepended to bare port names on goos.
// Windows COM names are used as-is, so the prefix there is empty.
func SerialPrefix(goos string) string {
	if goos == "windows" {
		return ""
	}
	return "/dev/tty"
}

// ResolvePath turns a user-supplied port name into a device path.
//
//	ACM0          -> /dev/ttyACM0
//	ttyUSB0       -> /dev/ttyUSB0
//	/dev/custom   -> /dev/custom
//	COM3 (windows) -> COM3
//
// Names that already contain a path separator are returned unchanged.
func ResolvePath(name, goos string) string {
	prefix := SerialPrefix(goos)
	if prefix == "" || name == "" || strings.ContainsAny(name, `/\`) {
		return name
	}
	if strings.HasPrefix(name, "tty") {
		return "/dev/" + name
	}
	return prefix + name
}

// Resolve is ResolvePath for the running platform
func Resolve(name string) string {
	return ResolvePath(name, runtime.GOOS)
}
