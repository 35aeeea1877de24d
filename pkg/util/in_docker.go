package util

import "os"

// IsRunningInDocker reports whether the process runs inside a container.
// Used to refuse creating the database file when it should be a volume.
func IsRunningInDocker() bool {
	_, err := os.Stat("/.dockerenv")
	return err == nil
}
