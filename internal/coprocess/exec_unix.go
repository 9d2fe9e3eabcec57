//go:build unix

package coprocess

import (
	"os"

	"golang.org/x/sys/unix"
)

func dup2(oldfd, newfd int) error {
	if oldfd == newfd {
		return nil
	}
	return unix.Dup2(oldfd, newfd)
}

// execve replaces the current process image, per spec §4.4b. It returns
// only on failure.
func execve(path string, argv []string) error {
	return unix.Exec(path, argv, os.Environ())
}
