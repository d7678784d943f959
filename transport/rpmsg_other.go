//go:build !windows

package transport

import "fmt"

// newRPMsgBackend is only implemented on Windows hosts (see
// rpmsg_windows.go); on other platforms the real rpmsg transport is a
// kernel driver this module does not bind to.
func newRPMsgBackend(cfg Config) (Backend, error) {
	return nil, fmt.Errorf("transport: rpmsg backend is only available on windows")
}
