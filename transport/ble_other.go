//go:build !(linux || darwin)

package transport

import "fmt"

// paypal/gatt only supports Linux and Darwin hosts; elsewhere ble is
// unavailable, matching krd/bluetooth_linux.go's own "+build !nobluetooth"
// gate on a platform-specific driver.
func newBLEBackend(cfg Config) (Backend, error) {
	return nil, fmt.Errorf("transport: ble backend is only available on linux/darwin")
}
