package transport

import "fmt"

func newBackend(cfg Config) (Backend, error) {
	switch cfg.Kind {
	case "nng":
		return newNNGBackend(cfg)
	case "serial":
		return newSerialBackend(cfg)
	case "rpmsg":
		return newRPMsgBackend(cfg)
	case "ble":
		return newBLEBackend(cfg)
	case "inproc":
		return newInprocBackend(cfg)
	case "aws":
		return newAWSBackend(cfg)
	default:
		return nil, fmt.Errorf("transport: unknown transport_kind %q", cfg.Kind)
	}
}
