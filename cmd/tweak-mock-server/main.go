// Command tweak-mock-server is a synthetic load generator: it creates a
// configurable number of scalar and vector items under randomly
// generated URIs and mutates a random sample of them on a fixed tick,
// the way tweak-mock-server/main.cpp drives its own test suite.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/op/go-logging"
	"github.com/urfave/cli"

	"github.com/CogentEmbedded/tweaktool-sub001/endpoint"
	"github.com/CogentEmbedded/tweaktool-sub001/facade"
	"github.com/CogentEmbedded/tweaktool-sub001/internal/tlog"
	"github.com/CogentEmbedded/tweaktool-sub001/transport"
)

const updateDelay = 33 * time.Millisecond

var alphabetCodes = []string{
	"Alfa", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel",
	"India", "Juliett", "Kilo", "Lima", "Mike", "November", "Oscar", "Papa",
	"Quebec", "Romeo", "Sierra", "Tango", "Uniform", "Victor", "Whiskey",
	"X-ray", "Yankee", "Zulu",
}

func main() {
	app := cli.NewApp()
	app.Name = "tweak-mock-server"
	app.Usage = "serve a synthetic tree of mutating items for tweak client testing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "t", Value: "nng", Usage: "transport_kind (nng, serial, rpmsg, ble, inproc, aws)"},
		cli.StringFlag{Name: "p", Value: "role=server", Usage: "transport params"},
		cli.StringFlag{Name: "u", Value: "tcp://127.0.0.1:7777", Usage: "transport uri"},
		cli.UintFlag{Name: "N", Value: 10000, Usage: "number of items to create"},
		cli.UintFlag{Name: "S", Value: 31337, Usage: "PRNG seed"},
		cli.StringFlag{Name: "L", Value: "-", Usage: "log file path, - for stderr"},
	}
	app.Action = runServer
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgHiRed).Sprint(err))
		os.Exit(1)
	}
}

func runServer(c *cli.Context) error {
	if path := c.String("L"); path != "-" {
		logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer logFile.Close()
		tlog.SetBackend(logging.NewLogBackend(logFile, "", 0))
	}

	rng := rand.New(rand.NewSource(int64(c.Uint("S"))))

	f := facade.New(endpoint.Server, transport.Config{
		Kind:   c.String("t"),
		Params: c.String("p"),
		URI:    c.String("u"),
	}, facade.Listeners{
		OnConnectionState: func(s endpoint.ConnectionState) {
			tlog.Test("tweak-mock-server: connection state -> %s", s)
		},
	})
	defer f.Destroy()

	mutators := createItems(f, rng, int(c.Uint("N")))
	fmt.Println(color.New(color.FgHiGreen).Sprintf("tweak-mock-server: %d mutating items ready", len(mutators)))

	var shouldExit int32
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		atomic.StoreInt32(&shouldExit, 1)
	}()

	valueChangeRoutine(mutators, rng, &shouldExit)
	return nil
}

func valueChangeRoutine(mutators []func(), rng *rand.Rand, shouldExit *int32) {
	sample := make([]int, len(mutators))
	for i := range sample {
		sample[i] = i
	}
	sampleSize := len(mutators) / 10
	for atomic.LoadInt32(shouldExit) == 0 {
		rng.Shuffle(len(sample), func(i, j int) { sample[i], sample[j] = sample[j], sample[i] })
		for _, ix := range sample[:sampleSize] {
			mutators[ix]()
		}
		time.Sleep(updateDelay)
	}
}

func generateRandomURI(rng *rand.Rand, min, max int) string {
	const charRange = ('9' - '0') + ('Z' - 'A')
	length := min + rng.Intn(max-min)
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n := rng.Intn(charRange)
		if n < '9'-'0' {
			sb.WriteByte(byte('0' + n))
		} else {
			sb.WriteByte(byte('A' + n - ('9' - '0')))
		}
	}
	return sb.String()
}

func generateSegment(rng *rand.Rand) string {
	return alphabetCodes[rng.Intn(len(alphabetCodes))] + "_" + generateRandomURI(rng, 2, 8)
}

func generateBranch(rng *rand.Rand, maxBranchLength int) string {
	var sb strings.Builder
	for i := 0; i < maxBranchLength; i++ {
		sb.WriteByte('/')
		sb.WriteString(generateSegment(rng))
	}
	return sb.String()
}

func generateItemURI(rng *rand.Rand, folders []string) string {
	branch := folders[rng.Intn(len(folders))]
	if i := strings.LastIndexByte(branch, '/'); i >= 0 {
		branch = branch[:i+1]
	}
	return branch + generateSegment(rng)
}

// createRandomItem registers one scalar item at uri, its kind picked
// uniformly at random from bool, the eight integer kinds, float and
// double, and returns a closure that mutates it. Vector items come from
// createRandomVectorItem instead.
func createRandomItem(f *facade.Facade, rng *rand.Rand, uri string) func() {
	switch rng.Intn(11) {
	case 0:
		id, _ := facade.AddScalar[bool](f, uri, "bool item", "", false)
		return func() { facade.SetScalar(f, id, rng.Intn(2) == 1) }
	case 1:
		id, _ := facade.AddScalar[int8](f, uri, "int8 item", "", 0)
		return func() { facade.SetScalar(f, id, int8(rng.Intn(256)-128)) }
	case 2:
		id, _ := facade.AddScalar[int16](f, uri, "int16 item", "", 0)
		return func() { facade.SetScalar(f, id, int16(rng.Intn(65536)-32768)) }
	case 3:
		id, _ := facade.AddScalar[int32](f, uri, "int32 item", "", 0)
		return func() { facade.SetScalar(f, id, rng.Int31()) }
	case 4:
		id, _ := facade.AddScalar[int64](f, uri, "int64 item", "", 0)
		return func() { facade.SetScalar(f, id, rng.Int63()) }
	case 5:
		id, _ := facade.AddScalar[uint8](f, uri, "uint8 item", "", 0)
		return func() { facade.SetScalar(f, id, uint8(rng.Intn(256))) }
	case 6:
		id, _ := facade.AddScalar[uint16](f, uri, "uint16 item", "", 0)
		return func() { facade.SetScalar(f, id, uint16(rng.Intn(65536))) }
	case 7:
		id, _ := facade.AddScalar[uint32](f, uri, "uint32 item", "", 0)
		return func() { facade.SetScalar(f, id, rng.Uint32()) }
	case 8:
		id, _ := facade.AddScalar[uint64](f, uri, "uint64 item", "", 0)
		return func() { facade.SetScalar(f, id, rng.Uint64()) }
	case 9:
		id, _ := facade.AddScalar[float32](f, uri, "float item", "", 0)
		return func() { facade.SetScalar(f, id, rng.Float32()) }
	default:
		id, _ := facade.AddScalar[float64](f, uri, "double item", "", 0)
		return func() { facade.SetScalar(f, id, rng.Float64()) }
	}
}

func createRandomVectorItem(f *facade.Facade, rng *rand.Rand, uri string) func() {
	const maxArraySize = 100
	size := 10 + rng.Intn(maxArraySize-10)
	initial := make([]float32, size)
	for i := range initial {
		initial[i] = rng.Float32()
	}
	id, _ := facade.CreateVector[float32](f, uri, "float vector item", "", initial)
	return func() {
		buf := make([]float32, size)
		for i := range buf {
			buf[i] = rng.Float32()
		}
		facade.SetVector(f, id, buf)
	}
}

func createItems(f *facade.Facade, rng *rand.Rand, numItems int) []func() {
	var mutators []func()

	maxBranchLength := 1
	for n := numItems; n >= 10; n /= 10 {
		maxBranchLength++
	}
	numFolders := maxBranchLength * 10
	folders := make([]string, 0, numFolders)
	for i := 0; i < numFolders; i++ {
		folders = append(folders, generateBranch(rng, rng.Intn(maxBranchLength)+1))
	}

	seen := map[string]bool{}
	for i := 0; i < numItems; i++ {
		var uri string
		for {
			uri = generateItemURI(rng, folders)
			if !seen[uri] {
				break
			}
		}
		seen[uri] = true

		if rng.Intn(10) == 0 {
			mutators = append(mutators, createRandomVectorItem(f, rng, uri))
		} else {
			mutators = append(mutators, createRandomItem(f, rng, uri))
		}
	}

	counterID, _ := facade.AddScalar[int32](f, "/test/test1", "permanent test value", "", 0)
	mutators = append(mutators, func() {
		facade.SetScalar(f, counterID, facade.GetScalar[int32](f, counterID)+1)
	})

	facade.AddScalar[int32](f, "/test/test", "permanent test value", `{"readonly":true}`, 42)

	return mutators
}
