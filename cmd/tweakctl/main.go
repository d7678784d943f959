// Command tweakctl is a thin inspection and control client: it connects
// to a running tweak server, subscribes to its items, and offers list,
// get, set, watch, and copy-uri subcommands over that live connection.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/CogentEmbedded/tweaktool-sub001/endpoint"
	"github.com/CogentEmbedded/tweaktool-sub001/registry"
	"github.com/CogentEmbedded/tweaktool-sub001/transport"
	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

var transportFlags = []cli.Flag{
	cli.StringFlag{Name: "t", Value: "nng", Usage: "transport_kind (nng, serial, rpmsg, ble, inproc, aws)"},
	cli.StringFlag{Name: "u", Value: "tcp://127.0.0.1:7777", Usage: "transport uri"},
	cli.DurationFlag{Name: "timeout", Value: 5 * time.Second, Usage: "time to wait for the subscription snapshot"},
}

func main() {
	app := cli.NewApp()
	app.Name = "tweakctl"
	app.Usage = "inspect and control a running tweak server"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		cli.Command{
			Name:   "list",
			Usage:  "list every item currently exposed by the server",
			Flags:  transportFlags,
			Action: listCommand,
		},
		cli.Command{
			Name:      "get",
			Usage:     "get <uri> -- print one item's current value",
			ArgsUsage: "<uri>",
			Flags:     transportFlags,
			Action:    getCommand,
		},
		cli.Command{
			Name:      "set",
			Usage:     "set <uri> <value> -- parse and apply a new value",
			ArgsUsage: "<uri> <value>",
			Flags:     transportFlags,
			Action:    setCommand,
		},
		cli.Command{
			Name:   "watch",
			Usage:  "print every item change as it arrives until interrupted",
			Flags:  transportFlags,
			Action: watchCommand,
		},
		cli.Command{
			Name:      "copy-uri",
			Usage:     "copy-uri <uri> -- copy a URI to the clipboard",
			ArgsUsage: "<uri>",
			Action:    copyURICommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgHiRed).Sprint(err))
		os.Exit(1)
	}
}

func dialSnapshot(c *cli.Context) (*endpoint.Endpoint, error) {
	e := endpoint.New(endpoint.Client, transport.Config{
		Kind: c.String("t"),
		URI:  c.String("u"),
	}, endpoint.Listeners{})

	deadline := time.Now().Add(c.Duration("timeout"))
	for time.Now().Before(deadline) {
		if e.State() == endpoint.Active {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if e.State() != endpoint.Active {
		e.Destroy()
		return nil, fmt.Errorf("tweakctl: connection never went active")
	}

	if err := e.Subscribe("*"); err != nil {
		e.Destroy()
		return nil, err
	}
	time.Sleep(c.Duration("timeout"))
	return e, nil
}

func printSnapshot(snap registry.Snapshot) {
	fmt.Printf("%s %s = %s\n",
		color.New(color.FgHiCyan).Sprint(snap.URI),
		color.New(color.FgHiBlack).Sprintf("(%s)", snap.Current.Type()),
		value.ToString(snap.Current))
}

func listCommand(c *cli.Context) error {
	e, err := dialSnapshot(c)
	if err != nil {
		return err
	}
	defer e.Destroy()

	e.Registry().Traverse(func(snap registry.Snapshot) bool {
		printSnapshot(snap)
		return true
	})
	return nil
}

func getCommand(c *cli.Context) error {
	uri := c.Args().Get(0)
	if uri == "" {
		return fmt.Errorf("tweakctl: get requires a uri")
	}

	e, err := dialSnapshot(c)
	if err != nil {
		return err
	}
	defer e.Destroy()

	id, ok := e.Registry().FindByURI(uri)
	if !ok {
		return fmt.Errorf("tweakctl: no such item: %s", uri)
	}
	snap, _ := e.Registry().Snapshot(id)
	printSnapshot(snap)
	return nil
}

func setCommand(c *cli.Context) error {
	uri := c.Args().Get(0)
	text := c.Args().Get(1)
	if uri == "" || text == "" {
		return fmt.Errorf("tweakctl: set requires a uri and a value")
	}

	e, err := dialSnapshot(c)
	if err != nil {
		return err
	}
	defer e.Destroy()

	id, ok := e.Registry().FindByURI(uri)
	if !ok {
		return fmt.Errorf("tweakctl: no such item: %s", uri)
	}
	kind, _ := e.Registry().GetType(id)

	v, result := value.FromString(text, kind)
	if result == value.Failed {
		return fmt.Errorf("tweakctl: cannot parse %q as %s", text, kind)
	}
	if result == value.Truncated {
		fmt.Fprintln(os.Stderr, color.New(color.FgHiYellow).Sprintf("tweakctl: %q coerced to fit %s", text, kind))
	}

	return e.ChangeItem(id, v)
}

func watchCommand(c *cli.Context) error {
	changed := make(chan struct {
		id uint64
		v  value.Value
	}, 64)

	e := endpoint.New(endpoint.Client, transport.Config{
		Kind: c.String("t"),
		URI:  c.String("u"),
	}, endpoint.Listeners{
		OnValueChanged: func(id uint64, v value.Value) {
			changed <- struct {
				id uint64
				v  value.Value
			}{id, v}
		},
	})
	defer e.Destroy()

	deadline := time.Now().Add(c.Duration("timeout"))
	for time.Now().Before(deadline) && e.State() != endpoint.Active {
		time.Sleep(10 * time.Millisecond)
	}
	if err := e.Subscribe("*"); err != nil {
		return err
	}

	for ev := range changed {
		uri := "?"
		if snap, ok := e.Registry().Snapshot(ev.id); ok {
			uri = snap.URI
		}
		fmt.Printf("%s %s\n", color.New(color.FgHiCyan).Sprint(uri), value.ToString(ev.v))
	}
	return nil
}

func copyURICommand(c *cli.Context) error {
	uri := c.Args().Get(0)
	if uri == "" {
		return fmt.Errorf("tweakctl: copy-uri requires a uri")
	}
	if err := clipboard.WriteAll(uri); err != nil {
		return err
	}
	fmt.Println(color.New(color.FgHiGreen).Sprint("copied to clipboard"))
	return nil
}
