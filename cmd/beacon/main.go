package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/cenkalti/log"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/urfave/cli"

	beacon "github.com/bitbeacon/beacon"
	"github.com/bitbeacon/beacon/beaconrpc"
)

var (
	config *beacon.Config
	rpcURL string
)

func main() {
	app := cli.NewApp()
	app.Name = "beacon"
	app.Usage = "BitTorrent tracker announce engine"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Value: "~/.beacon.yaml",
			Usage: "read config from `FILE`",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "enable debug log",
		},
	}
	app.Before = handleBeforeCommand
	app.Commands = []cli.Command{
		{
			Name:   "server",
			Usage:  "run RPC server for accepting session commands",
			Action: handleServer,
		},
		{
			Name:  "announce",
			Usage: "announce a single swarm until interrupted",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "tracker, t", Usage: "announce `URL`"},
				cli.StringFlag{Name: "infohash, i", Usage: "info hash, 40 hex characters"},
				cli.Int64Flag{Name: "left, l", Usage: "bytes left to download"},
			},
			Action: handleAnnounce,
		},
		{
			Name:   "list",
			Usage:  "list sessions on the RPC server",
			Action: handleList,
		},
		{
			Name:  "add",
			Usage: "add a session on the RPC server",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "tracker, t", Usage: "announce `URL`"},
				cli.StringFlag{Name: "infohash, i", Usage: "info hash, 40 hex characters"},
				cli.Int64Flag{Name: "left, l", Usage: "bytes left to download"},
				cli.BoolFlag{Name: "start, s", Usage: "start the session after adding"},
			},
			Action: handleAdd,
		},
		{
			Name:      "start",
			Usage:     "start a session on the RPC server",
			ArgsUsage: "<infohash>",
			Action:    handleStart,
		},
		{
			Name:      "stop",
			Usage:     "stop a session on the RPC server",
			ArgsUsage: "<infohash>",
			Action:    handleStop,
		},
		{
			Name:      "stats",
			Usage:     "print stats of a session on the RPC server",
			ArgsUsage: "<infohash>",
			Action:    handleStats,
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func handleBeforeCommand(c *cli.Context) error {
	if c.GlobalBool("debug") {
		beacon.SetLogLevel(log.DEBUG)
	}
	configPath, err := homedir.Expand(c.GlobalString("config"))
	if err != nil {
		return err
	}
	config, err = beacon.LoadConfig(configPath)
	if err != nil {
		return err
	}
	rpcURL = "http://" + net.JoinHostPort(config.RPC.Host, strconv.Itoa(config.RPC.Port)) + "/"
	return nil
}

func handleServer(c *cli.Context) error {
	srv, err := beaconrpc.NewServer(*config)
	if err != nil {
		return err
	}
	go handleSIGINT(func() { _ = srv.Close() })
	err = srv.ListenAndServe()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func handleAnnounce(c *cli.Context) error {
	infoHash, err := parseInfoHashArg(c.String("infohash"))
	if err != nil {
		return err
	}
	trackerURL := c.String("tracker")
	if trackerURL == "" {
		return errors.New("tracker URL is required")
	}

	clt, err := beacon.New(*config)
	if err != nil {
		return err
	}
	defer clt.Close()

	ses, err := clt.AddSession(beacon.SessionOptions{
		TrackerURL: trackerURL,
		InfoHash:   infoHash,
		BytesLeft:  c.Int64("left"),
	})
	if err != nil {
		return err
	}
	ses.Start()

	waitSIGINT()
	ses.Stop()

	for _, p := range ses.Peers() {
		fmt.Println(net.JoinHostPort(p.IP, strconv.Itoa(int(p.Port))))
	}
	return nil
}

func handleList(c *cli.Context) error {
	clt := beaconrpc.NewClient(rpcURL)
	defer clt.Close()
	resp, err := clt.ListSessions()
	if err != nil {
		return err
	}
	for _, s := range resp.Sessions {
		fmt.Println(s.InfoHash)
	}
	return nil
}

func handleAdd(c *cli.Context) error {
	clt := beaconrpc.NewClient(rpcURL)
	defer clt.Close()
	resp, err := clt.AddSession(c.String("tracker"), c.String("infohash"), c.Int64("left"))
	if err != nil {
		return err
	}
	if c.Bool("start") {
		if err = clt.StartSession(resp.Session.InfoHash); err != nil {
			return err
		}
	}
	fmt.Println(resp.Session.InfoHash)
	return nil
}

func handleStart(c *cli.Context) error {
	clt := beaconrpc.NewClient(rpcURL)
	defer clt.Close()
	return clt.StartSession(c.Args().First())
}

func handleStop(c *cli.Context) error {
	clt := beaconrpc.NewClient(rpcURL)
	defer clt.Close()
	return clt.StopSession(c.Args().First())
}

func handleStats(c *cli.Context) error {
	clt := beaconrpc.NewClient(rpcURL)
	defer clt.Close()
	resp, err := clt.GetSessionStats(c.Args().First())
	if err != nil {
		return err
	}
	s := resp.Stats
	fmt.Printf("state: %s\nseeders: %d\nleechers: %d\ntracker id: %q\nnext announce in: %ds\npeer addresses: %d\n",
		s.State, s.Seeders, s.Leechers, s.TrackerID, s.NextAnnounceIn, s.PeerAddresses)
	if s.LastError != "" {
		fmt.Printf("last error: %s\n", s.LastError)
	}
	return nil
}

func parseInfoHashArg(s string) ([20]byte, error) {
	var ih [20]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return ih, errors.New("info hash must be 40 hex characters")
	}
	if len(b) != 20 {
		return ih, errors.New("info hash must be 20 bytes")
	}
	copy(ih[:], b)
	return ih, nil
}

func waitSIGINT() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
}

func handleSIGINT(f func()) {
	waitSIGINT()
	f()
}
