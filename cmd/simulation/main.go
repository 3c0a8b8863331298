package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"github.com/urfave/cli"
	"google.golang.org/protobuf/encoding/protojson"
)

func main() {
	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "simulation"
	app.Usage = "Headless flock simulation"
	app.Description = "Runs a swarm for a fixed number of ticks and prints the final snapshot as JSON"

	configFlags := []cli.Flag{
		cli.StringFlag{Name: "config", Value: "", Usage: "Configuration file (.json or .toml)"},
		cli.StringFlag{Name: "mode", Value: "", Usage: "Override the mode: random_walk or boid"},
		cli.Uint64Flag{Name: "seed", Usage: "Override the random seed"},
	}

	app.Commands = []cli.Command{
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Run the swarm and print the final snapshot",
			Flags: append([]cli.Flag{
				cli.IntFlag{Name: "ticks", Value: 300, Usage: "Number of ticks to run"},
				cli.Float64Flag{Name: "dt", Value: 1000 / simulation.DefaultFPS, Usage: "Time step in milliseconds"},
				cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			}, configFlags...),
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				dt := time.Duration(c.Float64("dt") * float64(time.Millisecond))
				return runAction(cfg, c.Int("ticks"), dt, c.Bool("debug"))
			},
		},
		{
			Name:  "params",
			Usage: "Print the effective behavior parameters",
			Flags: configFlags,
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				params := cfg.Params()
				st, err := params.ToStruct()
				if err != nil {
					return err
				}
				return printJSON(protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st))
			},
		},
	}

	return app
}

func loadConfig(c *cli.Context) (*simulation.Config, error) {
	cfg := simulation.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := simulation.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if m := c.String("mode"); m != "" {
		mode, err := simulation.ParseMode(m)
		if err != nil {
			return nil, err
		}
		cfg.Mode = mode
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	return cfg, nil
}

func runAction(cfg *simulation.Config, ticks int, dt time.Duration, isDebug bool) error {
	ctx := context.Background()

	level := golog.InfoLevel
	if isDebug {
		level = golog.DebugLevel
	}
	system, err := actor.NewActorSystem("FlockHeadless", actor.WithLogger(golog.New(level, os.Stderr)))
	if err != nil {
		return fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("failed to start actor system: %w", err)
	}
	defer func() { _ = system.Stop(ctx) }()

	snap, err := simulation.RunHeadless(ctx, system, cfg, ticks, dt)
	if err != nil {
		return err
	}
	st, err := snap.ToProto()
	if err != nil {
		return err
	}
	return printJSON(protojson.Marshal(st))
}

func printJSON(b []byte, err error) error {
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(b))
	return nil
}
