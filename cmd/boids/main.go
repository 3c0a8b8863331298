package main

import (
	"context"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/viewer"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	ctx := context.Background()

	cfg := simulation.DefaultConfig()
	if len(os.Args) > 1 {
		loaded, err := simulation.LoadConfig(os.Args[1])
		if err != nil {
			log.Fatalf("💥 cannot load config %s: %v", os.Args[1], err)
		}
		cfg = loaded
	}

	system, err := actor.NewActorSystem("Flock",
		actor.WithLogger(golog.New(golog.InfoLevel, os.Stdout)),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		log.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = system.Stop(ctx) }()

	game, err := viewer.NewGame(ctx, cfg, system)
	if err != nil {
		log.Fatal(err)
	}

	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Flock: random walk and boids")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
