// Command arena-bot connects a built-in strategy to an arena server.
// It is the quickest way to fill seats for a test match.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/ttu-cr-stl/poker-bot-arena/sdk"
)

type cli struct {
	Server   string `help:"Websocket URL of the arena server." default:"ws://127.0.0.1:8080/ws" short:"s"`
	Team     string `help:"Team name to register under." required:"" short:"t"`
	Strategy string `help:"Built-in strategy to play." default:"caller" enum:"folder,caller,minraiser,random"`
	Seed     int64  `help:"Seed for the random strategy; 0 derives one from the clock." default:"0"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info" enum:"debug,info,warn,error"`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("arena-bot"),
		kong.Description("Reference bot client for the poker arena."),
		kong.UsageOnError(),
	)

	level, _ := log.ParseLevel(args.LogLevel)
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "bot",
	})

	var strategy sdk.Strategy
	switch args.Strategy {
	case "folder":
		strategy = sdk.Folder{}
	case "caller":
		strategy = sdk.CallingStation{}
	case "minraiser":
		strategy = sdk.MinRaiser{}
	case "random":
		seed := args.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		strategy = sdk.NewRandom(seed)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := sdk.New(args.Server, args.Team, strategy, logger)
	if err := client.Dial(ctx); err != nil {
		logger.Fatal("connect failed", "err", err)
	}
	defer client.Close()

	err := client.Run(ctx)
	switch {
	case err == nil:
		if client.MatchEnd != nil && client.MatchEnd.Winner != nil {
			fmt.Printf("winner: seat %d (%s)\n", client.MatchEnd.Winner.Seat, client.MatchEnd.Winner.Team)
		}
	case errors.Is(err, context.Canceled):
	default:
		logger.Fatal("session ended", "err", err)
	}
}
