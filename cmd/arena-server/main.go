// Command arena-server hosts a single no-limit hold'em table for bot
// clients over websockets.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/server"
)

type cli struct {
	Config string `help:"Path to an HCL configuration file." type:"existingfile" short:"c"`

	Host     string `help:"Listen host." default:"0.0.0.0"`
	Port     int    `help:"Listen port." default:"8080" short:"p"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info" enum:"debug,info,warn,error"`

	Seats         int  `help:"Seats at the table." default:"6"`
	StartingStack int  `help:"Chips each seat starts with." default:"10000"`
	SB            int  `help:"Small blind." default:"50"`
	BB            int  `help:"Big blind." default:"100"`
	MoveTime      int  `help:"Per-move time budget in milliseconds." default:"3000"`
	ManualControl bool `help:"Disable the move timer; turns advance via skip commands."`

	PresentationDelay int `help:"Delay between frames for presentation spectators, in milliseconds." default:"600"`
}

func main() {
	var args cli
	kctx := kong.Parse(&args,
		kong.Name("arena-server"),
		kong.Description("Websocket poker server for autonomous bots."),
		kong.UsageOnError(),
	)

	cfg, err := buildConfig(args, kctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "arena",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg, logger, quartz.NewReal())
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server failed", "err", err)
	}
}

// buildConfig layers the optional HCL file under any flags the user set
// explicitly on the command line.
func buildConfig(args cli, kctx *kong.Context) (server.Config, error) {
	cfg := server.DefaultConfig()
	if args.Config != "" {
		loaded, err := server.LoadConfig(args.Config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	set := map[string]bool{}
	for _, flag := range kctx.Flags() {
		set[flag.Name] = flag.Set
	}
	if cfg.Table == nil {
		cfg.Table = &server.TableBlock{}
	}
	if set["host"] || args.Config == "" {
		cfg.Host = args.Host
	}
	if set["port"] || args.Config == "" {
		cfg.Port = args.Port
	}
	if set["log-level"] || args.Config == "" {
		cfg.LogLevel = args.LogLevel
	}
	if set["manual-control"] {
		cfg.ManualControl = args.ManualControl
	}
	if set["presentation-delay"] {
		cfg.PresentationDelayMS = args.PresentationDelay
	}
	if set["seats"] {
		cfg.Table.Seats = &args.Seats
	}
	if set["starting-stack"] {
		cfg.Table.StartingStack = &args.StartingStack
	}
	if set["sb"] {
		cfg.Table.SmallBlind = &args.SB
	}
	if set["bb"] {
		cfg.Table.BigBlind = &args.BB
	}
	if set["move-time"] {
		cfg.Table.MoveTimeMS = &args.MoveTime
	}
	return cfg, cfg.Validate()
}
