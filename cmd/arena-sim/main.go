// Command arena-sim benchmarks a built-in strategy over many seeded hands
// without a server in the loop.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/game"
	"github.com/ttu-cr-stl/poker-bot-arena/internal/simulator"
	"github.com/ttu-cr-stl/poker-bot-arena/internal/statistics"
)

type cli struct {
	Hands         int    `help:"Number of hands to simulate." default:"10000"`
	Subject       string `help:"Strategy under test." default:"random" enum:"folder,caller,minraiser,random"`
	Field         string `help:"Opponent strategy, or mixed." default:"mixed" enum:"folder,caller,minraiser,random,mixed"`
	Seats         int    `help:"Seats at the table (2-9)." default:"6"`
	StartingStack int    `help:"Chips each seat starts every hand with." default:"10000"`
	SB            int    `help:"Small blind." default:"50"`
	BB            int    `help:"Big blind." default:"100"`
	Seed          int64  `help:"Base seed; 0 derives one from the clock." default:"0"`
	LogLevel      string `help:"Log level (debug, info, warn, error)." default:"warn" enum:"debug,info,warn,error"`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("arena-sim"),
		kong.Description("In-process strategy benchmark for the poker arena."),
		kong.UsageOnError(),
	)

	level, _ := log.ParseLevel(args.LogLevel)
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "sim",
	})

	seed := args.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	table := game.DefaultConfig()
	table.Seats = args.Seats
	table.StartingStack = args.StartingStack
	table.SmallBlind = args.SB
	table.BigBlind = args.BB

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	stats, err := simulator.New(simulator.Config{
		Hands:   args.Hands,
		Table:   table,
		Subject: args.Subject,
		Field:   args.Field,
		Seed:    seed,
		Logger:  logger,
	}).Run(ctx)
	if err != nil {
		logger.Fatal("simulation failed", "err", err)
	}

	printReport(args, seed, stats, time.Since(start))
}

func printReport(args cli, seed int64, stats *statistics.Statistics, elapsed time.Duration) {
	lo, hi := stats.ConfidenceInterval95()
	fmt.Printf("%s vs %s: %d hands in %s (seed %d)\n",
		args.Subject, args.Field, stats.Hands, elapsed.Round(time.Millisecond), seed)
	fmt.Printf("  mean      %+.3f bb/hand  (95%% CI %+.3f .. %+.3f)\n", stats.Mean(), lo, hi)
	fmt.Printf("  median    %+.3f bb   stddev %.3f bb\n", stats.Median(), stats.StdDev())
	fmt.Printf("  showdown  %+.1f bb over %d wins\n", stats.ShowdownBB, stats.ShowdownWins)
	fmt.Printf("  fold-outs %+.1f bb over %d wins\n", stats.UncontestedBB, stats.UncontestedWins)
	fmt.Printf("  max pot   %.1f bb\n", stats.MaxPotBB)
	fmt.Println("  by seat:")
	for seat, res := range stats.SeatResults {
		fmt.Printf("    seat %d  %+.3f bb/hand over %d hands\n", seat, res.Mean(), res.Hands)
	}
}
