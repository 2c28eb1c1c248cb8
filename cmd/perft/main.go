package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chess-core/board"
	"chess-core/crosscheck"
	"chess-core/magic"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	parallel := flag.Bool("parallel", false, "Spread root moves over worker goroutines")
	workers := flag.Int("workers", 0, "Worker goroutines for -parallel (0 = GOMAXPROCS)")
	check := flag.Bool("crosscheck", false, "Compare node counts against dragontoothmg, goosemg and notnil/chess")
	magics := flag.String("magics", "", "Load sliding attack tables from this dataset file")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log.SetHandler(cli.Default)
	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "-log-level: %v\n", err)
		os.Exit(2)
	}
	log.SetLevel(lvl)

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	if *magics != "" {
		t, err := magic.Load(*magics)
		if err != nil {
			log.WithError(err).Fatal("load attack tables")
		}
		if err := board.SetAttackTables(t); err != nil {
			log.WithError(err).Fatal("install attack tables")
		}
		rook, bishop := t.Len()
		log.WithFields(log.Fields{"file": *magics, "rook": rook, "bishop": bishop}).Info("attack tables loaded")
	}

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *check {
		r, err := crosscheck.Run(ctx, *fen, *depth)
		if err != nil {
			log.WithError(err).Fatal("crosscheck")
		}
		for _, name := range crosscheck.Engines {
			fmt.Printf("%-14s %d\n", name, r.Counts[name])
		}
		if !r.OK() {
			os.Exit(1)
		}
		return
	}

	if *divide {
		div, err := board.PerftDivide(&pos, *depth)
		if err != nil {
			log.WithError(err).Fatal("divide")
		}
		moves := maps.Keys(div)
		slices.Sort(moves)
		var sum uint64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.WithError(err).Fatal("create cpu profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Fatal("start cpu profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		var n uint64
		if *parallel {
			n, err = board.PerftParallel(ctx, &pos, *depth, *workers)
		} else {
			n, err = board.Perft(&pos, *depth)
		}
		if err != nil {
			log.WithError(err).Fatal("perft")
		}
		totalNodes += n
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	log.WithFields(log.Fields{"depth": *depth, "nodes": totalNodes, "elapsed": elapsed, "parallel": *parallel}).Debug("done")
	// Single line: Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)
}
