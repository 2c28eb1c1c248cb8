// Command magicgen searches for magic multipliers and writes the sliding
// attack dataset that cmd/perft -magics and magic.Load read back.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"chess-core/magic"
)

func main() {
	seed := flag.Uint64("seed", magic.DefaultSeed, "PRNG seed for the candidate search")
	out := flag.String("out", "magics.bin", "Output dataset file")
	verify := flag.Bool("verify", true, "Check every lookup against ray casting before writing")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log.SetHandler(cli.Default)
	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "-log-level: %v\n", err)
		os.Exit(2)
	}
	log.SetLevel(lvl)

	ctx := log.WithFields(log.Fields{"seed": *seed, "out": *out})

	start := time.Now()
	t, err := magic.Generate(*seed)
	if err != nil {
		ctx.WithError(err).Fatal("generate")
	}
	rook, bishop := t.Len()
	ctx.WithFields(log.Fields{"rook": rook, "bishop": bishop, "elapsed": time.Since(start)}).Info("tables generated")

	for sq := 0; sq < 64; sq++ {
		r, b := t.RookEntry(sq), t.BishopEntry(sq)
		ctx.WithFields(log.Fields{
			"square":       sq,
			"rook_magic":   fmt.Sprintf("%#016x", r.Magic),
			"rook_shift":   r.Shift,
			"bishop_magic": fmt.Sprintf("%#016x", b.Magic),
			"bishop_shift": b.Shift,
		}).Debug("magic")
	}

	if *verify {
		if err := t.Verify(); err != nil {
			ctx.WithError(err).Fatal("verify")
		}
		ctx.Info("verified")
	}

	if err := t.Save(*out); err != nil {
		ctx.WithError(err).Fatal("save")
	}
	ctx.Info("dataset written")
}
