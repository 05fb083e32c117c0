// Command dagrandom emits random canonical DAG-CBOR items, for fuzzing and
// interop testing against other implementations: a small urfave/cli
// wrapper around a generator package that otherwise knows nothing about
// the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	"github.com/hashberg-io/dag-cbor/dagcbor"
	"github.com/hashberg-io/dag-cbor/internal/dagrandom"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "dagrandom",
		Usage:   "generate random canonical DAG-CBOR items",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "seed", Value: 0, Usage: "PRNG seed, for reproducible output"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "number of items to emit"},
			&cli.IntFlag{Name: "max-nesting", Value: 2, Usage: "maximum list/map nesting depth"},
			&cli.BoolFlag{Name: "include-link", Value: true, Usage: "allow generating CID link values"},
		},
		Action: func(c *cli.Context) error {
			opts := dagrandom.DefaultOptions()
			opts.MaxNesting = c.Int("max-nesting")
			opts.IncludeLink = c.Bool("include-link")
			gen := dagrandom.New(c.Int64("seed"), opts)

			for i := 0; i < c.Int("count"); i++ {
				v := gen.Value()
				b, err := dagcbor.Encode(v)
				if err != nil {
					return fmt.Errorf("encoding generated value: %w", err)
				}
				if _, err := os.Stdout.Write(b); err != nil {
					return err
				}
			}
			slog.Debug("generated items", "count", c.Int("count"), "seed", c.Int64("seed"))
			return nil
		},
	}
	return app.Run(args)
}
