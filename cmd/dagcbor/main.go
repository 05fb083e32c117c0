// Command dagcbor encodes and decodes DAG-CBOR, for inspecting blocks from
// the command line: a urfave/cli app whose sub-commands are each defined
// as their own cli.Command value, with shared output helpers for
// pretty-printing decoded data.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	"github.com/hashberg-io/dag-cbor/dagcbor"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "dagcbor",
		Usage:   "encode and decode DAG-CBOR data",
		Version: versioninfo.Short(),
		Commands: []*cli.Command{
			cmdDecode,
			cmdEncode,
		},
	}
	return app.Run(args)
}

var cmdDecode = &cli.Command{
	Name:      "decode",
	Usage:     "decode a DAG-CBOR item and print it as JSON",
	ArgsUsage: "[file]",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "allow-concat", Usage: "permit trailing bytes after the first item"},
	},
	Action: func(c *cli.Context) error {
		data, err := readInput(c.Args().First())
		if err != nil {
			return err
		}

		dec := dagcbor.Decoder{KeepSource: true}
		var v dagcbor.Value
		if c.Bool("allow-concat") {
			v, _, err = dec.DecodeAllowConcat(data)
		} else {
			v, err = dec.Decode(data)
		}
		if err != nil {
			if de, ok := err.(*dagcbor.DecodeError); ok {
				slog.Error("decode failed", "kind", de.Kind, "offset", de.Offset, "path", de.Path)
				if snippet := de.Snippet(8); snippet != "" {
					fmt.Fprintln(os.Stderr, snippet)
				}
			}
			return err
		}

		rendered, err := valueToJSON(v)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rendered)
	},
}

var cmdEncode = &cli.Command{
	Name:      "encode",
	Usage:     "read JSON and print its canonical DAG-CBOR encoding",
	ArgsUsage: "[file]",
	Action: func(c *cli.Context) error {
		data, err := readInput(c.Args().First())
		if err != nil {
			return err
		}
		v, err := jsonToValue(data)
		if err != nil {
			return err
		}
		out, err := dagcbor.Encode(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
