package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/swatch"
	"github.com/urfave/cli/v2"
)

const defaultDB = "swatch.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

type jsonColor struct {
	Hex        string `json:"hex"`
	ARGB       uint32 `json:"argb"`
	Population int    `json:"population"`
}

func printColors(w io.Writer, colors []swatch.Color, asJSON bool) error {
	if asJSON {
		out := make([]jsonColor, len(colors))
		for i, c := range colors {
			out[i] = jsonColor{c.Hex(), c.ARGB(), c.Population}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, c := range colors {
		if _, err := fmt.Fprintf(w, "%s %d\n", c.Hex(), c.Population); err != nil {
			return err
		}
	}
	return nil
}

func open(c *cli.Context) (*swatch.Swatch, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	return swatch.New(c.String("db"), logger, swatch.Options{
		Colors:    c.Int("colors"),
		MaxPixels: c.Int("max-pixels"),
	})
}

func main() {
	app := cli.NewApp()

	app.Name = "swatch"
	app.Usage = "Image dominant color extraction utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SWATCH_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.IntFlag{
			Name:    "colors",
			Aliases: []string{"n"},
			EnvVars: []string{"SWATCH_COLORS"},
			Value:   swatch.DefaultColors,
			Usage:   "maximum number of colors to extract",
		},
		&cli.IntFlag{
			Name:    "max-pixels",
			EnvVars: []string{"SWATCH_MAX_PIXELS"},
			Usage:   "stop sampling after this many opaque pixels, 0 for all",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "extract",
			Usage:       "Extract the dominant colors of an image",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "json",
					Usage: "print colors as JSON",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer s.Close()

				colors, err := s.File(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := printColors(os.Stdout, colors, c.Bool("json")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "lookup",
			Usage:       "Print the cached colors of an image",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "json",
					Usage: "print colors as JSON",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer s.Close()

				colors, err := s.Lookup(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if colors == nil {
					return cli.NewExitError(fmt.Sprintf("no colors cached for \"%s\"", c.Args().First()), 1)
				}

				if err := printColors(os.Stdout, colors, c.Bool("json")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and generate color indexes",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer s.Close()

				if err := s.Scan(context.Background(), c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
