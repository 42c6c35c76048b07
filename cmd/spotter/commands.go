package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/spotter-dz/spotter/internal/geo"
	"github.com/spotter-dz/spotter/internal/planner"
	"github.com/spotter-dz/spotter/internal/render"
	"github.com/spotter-dz/spotter/internal/scenario"
)

type command func(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) error

var commands = map[string]command{
	"calc":    calcCmd,
	"geojson": geojsonCmd,
	"history": historyCmd,
}

var errUsage = errors.New("invalid arguments")

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// solve loads a scenario and runs it through the planner.
func solve(ctx context.Context, a *app, path string) (*scenario.Scenario, *planner.Response, error) {
	s, err := scenario.Load(path, a.defaults)
	if err != nil {
		return nil, nil, err
	}
	resp, err := a.planner.Calculate(ctx, planner.Request{
		Jump:     s.Jump,
		Common:   s.Common,
		Terrain:  s.Terrain,
		Forecast: s.Forecast,
	})
	if err != nil {
		return nil, nil, err
	}
	return s, resp, nil
}

func calcCmd(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("calc", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: calc needs exactly one scenario file", errUsage)
	}

	_, resp, err := solve(ctx, a, fs.Arg(0))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func geojsonCmd(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("geojson", stderr)
	epsg := fs.Int("epsg", int(geo.EPSG4326), "output EPSG code (4326 or 3857)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: geojson needs exactly one scenario file", errUsage)
	}
	proj, err := geo.ParseProjection(*epsg)
	if err != nil {
		return err
	}

	s, resp, err := solve(ctx, a, fs.Arg(0))
	if err != nil {
		return err
	}
	return render.WriteGeoJSON(stdout, resp.Result, s.Common.LandingZone, proj)
}

func historyCmd(_ context.Context, a *app, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("history", stderr)
	limit := fs.Int("limit", 20, "number of calculations to list, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("%w: history takes no arguments", errUsage)
	}

	calcs, err := a.planner.History(*limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tHASH\tLANDING ZONE\tJUMP TIME\tHEADING\tGROUPS")
	for _, c := range calcs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.5f,%.5f\t%s\t%.0f\t%d\n",
			c.ID,
			c.CreatedAt.UTC().Format(time.RFC3339),
			c.InputHash,
			c.LandingZone.Lat, c.LandingZone.Lon,
			c.JumpTime.UTC().Format(time.RFC3339),
			c.Heading,
			len(c.ExitPoints),
		)
	}
	return w.Flush()
}
