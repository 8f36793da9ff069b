package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"catadder/internal/catalog"
	"catadder/internal/history"
	"catadder/internal/selector"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

// outputOptions selects between tables and JSON
type outputOptions struct {
	JSON bool
}

func addOutputFlag(cmd *cobra.Command, o *outputOptions) {
	cmd.Flags().BoolVar(&o.JSON, "json", false, "Output as JSON.")
}

func (o *outputOptions) writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

type sourceJSON struct {
	Name        string `json:"name"`
	Driver      string `json:"driver"`
	Description string `json:"description,omitempty"`
}

type catalogJSON struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location"`
	Sources     []sourceJSON `json:"sources"`
}

func printCatalog(w io.Writer, o *outputOptions, cat *catalog.Catalog) error {
	if o.JSON {
		out := catalogJSON{Name: cat.Name, Description: cat.Description, Location: cat.Location, Sources: []sourceJSON{}}
		for _, s := range cat.Sources {
			out.Sources = append(out.Sources, sourceJSON{Name: s.Name, Driver: s.Driver, Description: s.Description})
		}
		return o.writeJSON(w, out)
	}

	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Catalog:"), color.CyanString(cat.Name))
	if cat.Description != "" {
		fmt.Fprintln(w, cat.Description)
	}
	fmt.Fprintf(w, "%s %s\n\n", bold.Sprint("Location:"), cat.Location)

	if len(cat.Sources) == 0 {
		fmt.Fprintln(w, color.YellowString("No sources"))
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	tbl.AddRow(bold.Sprint("SOURCE"), bold.Sprint("DRIVER"), bold.Sprint("DESCRIPTION"))
	for _, s := range cat.Sources {
		tbl.AddRow(s.Name, color.GreenString(s.Driver), s.Description)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

func printEntries(w io.Writer, o *outputOptions, dir string, entries []string) error {
	if o.JSON {
		return o.writeJSON(w, map[string]interface{}{"directory": dir, "entries": entries})
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, color.YellowString("No catalogs in %s", dir))
		return nil
	}
	for _, e := range entries {
		if strings.HasSuffix(e, selector.Separator) {
			fmt.Fprintln(w, color.BlueString(e))
		} else {
			fmt.Fprintln(w, e)
		}
	}
	return nil
}

func printRecent(w io.Writer, o *outputOptions, entries []history.Entry) error {
	if o.JSON {
		if entries == nil {
			entries = []history.Entry{}
		}
		return o.writeJSON(w, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, color.YellowString("No catalogs added yet"))
		return nil
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ADDED"), bold.Sprint("NAME"), bold.Sprint("LOCATION"))
	for _, e := range entries {
		tbl.AddRow(e.Added.Local().Format(time.DateTime), color.CyanString(e.Name), e.Location)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}
