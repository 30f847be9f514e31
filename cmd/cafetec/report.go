package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cafetec/cafetec-client/internal/ports"
	"github.com/cafetec/cafetec-client/internal/service/guard"
)

type reportOptions struct {
	Page int
	CSV  string
}

func parseReportFlags(args []string) (reportOptions, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := reportOptions{Page: 1}
	fs.IntVar(&opts.Page, "page", 1, "Page of rows to display")
	fs.StringVar(&opts.CSV, "csv", "", "Write all rows as CSV to this path ('-' for stdout)")

	if err := fs.Parse(args); err != nil {
		return reportOptions{}, err
	}
	return opts, nil
}

func runReport(cmdCtx *commandContext, args []string) error {
	opts, err := parseReportFlags(args)
	if err != nil {
		return err
	}
	token, err := restoreSession(cmdCtx)
	if err != nil {
		return err
	}

	g := cmdCtx.App.AdminGuard()
	defer g.Close()
	if g.State() != guard.StateGranted {
		return errors.New("the sales report requires the administrator role")
	}

	rows, err := cmdCtx.App.Report.Load(cmdCtx.Ctx, token)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return writeln(os.Stdout, "(no sales)")
	}

	if opts.CSV != "" {
		return exportReportCSV(cmdCtx, rows, opts.CSV)
	}

	pageRows, pages := cmdCtx.App.Report.Page(rows, opts.Page)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Date\tOrder\tProduct\tQty\tTotal\tMethod"); err != nil {
		return err
	}
	for _, r := range pageRows {
		if err := writef(w, "%s\t%d\t%s\t%d\t%s\t%s\n",
			r.Date.Format("2006-01-02 15:04"), r.OrderID, r.ProductName,
			r.Quantity, r.Total.StringFixed(2), r.Method); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush report table: %w", err)
	}
	return writef(os.Stdout, "\nPage %d of %d (%d rows total)\n", opts.Page, pages, len(rows))
}

func exportReportCSV(cmdCtx *commandContext, rows []ports.SalesRow, path string) error {
	if path == "-" {
		return cmdCtx.App.Report.ExportCSV(os.Stdout, rows)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close csv file failed", "error", cerr)
		}
	}()

	if err := cmdCtx.App.Report.ExportCSV(f, rows); err != nil {
		return err
	}
	return writef(os.Stdout, "Wrote %d rows to %s\n", len(rows), path)
}
