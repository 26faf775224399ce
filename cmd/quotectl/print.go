package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

var (
	successColor  = color.New(color.FgGreen)
	warningColor  = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed, color.Bold)
	infoColor     = color.New(color.FgCyan)
	categoryColor = color.New(color.FgMagenta)
	dimColor      = color.New(color.Faint)
)

func printSuccess(w io.Writer, format string, args ...any) {
	_, _ = successColor.Fprintf(w, format+"\n", args...)
}

func printWarning(w io.Writer, format string, args ...any) {
	_, _ = warningColor.Fprintf(w, format+"\n", args...)
}

func printError(w io.Writer, format string, args ...any) {
	_, _ = errorColor.Fprintf(w, "Error: "+format+"\n", args...)
}

func printInfo(w io.Writer, format string, args ...any) {
	_, _ = infoColor.Fprintf(w, format+"\n", args...)
}

func printQuote(w io.Writer, q domain.Quote) {
	_, _ = fmt.Fprintf(w, "%q\n  %s  %s\n",
		q.Text,
		categoryColor.Sprint(q.Category),
		dimColor.Sprintf("%s · %s", q.Source, q.ID),
	)
}

func printView(w io.Writer, view domain.View, lastSync time.Time) {
	if len(view.Quotes) == 0 {
		printWarning(w, "No quotes match.")
	}

	for _, q := range view.Quotes {
		printQuote(w, q)
	}

	summary := fmt.Sprintf("Showing %d of %d (filter: %s", view.Shown, view.Total, view.Filter)
	if view.Search != "" {
		summary += fmt.Sprintf(", search: %q", view.Search)
	}

	_, _ = dimColor.Fprintf(w, "%s) · last sync: %s\n", summary, formatLastSync(lastSync))
}

func printConflict(w io.Writer, c domain.Conflict) {
	_, _ = warningColor.Fprintf(w, "%s  %s\n", c.ID, c.Kind)
	_, _ = fmt.Fprintf(w, "  local:  %q [%s]\n", c.Local.Text, c.Local.Category)
	_, _ = fmt.Fprintf(w, "  server: %q [%s]\n", c.Server.Text, c.Server.Category)
}

func printReport(w io.Writer, r domain.SyncReport) {
	if r.Offline {
		printWarning(w, "%s", r.Summary())
	} else {
		printSuccess(w, "%s", r.Summary())
	}

	if r.Pending > 0 {
		printInfo(w, "%d conflict(s) awaiting review. Run 'quotectl conflicts'.", r.Pending)
	}
}

func formatLastSync(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return t.Local().Format(time.DateTime)
}
