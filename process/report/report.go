// Package report summarizes a user's hisaabs for one calendar month.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"khaata/models"
	"khaata/pkg/amount"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

// Source is the store query the report needs.
type Source interface {
	HisaabsBetween(ctx context.Context, username string, start, end time.Time) ([]models.Hisaab, error)
}

// Report is a month-bounded (UTC) view of one user's ledger.
type Report struct {
	Username string
	Month    time.Time
	Currency string
	Rows     []models.Hisaab
	Total    decimal.Decimal
	Skipped  int // rows whose amount is not a number
}

// Build loads the hisaabs of username dated within month (YYYY-MM).
func Build(ctx context.Context, src Source, username, month, currency string) (*Report, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", month, err)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := src.HisaabsBetween(ctx, username, start, end)
	if err != nil {
		return nil, err
	}
	amounts := make([]string, len(rows))
	for i, r := range rows {
		amounts[i] = r.Amount
	}
	total, skipped := amount.Sum(amounts)
	return &Report{
		Username: username,
		Month:    start,
		Currency: currency,
		Rows:     rows,
		Total:    total,
		Skipped:  skipped,
	}, nil
}

// Markdown renders the summary and, when list is set, a table of rows.
func (r *Report) Markdown(list bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Hisaab report: %s, %s\n\n", r.Username, r.Month.Format("January 2006"))
	fmt.Fprintf(&b, "- Records: **%d**\n", len(r.Rows))
	fmt.Fprintf(&b, "- Total: **%s**\n", amount.Format(r.Total, r.Currency))
	if r.Skipped > 0 {
		fmt.Fprintf(&b, "- Non-numeric amounts skipped: %d\n", r.Skipped)
	}
	if list && len(r.Rows) > 0 {
		b.WriteString("\n| # | Date | Amount | Description |\n|---|---|---:|---|\n")
		for _, row := range r.Rows {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
				row.ID, row.Date.UTC().Format("2006-01-02"), cell(row.Amount), cell(row.Description))
		}
	}
	return b.String()
}

// Render formats markdown for the terminal.
func Render(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	return r.Render(md)
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
