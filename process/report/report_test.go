package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"khaata/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rows       []models.Hisaab
	err        error
	start, end time.Time
}

func (f *fakeSource) HisaabsBetween(_ context.Context, _ string, start, end time.Time) ([]models.Hisaab, error) {
	f.start, f.end = start, end
	return f.rows, f.err
}

func TestBuild(t *testing.T) {
	src := &fakeSource{rows: []models.Hisaab{
		{ID: 1, Date: time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC), Amount: "100", Description: "lunch"},
		{ID: 2, Date: time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC), Amount: "20.50", Description: "tea | snacks"},
		{ID: 3, Date: time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC), Amount: "some", Description: "?"},
	}}

	r, err := Build(context.Background(), src, "alice", "2025-08", "INR")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), src.start)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), src.end)
	assert.Equal(t, "120.5", r.Total.String())
	assert.Equal(t, 1, r.Skipped)

	md := r.Markdown(true)
	assert.Contains(t, md, "alice, August 2025")
	assert.Contains(t, md, "₹120.50")
	assert.Contains(t, md, `tea \| snacks`)
	assert.Contains(t, md, "Non-numeric amounts skipped: 1")

	short := r.Markdown(false)
	assert.NotContains(t, short, "| Date |")
}

func TestBuildInvalidMonth(t *testing.T) {
	_, err := Build(context.Background(), &fakeSource{}, "alice", "08-2025", "INR")
	assert.Error(t, err)
}

func TestBuildSourceError(t *testing.T) {
	_, err := Build(context.Background(), &fakeSource{err: errors.New("db down")}, "alice", "2025-08", "INR")
	assert.EqualError(t, err, "db down")
}

func TestRender(t *testing.T) {
	out, err := Render("# Title\n\n- item\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}

func TestMarkdownListsUTCDays(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*3600)
	src := &fakeSource{rows: []models.Hisaab{
		{ID: 7, Date: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC).In(west), Amount: "5", Description: "bus"},
	}}
	r, err := Build(context.Background(), src, "alice", "2025-08", "INR")
	require.NoError(t, err)
	md := r.Markdown(true)
	assert.Contains(t, md, "| 7 | 2025-08-01 |")
	assert.NotContains(t, md, "2025-07-31")
}
