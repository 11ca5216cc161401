package pdf

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdashboard/internal/models"
)

func TestReportGenerator_Render(t *testing.T) {
	g := NewReportGenerator("", "")
	g.Now = func() time.Time { return time.Date(2024, 4, 8, 10, 0, 0, 0, time.UTC) }

	deals := []models.Deal{
		newDeal(1, "김영호", "진행중", "2024-04-01", "SaaS"),
		newDeal(2, "Kim", "won", "2024-04-02", "Cloud"),
		{},
	}
	summary := models.DealSummary{
		Total:          3,
		Won:            1,
		ConversionRate: 33.3,
		Staff:          []models.StaffStat{{Staff: "Kim", Total: 1, Success: 1, Rate: 100}},
		Monthly:        []models.MonthCount{{Month: "2024-03", Count: 0}, {Month: "2024-04", Count: 2}},
	}

	out, err := g.Render(summary, deals)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestReportGenerator_RenderManyDealsSpansPages(t *testing.T) {
	var deals []models.Deal
	for i := 0; i < 120; i++ {
		deals = append(deals, newDeal(int64(i), "Lee", "lost", "", ""))
	}

	out, err := NewReportGenerator("", "Pipeline").Render(models.DealSummary{Total: len(deals)}, deals)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestReportGenerator_MissingFont(t *testing.T) {
	g := NewReportGenerator(filepath.Join(t.TempDir(), "missing.ttf"), "")

	_, err := g.Render(models.DealSummary{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render report")
}

func newDeal(id int64, staff, status, createdAt, category string) models.Deal {
	return models.Deal{ID: &id, Staff: &staff, Status: &status, CreatedAt: &createdAt, Category: &category}
}
