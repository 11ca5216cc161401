package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"crmdashboard/internal/models"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(summary models.DealSummary, deals []models.Deal) ([]byte, error) {
	args := m.Called(summary, deals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestIsWon(t *testing.T) {
	for _, s := range []string{"성공", "성사됨", "won", "Success", " WON "} {
		assert.True(t, IsWon(s), s)
	}
	for _, s := range []string{"진행중", "실패", "보류", "in progress", "failed", ""} {
		assert.False(t, IsWon(s), s)
	}
}

func TestSummarize_SampleDeals(t *testing.T) {
	svc := NewDealService(newMemStore(), "deals", "")
	deals, err := svc.List(context.Background())
	require.NoError(t, err)

	sum := Summarize(deals, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 7, sum.Total)
	assert.Equal(t, 3, sum.Won)
	assert.Equal(t, 42.9, sum.ConversionRate)
	assert.Equal(t, map[string]int{"진행중": 3, "성공": 3, "실패": 1}, sum.StatusCounts)
	assert.Equal(t, 2, sum.Categories["SaaS"])
	assert.Equal(t, []models.StaffStat{
		{Staff: "김영호", Total: 3, Success: 2, Rate: 66.7},
		{Staff: "박지연", Total: 2, Success: 1, Rate: 50},
		{Staff: "이민지", Total: 2, Success: 0, Rate: 0},
	}, sum.Staff)
	require.Len(t, sum.Monthly, 12)
	assert.Equal(t, models.MonthCount{Month: "2023-07", Count: 0}, sum.Monthly[0])
	assert.Equal(t, models.MonthCount{Month: "2024-04", Count: 7}, sum.Monthly[9])
	assert.Equal(t, models.MonthCount{Month: "2024-06", Count: 0}, sum.Monthly[11])
}

func TestSummarize_MonthlyTrend(t *testing.T) {
	deal := func(created string) models.Deal {
		return models.Deal{CreatedAt: &created}
	}
	deals := []models.Deal{
		deal("2025-01-31"),
		deal("2025-01-01T23:59:00Z"),
		deal("2024-12-10 08:00:00"),
		deal("2024-01-15"), // before the window
		deal("2025-03-01"), // after now
		deal("someday"),
		deal(""),
		{CreatedAt: nil},
	}

	sum := Summarize(deals, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC))
	require.Len(t, sum.Monthly, 12)
	assert.Equal(t, "2024-02", sum.Monthly[0].Month)
	assert.Equal(t, "2025-01", sum.Monthly[11].Month)
	assert.Equal(t, 2, sum.Monthly[11].Count)
	assert.Equal(t, models.MonthCount{Month: "2024-12", Count: 1}, sum.Monthly[10])

	counted := 0
	for _, m := range sum.Monthly {
		counted += m.Count
	}
	assert.Equal(t, 3, counted)
	assert.Equal(t, 8, sum.Total)
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil, time.Now())
	assert.Equal(t, 0, sum.Total)
	assert.Equal(t, float64(0), sum.ConversionRate)
	assert.NotNil(t, sum.StatusCounts)
	assert.NotNil(t, sum.Staff)
	assert.Empty(t, sum.Staff)
}

func TestSummarize_SkipsBlankStaffAndCapsList(t *testing.T) {
	var deals []models.Deal
	won, lost, blank := "won", "lost", ""
	for i := 0; i < maxStaffStats+5; i++ {
		staff := fmt.Sprintf("staff-%02d", i)
		deals = append(deals, models.Deal{Staff: &staff, Status: &won})
	}
	deals = append(deals, models.Deal{Staff: &blank, Status: &lost}, models.Deal{Status: &lost})

	sum := Summarize(deals, time.Now())
	assert.Equal(t, maxStaffStats+7, sum.Total)
	assert.Len(t, sum.Staff, maxStaffStats)
	assert.Equal(t, "staff-00", sum.Staff[0].Staff)
	assert.Equal(t, float64(100), sum.Staff[0].Rate)
}

func TestReportService_GetSummary(t *testing.T) {
	store := &MockStore{}
	store.On("Query", mock.Anything, "deals").Return([]models.Row{
		{"id": int64(1), "deal_owner": "Kim", "deal_status": "won"},
		{"id": int64(2), "deal_owner": "Kim", "deal_status": "lost"},
	}, nil)

	svc := NewReportService(NewDealService(store, "deals", ""), nil)
	svc.Now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	sum, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 50.0, sum.ConversionRate)
	assert.Equal(t, "2024-03", sum.Monthly[11].Month)
}

func TestReportService_GetSummaryError(t *testing.T) {
	store := &MockStore{}
	store.On("Query", mock.Anything, "deals").Return(nil, errors.New("down"))

	_, err := NewReportService(NewDealService(store, "deals", ""), nil).GetSummary(context.Background())
	assert.EqualError(t, err, "down")
}

func TestReportService_RenderPDF(t *testing.T) {
	renderer := &MockRenderer{}
	renderer.On("Render", mock.AnythingOfType("models.DealSummary"), mock.Anything).Return([]byte("%PDF-1.3"), nil)

	out, err := NewReportService(NewDealService(newMemStore(), "deals", ""), renderer).RenderPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), out)

	call := renderer.Calls[0]
	assert.Equal(t, 7, call.Arguments.Get(0).(models.DealSummary).Total)
	assert.Len(t, call.Arguments.Get(1).([]models.Deal), 7)
}
