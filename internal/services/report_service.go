package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"crmdashboard/internal/models"
)

const (
	maxStaffStats = 30
	trendMonths   = 12
)

var createdLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

// ReportRenderer turns a summary and its deals into a printable document.
type ReportRenderer interface {
	Render(summary models.DealSummary, deals []models.Deal) ([]byte, error)
}

type ReportService struct {
	Deals    *DealService
	Renderer ReportRenderer
	Now      func() time.Time
}

func NewReportService(deals *DealService, renderer ReportRenderer) *ReportService {
	return &ReportService{Deals: deals, Renderer: renderer, Now: time.Now}
}

func (s *ReportService) GetSummary(ctx context.Context) (models.DealSummary, error) {
	deals, err := s.Deals.List(ctx)
	if err != nil {
		return models.DealSummary{}, err
	}
	return Summarize(deals, s.Now()), nil
}

func (s *ReportService) RenderPDF(ctx context.Context) ([]byte, error) {
	deals, err := s.Deals.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.Renderer.Render(Summarize(deals, s.Now()), deals)
}

// IsWon reports whether status is one of the labels used for a closed-won deal.
func IsWon(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "성공", "성사됨", "won", "success":
		return true
	}
	return false
}

// Summarize aggregates deals. The monthly trend covers the trendMonths months
// up to and including the month of now, oldest first.
func Summarize(deals []models.Deal, now time.Time) models.DealSummary {
	sum := models.DealSummary{
		Total:        len(deals),
		StatusCounts: map[string]int{},
		Categories:   map[string]int{},
		Staff:        []models.StaffStat{},
		Monthly:      make([]models.MonthCount, trendMonths),
	}

	first := time.Date(now.Year(), now.Month()-trendMonths+1, 1, 0, 0, 0, 0, time.UTC)
	monthIdx := make(map[string]int, trendMonths)
	for i := range sum.Monthly {
		month := first.AddDate(0, i, 0).Format("2006-01")
		sum.Monthly[i].Month = month
		monthIdx[month] = i
	}

	byStaff := map[string]*models.StaffStat{}
	for _, d := range deals {
		won := IsWon(d.StatusName())
		sum.StatusCounts[d.StatusName()]++
		sum.Categories[d.CategoryName()]++
		if won {
			sum.Won++
		}
		if month, ok := createdMonth(d.Created()); ok {
			if i, ok := monthIdx[month]; ok {
				sum.Monthly[i].Count++
			}
		}

		staff := d.StaffName()
		if staff == "" {
			continue
		}
		st, ok := byStaff[staff]
		if !ok {
			st = &models.StaffStat{Staff: staff}
			byStaff[staff] = st
		}
		st.Total++
		if won {
			st.Success++
		}
	}

	sum.ConversionRate = percent(sum.Won, sum.Total)
	for _, st := range byStaff {
		st.Rate = percent(st.Success, st.Total)
		sum.Staff = append(sum.Staff, *st)
	}
	sort.Slice(sum.Staff, func(i, j int) bool {
		if sum.Staff[i].Total != sum.Staff[j].Total {
			return sum.Staff[i].Total > sum.Staff[j].Total
		}
		return sum.Staff[i].Staff < sum.Staff[j].Staff
	})
	if len(sum.Staff) > maxStaffStats {
		sum.Staff = sum.Staff[:maxStaffStats]
	}
	return sum
}

func createdMonth(s string) (string, bool) {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01"), true
		}
	}
	return "", false
}

// percent rounds to one decimal place.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
