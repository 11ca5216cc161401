package models

// Deal is the dashboard shape of a deals row. A nil field is a column that
// was present but NULL and is served as JSON null.
type Deal struct {
	ID        *int64  `json:"id"`
	Staff     *string `json:"staff"`
	Status    *string `json:"status"`
	CreatedAt *string `json:"created_at"`
	Category  *string `json:"category"`
}

func (d Deal) StaffName() string { return deref(d.Staff) }
func (d Deal) StatusName() string { return deref(d.Status) }
func (d Deal) Created() string { return deref(d.CreatedAt) }
func (d Deal) CategoryName() string { return deref(d.Category) }

func (d Deal) IDValue() int64 {
	if d.ID == nil {
		return 0
	}
	return *d.ID
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type DealsResponse struct {
	Deals []Deal `json:"deals"`
}

type StaffStat struct {
	Staff   string  `json:"staff"`
	Total   int     `json:"total"`
	Success int     `json:"success"`
	Rate    float64 `json:"rate"`
}

// MonthCount is the number of deals created in Month (YYYY-MM).
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type DealSummary struct {
	Total          int            `json:"total"`
	Won            int            `json:"won"`
	ConversionRate float64        `json:"conversion_rate"`
	StatusCounts   map[string]int `json:"status_counts"`
	Categories     map[string]int `json:"categories"`
	Staff          []StaffStat    `json:"staff"`
	Monthly        []MonthCount   `json:"monthly"`
}
