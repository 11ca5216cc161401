package services

import "crmdashboard/internal/models"

// sampleDeals stands in for the deals table while it is still empty.
var sampleDeals = []models.Row{
	{"id": 1, "deal_owner": "김영호", "deal_status": "진행중", "deal_created_at": "2024-04-01", "category": "SaaS"},
	{"id": 2, "deal_owner": "박지연", "deal_status": "성공", "deal_created_at": "2024-04-02", "category": "Cloud"},
	{"id": 3, "deal_owner": "김영호", "deal_status": "성공", "deal_created_at": "2024-04-03", "category": "AI"},
	{"id": 4, "deal_owner": "이민지", "deal_status": "진행중", "deal_created_at": "2024-04-04", "category": "Finance"},
	{"id": 5, "deal_owner": "박지연", "deal_status": "실패", "deal_created_at": "2024-04-05", "category": "Analytics"},
	{"id": 6, "deal_owner": "김영호", "deal_status": "성공", "deal_created_at": "2024-04-06", "category": "IoT"},
	{"id": 7, "deal_owner": "이민지", "deal_status": "진행중", "deal_created_at": "2024-04-07", "category": "SaaS"},
}
