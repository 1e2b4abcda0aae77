package dto

import model "repair-pool.com/repair-pool/internal/models"

type TaskListResponse struct {
	Count int          `json:"count"`
	Tasks []model.Task `json:"tasks"`
}

type LedgerResponse struct {
	Count   int                 `json:"count"`
	Entries []model.LedgerEntry `json:"entries"`
}

type SweepResponse struct {
	Awarded int `json:"awarded"`
}
