package dto

type CreateTaskRequest struct {
	Title         string  `json:"title"`
	Category      string  `json:"category"`
	Scope         string  `json:"scope"`
	Location      string  `json:"location"`
	Details       string  `json:"details"`
	PhotoRef      *string `json:"photo_ref"`
	StartingPrice int64   `json:"starting_price"`
	WarrantyDays  int     `json:"warranty_days"`
}

type PlaceBidRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

type RateTaskRequest struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}
