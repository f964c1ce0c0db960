package facility

type CreateRequest struct {
	Name          string  `json:"name" validate:"required"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	TotalCapacity int     `json:"total_capacity" validate:"required,gt=0"`
	HourlyRate    float64 `json:"hourly_rate" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
}
