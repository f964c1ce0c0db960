package vehicle

type RegisterRequest struct {
	LicensePlate string `json:"license_plate" binding:"required"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Color        string `json:"color"`
}
