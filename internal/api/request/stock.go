package request

type CreateStockRequest struct {
	Code         string  `json:"stockCode" validate:"required,max=20"`
	Name         string  `json:"stockName" validate:"required,max=100"`
	CurrentPrice float64 `json:"currentPrice" validate:"required,gt=0"`
}

type UpdateStockRequest struct {
	Code         *string  `json:"stockCode,omitempty" validate:"omitempty,max=20"`
	Name         *string  `json:"stockName,omitempty" validate:"omitempty,max=100"`
	CurrentPrice *float64 `json:"currentPrice,omitempty" validate:"omitempty,gt=0"`
}

type UpdatePriceRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}
