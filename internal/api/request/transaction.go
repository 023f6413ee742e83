package request

// ReasonRequest is the rationale attached to a buy or a sell.
type ReasonRequest struct {
	Tags []string `json:"tags" validate:"omitempty,max=20,dive,required,max=30"`
	Note string   `json:"note" validate:"max=500"`
}

type CreateBuyRequest struct {
	StockID   string         `json:"stockId" validate:"required,uuid"`
	Quantity  int64          `json:"quantity" validate:"required,gt=0"`
	Price     float64        `json:"price" validate:"required,gt=0"`
	Fee       *float64       `json:"fee" validate:"required,gte=0"`
	Timestamp string         `json:"timestamp" validate:"required"`
	Reason    *ReasonRequest `json:"reason,omitempty"`
}

type CreateSellRequest struct {
	ParentBuyID string         `json:"parentBuyId" validate:"required,uuid"`
	Quantity    int64          `json:"quantity" validate:"required,gt=0"`
	Price       float64        `json:"price" validate:"required,gt=0"`
	Fee         *float64       `json:"fee" validate:"required,gte=0"`
	Timestamp   string         `json:"timestamp" validate:"required"`
	Reason      *ReasonRequest `json:"reason,omitempty"`
}

// UpdateTransactionRequest edits a buy or a sell. Omitted fields keep their value.
type UpdateTransactionRequest struct {
	Quantity  *int64         `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Price     *float64       `json:"price,omitempty" validate:"omitempty,gt=0"`
	Fee       *float64       `json:"fee,omitempty" validate:"omitempty,gte=0"`
	Timestamp *string        `json:"timestamp,omitempty"`
	Reason    *ReasonRequest `json:"reason,omitempty"`
}
