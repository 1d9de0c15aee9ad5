package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

// phoneRegexPattern accepts Korean mobile numbers with or without dashes.
const phoneRegexPattern = `^01[0-9]-?[0-9]{3,4}-?[0-9]{4}$`

var phoneExp = regexp.MustCompile(phoneRegexPattern)

type CreateOrderRequest struct {
	BuyerName   string `json:"buyer_name"`
	BuyerPhone  string `json:"buyer_phone"`
	Quantity    int    `json:"quantity"`
	TotalAmount int    `json:"total_amount"`
}

func (req *CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BuyerName, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.BuyerPhone, validation.Required, validation.Match(phoneExp)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&req.TotalAmount, validation.Required, validation.Min(1)),
	)
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (req *UpdateOrderStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("paid", "cancelled")),
	)
}

type ListOrdersQuery struct {
	Status     string `form:"status"`
	BuyerName  string `form:"name"`
	BuyerPhone string `form:"phone"`
}

func (req *ListOrdersQuery) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.In("pending", "paid", "cancelled")),
	)
}
