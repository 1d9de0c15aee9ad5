package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var ticketNumberExp = regexp.MustCompile(`^[0-9]+$`)

type RedeemTicketRequest struct {
	UsedBy string `json:"used_by"`
}

func (req *RedeemTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UsedBy, validation.Length(0, 50)),
	)
}

type LookupTicketsQuery struct {
	BuyerName  string `form:"name"`
	BuyerPhone string `form:"phone"`
}

func (req *LookupTicketsQuery) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BuyerName, validation.Required),
		validation.Field(&req.BuyerPhone, validation.Required, validation.Match(phoneExp)),
	)
}

// ValidateTicketNumber checks a scanner or manual entry: digits only, full
// number or a suffix of one.
func ValidateTicketNumber(number string) error {
	return validation.Validate(number, validation.Required, validation.Match(ticketNumberExp))
}
