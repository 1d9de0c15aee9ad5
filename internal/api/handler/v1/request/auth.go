package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AdminLoginRequest struct {
	Password string `json:"password"`
}

func (req *AdminLoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Password, validation.Required),
	)
}
