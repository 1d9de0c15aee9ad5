package response

type DeleteOrderResponse struct {
	Success bool `json:"success"`
}
