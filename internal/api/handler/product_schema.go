package handler

// errorBody documents the error envelope rendered by the HTTP error handler.
type errorBody struct {
	Message string `json:"message" example:"Product not found"`
}

// productRequest documents the product payload. Quantity and price also
// accept numeric strings.
type productRequest struct {
	Name     string  `json:"name" example:"Widget"`
	Quantity float64 `json:"quantity" example:"5"`
	Price    float64 `json:"price" example:"9.99"`
}
