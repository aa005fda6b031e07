package models

// STKPushRequest is the body of POST /stk-push
type STKPushRequest struct {
	Phone  string  `json:"phone"`
	Amount float64 `json:"amount"`
}
