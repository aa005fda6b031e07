package services

// ValidationError reports rejected input. The message is safe to show to
// the caller, and no provider call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation messages shared with the checkout flow and the HTTP surface.
const (
	MsgPhoneAndAmountRequired = "Phone number and amount are required"
	MsgInvalidPhoneFormat     = "Invalid phone number format. Use format: 07XXXXXXXX, +254 7XXXXXXXX, or +254 07XXXXXXXX"
	MsgAmountNotPositive      = "Amount must be greater than 0"
	MsgSelectPlan             = "Please select a data plan"
	MsgInvalidSafaricomNumber = "Please enter a valid Safaricom number"
	MsgInvalidAirtelNumber    = "Please enter a valid Airtel number"
)
