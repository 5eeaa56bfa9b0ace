package dto

type OTPRequestInput struct {
	Phone string `json:"phone"`
}

type OTPVerifyInput struct {
	Phone string `json:"phone"`
	Code  string `json:"otp"`
}

type OTPResponse struct {
	Message string `json:"message"`
	// DemoCode is set only when OTP delivery runs in demo mode.
	DemoCode string `json:"demo_otp,omitempty"`
}

type EarnCoinsInput struct {
	Amount   int    `json:"amount"`
	Activity string `json:"activity"`
}
