package handler

const oopsErr = "Oops! Something went wrong. Please try again later."

type Response struct {
	Message string      `json:"message,omitempty"` // short message for humans
	Data    interface{} `json:"data,omitempty"`    // actual payload (can be nil)
	Error   string      `json:"error,omitempty"`   // error detail (if any)
}

type NonceResponse struct {
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

type VerifyResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	SessionToken *string `json:"session_token,omitempty"`
}

type TipSubmitResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	TipID   *uint64 `json:"tip_id,omitempty"`
}
