package payload

import (
	"tipjar/internal/core"

	"github.com/jellydator/validation"
)

type NonceRequest struct {
	WalletAddress string `json:"wallet_address"`
	WalletType    string `json:"wallet_type"`
}

func (n NonceRequest) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.WalletAddress, validation.Required),
		validation.Field(&n.WalletType, validation.Required),
	)
}

type VerifyRequest struct {
	WalletAddress string `json:"wallet_address"`
	WalletType    string `json:"wallet_type"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

func (v VerifyRequest) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.WalletAddress, validation.Required),
		validation.Field(&v.WalletType, validation.Required),
		validation.Field(&v.Signature, validation.Required),
		validation.Field(&v.Message, validation.Required),
	)
}

func (v VerifyRequest) ToLoginMessage() core.LoginMessage {
	return core.LoginMessage{
		WalletAddress: v.WalletAddress,
		WalletType:    v.WalletType,
		Signature:     v.Signature,
		Message:       v.Message,
	}
}
