package payload

import (
	"regexp"

	"tipjar/internal/core"

	"github.com/jellydator/validation"
)

// amounts travel as decimal strings end to end; floats never touch them
var amountRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

type TipRequest struct {
	PostID      *int64 `json:"post_id"`
	FromAddress string `json:"from_address"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Chain       string `json:"chain"`
	TxHash      string `json:"tx_hash"`
}

func (t TipRequest) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.FromAddress, validation.Required),
		validation.Field(&t.Amount, validation.Required, validation.Match(amountRegex)),
		validation.Field(&t.Currency, validation.Required),
		validation.Field(&t.Chain, validation.Required),
		validation.Field(&t.TxHash, validation.Required),
	)
}

func (t TipRequest) ToSubmission() core.TipSubmission {
	return core.TipSubmission{
		PostID:      t.PostID,
		FromAddress: t.FromAddress,
		Amount:      t.Amount,
		Currency:    t.Currency,
		Chain:       t.Chain,
		TxHash:      t.TxHash,
	}
}
