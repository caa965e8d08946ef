package core

import "time"

// Challenge is what a wallet must sign to log in. The message embeds the
// nonce; the server keeps no copy of the text and re-checks the nonce when
// the message comes back.
type Challenge struct {
	Nonce   string
	Message string
}

type LoginMessage struct {
	WalletAddress string `json:"wallet_address"`
	WalletType    string `json:"wallet_type"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

type LoginResult struct {
	Success      bool
	Message      string
	SessionToken string
}

type TipSubmission struct {
	PostID      *int64
	FromAddress string
	Amount      string
	Currency    string
	Chain       string
	TxHash      string
}

type TipRecord struct {
	ID          uint64    `json:"id"`
	PostID      *int64    `json:"post_id,omitempty"`
	FromAddress string    `json:"from_address"`
	ToAddress   string    `json:"to_address"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	Chain       string    `json:"chain"`
	TxHash      string    `json:"tx_hash"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
}
