package payment

type ConfirmRequest struct {
	Method        string `json:"method" binding:"required,oneof=credit_card debit_card wallet cash"`
	TransactionID string `json:"transaction_id"`
}
