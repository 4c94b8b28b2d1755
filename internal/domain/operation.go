package domain

// OperationType represents the kind of real-estate operation the client wants
type OperationType string

const (
	OperationRent OperationType = "rent"
	OperationBuy  OperationType = "buy"
)

// IsValid проверяет, что тип операции поддерживается
func (o OperationType) IsValid() bool {
	return o == OperationRent || o == OperationBuy
}

// FinancingDetails - детали финансирования покупки.
// Хранится как opaque JSON payload в колонке resource_details;
// сервис его не интерпретирует, только валидирует и передает.
type FinancingDetails struct {
	Bank              *string `json:"bank,omitempty"`
	PreApprovedCredit *bool   `json:"preApprovedCredit,omitempty"`
	InfonavitModality *string `json:"infonavitModality,omitempty"`
	InfonavitNumber   *string `json:"infonavitNumber,omitempty"`
	FovisssteModality *string `json:"fovisssteModality,omitempty"`
	FovisssteNumber   *string `json:"fovisssteNumber,omitempty"`
}
