package models

// Company represents the registry record of a business as returned by the
// CNPJ lookup service.
type Company struct {
	CNPJ        string `json:"cnpj"`
	Name        string `json:"name"`
	TradeName   string `json:"trade_name"`
	LegalNature string `json:"legal_nature"`
	OpeningDate string `json:"opening_date"`
	Situation   string `json:"situation"`
}
