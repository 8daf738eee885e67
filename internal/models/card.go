package models

// Card represents a credit card. ClosingDay and DueDay are days of month
// (1-31), clamped to the actual last day when a month is shorter. Cards are
// managed by an external collaborator; this service only reads them.
type Card struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	CreditLimit float64 `json:"credit_limit"`
	ClosingDay  int     `json:"closing_day"`
	DueDay      int     `json:"due_day"`
	Color       string  `json:"color"`
}

// ResponsibleParty is a person charges can be attributed to. Exactly one party
// per user is the titular (the card owner); everyone else is a debtor whose
// share the titular fronts.
type ResponsibleParty struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname"`
	Phone     string `json:"phone"`
	IsTitular bool   `json:"is_titular"`
}
