package models

// Severity orders alerts; lower rank is shown first.
type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Rank returns the sort position of a severity. Unknown severities sink to
// the bottom.
func (s Severity) Rank() int {
	switch s {
	case SeverityDanger:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	case SeveritySuccess:
		return 3
	}
	return 4
}

// AlertCategory groups alerts by the domain that produced them.
type AlertCategory string

const (
	CategoryCard         AlertCategory = "card"
	CategoryTransaction  AlertCategory = "transaction"
	CategoryGoal         AlertCategory = "goal"
	CategoryBudget       AlertCategory = "budget"
	CategorySettlement   AlertCategory = "settlement"
	CategorySavingsTrend AlertCategory = "savings-trend"
)

// Alert subtypes. The subtype plus the source entity id form the alert id,
// so read state survives recomputation.
const (
	SubtypeLimiteCritico    = "limite-critico"
	SubtypeLimiteAlto       = "limite-alto"
	SubtypeLimiteBaixo      = "limite-baixo"
	SubtypeFaturaVencida    = "fatura-vencida"
	SubtypeFaturaHoje       = "fatura-hoje"
	SubtypeFatura3Dias      = "fatura-3dias"
	SubtypeFatura7Dias      = "fatura-7dias"
	SubtypeFatura15Dias     = "fatura-15dias"
	SubtypeContaVencida     = "conta-vencida"
	SubtypeContaHoje        = "conta-hoje"
	SubtypeConta3Dias       = "conta-3dias"
	SubtypeMetaConcluida    = "meta-concluida"
	SubtypeMetaQuase        = "meta-quase"
	SubtypeMetaAtrasada     = "meta-atrasada"
	SubtypeMetaPrazo        = "meta-prazo"
	SubtypeOrcamentoEstouro = "orcamento-estourado"
	SubtypeOrcamentoAlto    = "orcamento-alto"
	SubtypeAcertoPendente   = "acerto-pendente"
	SubtypeAcertoParcial    = "acerto-parcial"
	SubtypeGastoAumentou    = "gasto-aumentou"
	SubtypeGastoDiminuiu    = "gasto-diminuiu"
)

// Alert is an ephemeral notification, recomputed on every query. Only the
// read flag is persisted, keyed by the derived ID.
type Alert struct {
	ID       string        `json:"id"`
	Subtype  string        `json:"subtype"`
	Severity Severity      `json:"severity"`
	Category AlertCategory `json:"category"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	EntityID int64         `json:"entity_id"`
	Read     bool          `json:"read"`
}

// DefaultPreferences lists the per-subtype default visibility. Absent entries
// in a user's stored preferences fall back to these values. The two
// lowest-urgency subtypes are opt-in.
var DefaultPreferences = map[string]bool{
	SubtypeLimiteCritico:    true,
	SubtypeLimiteAlto:       true,
	SubtypeLimiteBaixo:      true,
	SubtypeFaturaVencida:    true,
	SubtypeFaturaHoje:       true,
	SubtypeFatura3Dias:      true,
	SubtypeFatura7Dias:      true,
	SubtypeFatura15Dias:     false,
	SubtypeContaVencida:     true,
	SubtypeContaHoje:        true,
	SubtypeConta3Dias:       true,
	SubtypeMetaConcluida:    true,
	SubtypeMetaQuase:        true,
	SubtypeMetaAtrasada:     true,
	SubtypeMetaPrazo:        true,
	SubtypeOrcamentoEstouro: true,
	SubtypeOrcamentoAlto:    true,
	SubtypeAcertoPendente:   true,
	SubtypeAcertoParcial:    true,
	SubtypeGastoAumentou:    true,
	SubtypeGastoDiminuiu:    false,
}
