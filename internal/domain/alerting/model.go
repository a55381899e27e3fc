package alerting

// Alert types.
const (
	TypeInfo     = "INFO"
	TypeWarning  = "WARNING"
	TypeDanger   = "DANGER"
	TypeCritical = "CRITICAL"
)

// Alert is a single prioritized notice. Priority 1 is the most urgent.
type Alert struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
	Action   string `json:"action"`
	Color    string `json:"color"`
}

// Input carries the signals alerts are derived from.
type Input struct {
	RiskScore   int      `json:"risk_score"`
	Diseases    []string `json:"diseases"`
	Medications []string `json:"medications"`
}

// DrugPair is a medication combination that must never be dispensed
// together without review.
type DrugPair struct {
	Drugs   []string `json:"drugs"`
	Message string   `json:"message"`
}

var dangerousPairs = []DrugPair{
	{Drugs: []string{"warfarin", "aspirin"}, Message: "Warfarin + Aspirin increases bleeding risk"},
	{Drugs: []string{"metformin", "alcohol"}, Message: "Metformin + Alcohol may cause lactic acidosis"},
	{Drugs: []string{"lisinopril", "potassium"}, Message: "ACE inhibitor + Potassium may cause hyperkalemia"},
}

// DangerousPairs returns a copy of the interaction table.
func DangerousPairs() []DrugPair {
	out := make([]DrugPair, len(dangerousPairs))
	for i, p := range dangerousPairs {
		out[i] = DrugPair{Drugs: append([]string(nil), p.Drugs...), Message: p.Message}
	}
	return out
}

const (
	criticalRiskScore  = 75
	highRiskScore      = 50
	multipleConditions = 3
	polypharmacyCount  = 5
	colorCritical      = "#ef4444"
	colorWarning       = "#f97316"
	colorInfo          = "#3b82f6"
	colorDanger        = "#dc2626"
	interactionAction  = "Review medication combination with pharmacist"
)
