package risk

import "time"

// ModelVersion identifies the rule set that produced an assessment.
const ModelVersion = "2.0.0"

// Risk levels, a step function of the score.
const (
	LevelLow      = "Low"
	LevelMedium   = "Medium"
	LevelHigh     = "High"
	LevelCritical = "Critical"
)

// Assessment is the outcome of scoring one patient.
type Assessment struct {
	Score        int       `json:"score"`
	Level        string    `json:"level"`
	Confidence   int       `json:"confidence"`
	Factors      []string  `json:"factors"`
	ModelVersion string    `json:"model_version"`
	Timestamp    time.Time `json:"timestamp"`
}

// Weight pairs a table key with its additive contribution.
type Weight struct {
	Key    string `json:"key"`
	Weight int    `json:"weight"`
}

// Scan order matters: a disease or symptom is scored by the first key it
// contains.
var severityTable = []Weight{
	{"hypertension", 15},
	{"type 2 diabetes", 20},
	{"type 1 diabetes", 25},
	{"coronary artery disease", 35},
	{"heart failure", 40},
	{"atrial fibrillation", 25},
	{"pneumonia", 20},
	{"asthma", 15},
	{"copd", 25},
	{"chronic kidney disease", 30},
	{"myocardial infarction", 45},
	{"stroke", 40},
	{"cancer", 50},
}

var symptomTable = []Weight{
	{"chest pain", 25},
	{"shortness of breath", 15},
	{"difficulty breathing", 20},
	{"dizziness", 10},
	{"syncope", 20},
	{"palpitations", 15},
}

const (
	advancedAgeYears  = 75
	advancedAgeWeight = 25
	olderAgeYears     = 65
	olderAgeWeight    = 15

	polypharmacyCount  = 5
	polypharmacyWeight = 10

	maxScore   = 100
	maxFactors = 5

	baseConfidence     = 60
	confidencePerPoint = 5
	maxConfidence      = 95
)

// SeverityWeights returns a copy of the disease severity table in scan order.
func SeverityWeights() []Weight {
	return append([]Weight(nil), severityTable...)
}

// SymptomWeights returns a copy of the symptom weight table in scan order.
func SymptomWeights() []Weight {
	return append([]Weight(nil), symptomTable...)
}
