package nlp

// Keyword tables. Order is significant: it determines the order of extracted
// entities, the first urgency hit and the order of key phrases.

var diseaseKeywords = []string{
	"diabetes", "hypertension", "heart disease", "asthma", "copd",
	"pneumonia", "infection", "cancer", "stroke", "kidney disease",
	"liver disease", "anemia", "arthritis", "depression", "anxiety",
	"migraine", "epilepsy", "parkinson", "alzheimer", "covid",
}

var medicationKeywords = []string{
	"metformin", "aspirin", "warfarin", "lisinopril", "atorvastatin",
	"amlodipine", "omeprazole", "levothyroxine", "gabapentin", "prednisone",
	"amoxicillin", "azithromycin", "ibuprofen", "acetaminophen", "insulin",
	"metoprolol", "hydrochlorothiazide", "losartan", "simvastatin", "furosemide",
}

var testKeywords = []string{
	"ecg", "ekg", "blood test", "x-ray", "mri", "ct scan", "ultrasound",
	"biopsy", "endoscopy", "colonoscopy", "mammogram", "pap smear",
	"cholesterol", "glucose", "hba1c", "creatinine", "bmp", "cbc",
	"urinalysis", "thyroid", "liver function", "kidney function",
}

var symptomKeywords = []string{
	"pain", "fever", "cough", "headache", "fatigue", "nausea",
	"vomiting", "diarrhea", "dizziness", "shortness of breath",
	"chest pain", "swelling", "rash", "itching", "numbness",
	"weakness", "blurred vision", "weight loss", "weight gain",
}

var positiveWords = []string{"better", "improved", "stable", "good", "normal", "healthy", "recovery"}

var negativeWords = []string{"worse", "severe", "critical", "pain", "emergency", "urgent", "deteriorating"}

var emergencyWords = []string{"emergency", "urgent", "immediately", "critical", "severe", "911"}

var highUrgencyWords = []string{"concerning", "worrying", "significant", "serious"}

var keyPhraseTriggers = []string{
	"diagnosed with", "prescribed", "recommended", "complains of",
	"history of", "symptoms include", "test results show", "need to",
}

const (
	maxKeyPhrases    = 5
	maxKeyPhraseLen  = 100
	minKeyPhraseLen  = 10
	maxComplexity    = 10.0
	baseComplexity   = 1.0
	diseaseWeight    = 1.5
	diseaseCap       = 4.0
	medicationWeight = 0.5
	medicationCap    = 2.0
	symptomWeight    = 0.5
	symptomCap       = 2.0
)

func cloneStrings(in []string) []string {
	return append([]string(nil), in...)
}

// DiseaseKeywords returns a copy of the disease keyword table.
func DiseaseKeywords() []string { return cloneStrings(diseaseKeywords) }

// MedicationKeywords returns a copy of the medication keyword table.
func MedicationKeywords() []string { return cloneStrings(medicationKeywords) }

// TestKeywords returns a copy of the diagnostic test keyword table.
func TestKeywords() []string { return cloneStrings(testKeywords) }

// SymptomKeywords returns a copy of the symptom keyword table.
func SymptomKeywords() []string { return cloneStrings(symptomKeywords) }
