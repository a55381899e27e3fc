package keyword

import "testing"

func TestContains(t *testing.T) {
	tests := []struct {
		text string
		key  string
		want bool
	}{
		{"Patient has Type 2 Diabetes", "diabetes", true},
		{"no chest pain today", "chest pain", true},
		{"Heart Failure", "heart_failure", true},
		{"hypertension", "tension", true},
		{"asthma", "copd", false},
		{"anything", "", false},
		{"", "pain", false},
	}
	for _, tt := range tests {
		if got := Contains(tt.text, tt.key); got != tt.want {
			t.Errorf("Contains(%q, %q) = %v, want %v", tt.text, tt.key, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"chest pain":          "Chest Pain",
		"x-ray":               "X-Ray",
		"hba1c":               "Hba1C",
		"COPD":                "Copd",
		"shortness of breath": "Shortness Of Breath",
		"":                    "",
	}
	for in, want := range tests {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label("age_over_75"); got != "Age Over 75" {
		t.Errorf("unexpected label %q", got)
	}
	if got := Label("heart_disease"); got != "Heart Disease" {
		t.Errorf("unexpected label %q", got)
	}
}
