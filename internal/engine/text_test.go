package engine

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"È perché", "e perche"},
		{"EMICRANIA", "emicrania"},
		{"già così", "gia cosi"},
		{"plain text", "plain text"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasEmotionSignals(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Sto molto meglio!", true},
		{"Ma davvero??", true},
		{"una giornata no :(", true},
		{"tutto bene :-)", true},
		{"ti voglio bene <3", true},
		{"finalmente sto bene 😊", true},
		{"Il trattamento procede secondo le indicazioni.", false},
		{"Una domanda sola?", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasEmotionSignals(tt.in); got != tt.want {
			t.Errorf("HasEmotionSignals(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHasSpecificDetail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"year", "Dal 2019 convivo con questo disturbo", true},
		{"measurement", "Prendo 400 mg al bisogno", true},
		{"measurement with comma", "dose da 2,5 ml due al giorno", true},
		{"duration", "dopo 6 mesi di attesa", true},
		{"medication", "La Tachipirina non bastava più", true},
		{"informal abbreviation", "cmq alla fine è andata bene", true},
		{"generic prose", "Si consiglia di consultare uno specialista per ogni dubbio", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasSpecificDetail(tt.in); got != tt.want {
				t.Errorf("HasSpecificDetail(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSpecialCharRatio(t *testing.T) {
	if got := SpecialCharRatio(""); got != 0 {
		t.Errorf("SpecialCharRatio(\"\") = %f, want 0", got)
	}
	// Ordinary Italian prose with sentence punctuation stays at zero.
	if got := SpecialCharRatio("Va bene, davvero: tutto ok! (per ora)"); got != 0 {
		t.Errorf("ordinary punctuation counted as special: %f", got)
	}
	// 2 special runes out of 10.
	if got := SpecialCharRatio("abcdefgh#€"); got != 0.2 {
		t.Errorf("SpecialCharRatio = %f, want 0.2", got)
	}
}

func TestCountOccurrences(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
		want     int
	}{
		{"Emicrania oggi, emicrania domani", "emicrania", 2},
		{"EMICRANIA e ancora emicrània", "emicrania", 2},
		{"nessuna occorrenza", "emicrania", 0},
		{"qualsiasi testo", "", 0},
		{"qualsiasi testo", "   ", 0},
	}
	for _, tt := range tests {
		if got := CountOccurrences(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("CountOccurrences(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestWordAndSentenceCount(t *testing.T) {
	if got := WordCount("una frase di quattro"); got != 4 {
		t.Errorf("WordCount = %d, want 4", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("WordCount(\"\") = %d, want 0", got)
	}
	if got := SentenceCount("Prima. Seconda. Terza."); got != 3 {
		t.Errorf("SentenceCount = %d, want 3", got)
	}
}

func TestHasParagraphBreaks(t *testing.T) {
	if HasParagraphBreaks("una riga sola\ncon a capo semplice") {
		t.Error("single newline counted as paragraph break")
	}
	if !HasParagraphBreaks("primo paragrafo\n\nsecondo paragrafo") {
		t.Error("blank-line separator not detected")
	}
}
