package llmclient

import (
	"fmt"

	"github.com/vitasana/review-risk/internal/domain"
)

// systemInstruction pins the model to machine-readable output.
const systemInstruction = "Sei un sistema di moderazione. Rispondi esclusivamente con JSON valido, senza testo aggiuntivo."

// promptTemplate embeds the review and the strict output contract.
// Categories mirror domain.RiskCategory; the model must pick one.
const promptTemplate = `Valuta se questa recensione su una condizione di salute è stata scritta da un paziente reale o generata artificialmente.

Titolo: %s
Testo: %s

Rispondi solo con un oggetto JSON nel formato:
{"score": <intero 0-100, più alto = più probabilmente artificiale>, "category": "<AUTENTICA|BASSO|MEDIO|ALTO|CRITICO>", "reasons": ["<motivo>", ...]}`

// BuildPrompt renders the per-review user message.
func BuildPrompt(review *domain.Review) string {
	return fmt.Sprintf(promptTemplate, review.Title, review.Body())
}
