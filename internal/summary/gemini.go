package summary

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const geminiPrompt = `Eres un asistente experto en actas de reunión. A partir de la transcripción siguiente, redacta un resumen ejecutivo EN ESPAÑOL.

Requisitos:
- Comienza con una línea de contexto: nombre de la reunión, tipo y participantes
- Lista los puntos principales discutidos, en orden de aparición
- Destaca acuerdos, decisiones y próximos pasos con viñetas
- Usa formato markdown: encabezados, viñetas, negrita para lo importante
- Sé fiel a la transcripción: no inventes temas que no aparecen

Reunión: %s (%s)
Participantes: %s

Transcripción:
---
%s
---`

type implGeminiBackend struct {
	apiKeys    []string
	currentKey int
	model      string
}

// NewGeminiBackend creates a Backend over the Gemini API that rotates
// through the supplied keys on quota errors.
func NewGeminiBackend(apiKeys []string, model string) Backend {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &implGeminiBackend{
		apiKeys: apiKeys,
		model:   model,
	}
}

func (b *implGeminiBackend) Summarize(ctx context.Context, req Request) (string, *Usage, error) {
	if len(b.apiKeys) == 0 {
		return "", nil, fmt.Errorf("no API keys configured")
	}

	prompt := fmt.Sprintf(geminiPrompt,
		req.Metadata.MeetingName,
		req.Metadata.Type,
		strings.Join(req.Metadata.Participants, ", "),
		req.Transcript,
	)

	attempts := len(b.apiKeys)
	var lastErr error

	for range attempts {
		key := b.apiKeys[b.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			b.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				b.rotateKey()
				lastErr = err
				continue
			}
			return "", nil, fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			usage := &Usage{Model: b.model}
			if result.UsageMetadata != nil {
				usage.TokensUsed = int(result.UsageMetadata.TotalTokenCount)
			}
			return text, usage, nil
		}

		return "", nil, fmt.Errorf("empty response from Gemini")
	}

	return "", nil, fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (b *implGeminiBackend) rotateKey() {
	b.currentKey = (b.currentKey + 1) % len(b.apiKeys)
}
