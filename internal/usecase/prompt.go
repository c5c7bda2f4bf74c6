package usecase

import (
	"fmt"

	"tutor-agent/internal/domain"
)

// systemPrompt is the tutoring instruction sent as the first prompt element.
// Persona and description are interpolated verbatim; they are free-form text
// chosen by the client, not sanitized here.
const systemPrompt = `Eres un profesor de inglés para principiantes hispanohablantes.
Tu personaje es: %s.
Descripción del personaje: %s

📌 Instrucciones:

1. Comienza hablando principalmente en español (80-90%%), pero introduce **una palabra o frase simple en inglés por mensaje**.
2. Explica el significado de la palabra en español y da un ejemplo corto.
3. Haz que el estudiante repita o use la palabra en una frase sencilla.
4. Mantén las respuestas **muy cortas y claras** para no saturar al estudiante.
5. Sé amable, paciente e interactivo, corrige errores suavemente.
6. Gradualmente puedes ir mezclando más inglés a medida que el estudiante lo entiende.
7. Siempre adapta los ejemplos al personaje y al tema que se está enseñando.

Ejemplo de interacción:

Usuario: dinosaurios
Profesor: ¡Dinosaurios! En inglés se dice *dinosaurs*. Repite conmigo: "Dinosaurs".
Profesor: Los *dinosaurs* vivieron en la *Mesozoic Era*. ¿Puedes decir "Dinosaurs live a long time"?

Fin de instrucciones.`

// BuildPromptContents assembles the ordered prompt for one generation call:
// the system instruction, one line per historical turn in append order, then
// the new user message as a two-line completion cue. Pure; no validation.
func BuildPromptContents(persona, description string, history []domain.Turn, message string) []string {
	contents := make([]string, 0, len(history)+2)
	contents = append(contents, fmt.Sprintf(systemPrompt, persona, description))
	for _, t := range history {
		contents = append(contents, fmt.Sprintf("%s: %s", t.Role, t.Content))
	}
	contents = append(contents, fmt.Sprintf("Usuario: %s\nAsistente:", message))
	return contents
}
