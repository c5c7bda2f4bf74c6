package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tutor-agent/internal/domain"
)

func TestBuildPromptContents_SystemInstructionFirst(t *testing.T) {
	contents := BuildPromptContents("profesor", "un profesor paciente", nil, "dinosaurios")

	require.Len(t, contents, 2)
	require.Contains(t, contents[0], "Tu personaje es: profesor.")
	require.Contains(t, contents[0], "Descripción del personaje: un profesor paciente")
	require.Equal(t, "Usuario: dinosaurios\nAsistente:", contents[1])
}

func TestBuildPromptContents_HistoryInAppendOrder(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "hola"},
		{Role: domain.RoleAssistant, Content: "Hello! Repite: hello"},
		{Role: domain.RoleUser, Content: "hello"},
	}

	contents := BuildPromptContents("pirata", "", history, "y ahora?")

	require.Len(t, contents, 5)
	require.Equal(t, "user: hola", contents[1])
	require.Equal(t, "assistant: Hello! Repite: hello", contents[2])
	require.Equal(t, "user: hello", contents[3])
	require.Equal(t, "Usuario: y ahora?\nAsistente:", contents[4])
}

func TestBuildPromptContents_PersonaNotEscaped(t *testing.T) {
	// Persona and description are folded in verbatim, odd characters included.
	contents := BuildPromptContents(`pirata "Barbanegra"`, "habla\nen dos líneas", nil, "hola")

	require.Contains(t, contents[0], `pirata "Barbanegra"`)
	require.Contains(t, contents[0], "habla\nen dos líneas")
}

func TestBuildPromptContents_Deterministic(t *testing.T) {
	history := []domain.Turn{{Role: domain.RoleUser, Content: "hola"}}

	a := BuildPromptContents("profesor", "", history, "adios")
	b := BuildPromptContents("profesor", "", history, "adios")

	require.Equal(t, a, b)
	// The input history slice is not touched.
	require.Equal(t, "hola", history[0].Content)
}

func TestBuildPromptContents_PercentSafe(t *testing.T) {
	// The instruction template contains literal percentages; interpolation
	// must not mangle them or the caller's text.
	contents := BuildPromptContents("profesor al 100%", "", nil, "50% de descuento")

	require.Contains(t, contents[0], "(80-90%)")
	require.Contains(t, contents[0], "profesor al 100%")
	require.False(t, strings.Contains(contents[0], "%!"))
	require.Equal(t, "Usuario: 50% de descuento\nAsistente:", contents[1])
}
