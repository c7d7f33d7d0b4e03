package chat

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound marks a missing or foreign-owned resource. Handlers map it
// to 404 without leaking whether the resource exists.
var ErrNotFound = errors.New("not found")

// LimitScope names which usage gate rejected a message.
type LimitScope string

const (
	LimitConversation LimitScope = "conversation"
	LimitGlobal       LimitScope = "global"
)

// LimitError is returned before any write when a usage cap is reached.
// The message is user-facing.
type LimitError struct {
	Scope LimitScope
	Limit int32
}

func (e *LimitError) Error() string {
	if e.Scope == LimitGlobal {
		return fmt.Sprintf("Has alcanzado el límite global de %d mensajes", e.Limit)
	}
	return fmt.Sprintf("Has alcanzado el límite de %d mensajes para esta conversación", e.Limit)
}

// DuplicateError is returned when the duplicate-submission guard trips.
type DuplicateError struct{}

func (e *DuplicateError) Error() string {
	return "Tu mensaje anterior todavía se está procesando. Espera un momento antes de enviarlo de nuevo."
}

// Fixed degradation messages for tool-branch provider failures. The
// exchange still completes with one of these as the assistant reply.
const (
	apologyGeneration = "Lo siento, no pude generar el contenido solicitado en este momento. Por favor, inténtalo de nuevo más tarde."
	apologyQuota      = "Lo siento, se ha alcanzado el límite de generación por ahora. Por favor, inténtalo de nuevo más tarde."
)
