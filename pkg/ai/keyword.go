package ai

import (
	"context"
	"strings"

	"tasko-backend/pkg/fuzzy"
)

var (
	createKeywords   = []string{"create", "add", "new", "crea", "nueva", "nuevo", "agregar", "agrega", "anade"}
	completeKeywords = []string{"complete", "completed", "done", "finish", "finished", "completada", "completar", "terminada", "hecho"}
	listKeywords     = []string{"list", "show", "pending", "lista", "listar", "muestra", "pendiente"}
	helpKeywords     = []string{"help", "ayuda"}

	// Dropped from the front of a title once the create verb is removed.
	titleFillers = map[string]bool{
		"a": true, "an": true, "the": true, "task": true, "to": true, "for": true,
		"un": true, "una": true, "la": true, "el": true, "tarea": true, "para": true, "de": true,
	}
)

// KeywordInterpreter recognizes commands by keyword. It never fails and is
// the last step of every FallbackService.
type KeywordInterpreter struct{}

func NewKeywordInterpreter() *KeywordInterpreter {
	return &KeywordInterpreter{}
}

// Interpret implements Interpreter
func (k *KeywordInterpreter) Interpret(_ context.Context, text string) (*CommandResult, error) {
	if _, ok := fuzzy.MatchAny(text, createKeywords); ok {
		return &CommandResult{
			Action:     ActionCreateTask,
			Data:       TaskCommand{Title: titleFrom(text)},
			Message:    "Looks like you want to create a task. Complete the details in the form.",
			Confidence: 0.7,
		}, nil
	}
	if _, ok := fuzzy.MatchAny(text, completeKeywords); ok {
		return &CommandResult{
			Action:     ActionCompleteTask,
			Message:    "Looks like you want to complete a task. Pick it from the list.",
			Confidence: 0.6,
		}, nil
	}
	if _, ok := fuzzy.MatchAny(text, listKeywords); ok {
		return &CommandResult{
			Action:     ActionListTasks,
			Message:    "Here are your pending tasks.",
			Confidence: 0.6,
		}, nil
	}
	if _, ok := fuzzy.MatchAny(text, helpKeywords); ok {
		return &CommandResult{
			Action:     ActionHelp,
			Message:    HelpMessage,
			Confidence: 1.0,
		}, nil
	}
	return &CommandResult{
		Action:     ActionUnknown,
		Message:    UnknownMessage,
		Confidence: 0,
	}, nil
}

const (
	HelpMessage = `Hi! I'm your task assistant. You can say things like:

• "Create a task to review emails tomorrow at 2pm"
• "Add a team meeting on Friday"
• "What tasks do I have pending?"
• "Mark the task 'review budget' as completed"`

	UnknownMessage = `I couldn't understand your command. Try saying "help" to see examples.`
)

// titleFrom removes the create verb and any leading filler words, keeping
// the rest of the original text as typed.
func titleFrom(text string) string {
	words := strings.Fields(text)
	kept := words[:0:0]
	for _, w := range words {
		if _, ok := fuzzy.MatchAny(w, createKeywords); ok && len(kept) == 0 {
			continue
		}
		if len(kept) == 0 && titleFillers[fuzzy.Normalize(w)] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}
