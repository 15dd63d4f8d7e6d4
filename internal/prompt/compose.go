package prompt

import (
	"fmt"

	"github.com/shreyasggowda/career-nexus/internal/memory"
)

// SystemInstruction is the default system prompt for the chat mentor.
const SystemInstruction = "You are a personalized AI career mentor who remembers previous messages."

// Compose builds the ordered message sequence sent to the model: the system
// instruction, the profile context framed as reference material on an
// assistant turn, then the conversation history unchanged. The assistant
// framing grounds the model without pretending the profile was ever spoken
// by the user. History is already trimmed by the session store.
func Compose(systemInstruction, profileText string, history []memory.Turn) []memory.Turn {
	msgs := make([]memory.Turn, 0, len(history)+2)
	msgs = append(msgs, memory.Turn{
		Role:    memory.RoleSystem,
		Content: systemInstruction,
	})
	msgs = append(msgs, memory.Turn{
		Role:    memory.RoleAssistant,
		Content: fmt.Sprintf("Here is the user's profile for reference:\n%s", profileText),
	})
	msgs = append(msgs, history...)
	return msgs
}
