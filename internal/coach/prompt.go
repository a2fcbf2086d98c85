package coach

import (
	"fmt"
	"strings"
)

const nudgeSystemPrompt = `You coach a developer through booting the five core modules of the RAG2F framework. They just failed a module's activation quiz. Point them at what the module is responsible for without revealing which option is correct.`

func buildNudgeUserMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Module: %s\n", in.Title)
	fmt.Fprintf(&b, "Role: %s\n", in.Role)
	if in.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", in.Description)
	}
	if in.MistakeLimit > 0 {
		fmt.Fprintf(&b, "Mistakes so far: %d of %d before a forced reset\n", in.Mistakes, in.MistakeLimit)
	} else {
		fmt.Fprintf(&b, "Mistakes so far: %d\n", in.Mistakes)
	}

	b.WriteString("\nQuestions missed:\n")
	if len(in.Missed) == 0 {
		b.WriteString("None recorded\n")
	}
	for _, m := range in.Missed {
		fmt.Fprintf(&b, "- %s\n", m)
	}

	b.WriteString(`
Instructions:
Write one encouraging sentence of at most 25 words. Name the concept the learner should revisit. Do not quote or rank the answer options. Plain text only.`)

	return b.String()
}
