package review

import (
	"fmt"

	"github.com/dshills/codewalk/internal/providers"
)

const systemPrompt = "You are an expert AI code reviewer. Provide concise, actionable feedback " +
	"focusing on correctness, style, best practices, and potential improvements."

// SystemPrompt returns the reviewer persona sent with every file.
func SystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt embeds the file path and its full content in a fenced
// block. The content is inserted verbatim.
func BuildUserPrompt(path, content string) string {
	return fmt.Sprintf("Please review the following file: %s\n```\n%s\n```", path, content)
}

// Messages returns the two-message conversation for one file: the system
// persona followed by the user prompt.
func Messages(path, content string) []providers.Message {
	return []providers.Message{
		{Role: providers.RoleSystem, Content: SystemPrompt()},
		{Role: providers.RoleUser, Content: BuildUserPrompt(path, content)},
	}
}
