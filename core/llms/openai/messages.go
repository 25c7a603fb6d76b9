package openai

import (
	gopenai "github.com/sashabaranov/go-openai"

	"github.com/etiennelac/voxhost/core/llms"
)

func toChatMessages(messages []llms.Message) []gopenai.ChatCompletionMessage {
	out := make([]gopenai.ChatCompletionMessage, 0, len(messages))
	for _, message := range messages {
		switch message.Role {
		case llms.RoleTool:
			// Tool results travel as function-role messages named after the
			// function that produced them.
			name := message.Name
			if name == "" && message.ToolCall != nil {
				name = message.ToolCall.Name
			}
			out = append(out, gopenai.ChatCompletionMessage{
				Role:    gopenai.ChatMessageRoleFunction,
				Name:    name,
				Content: message.Content,
			})
		case llms.RoleAssistant:
			msg := gopenai.ChatCompletionMessage{
				Role:    gopenai.ChatMessageRoleAssistant,
				Content: message.Content,
			}
			if message.ToolCall != nil {
				msg.FunctionCall = &gopenai.FunctionCall{
					Name:      message.ToolCall.Name,
					Arguments: message.ToolCall.Arguments,
				}
			}
			out = append(out, msg)
		default:
			out = append(out, gopenai.ChatCompletionMessage{
				Role:    string(message.Role),
				Name:    message.Name,
				Content: message.Content,
			})
		}
	}
	return out
}

func toFunctions(tools []llms.Tool) []gopenai.FunctionDefinition {
	var functions []gopenai.FunctionDefinition
	for _, tool := range tools {
		functions = append(functions, gopenai.FunctionDefinition{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}
	return functions
}
