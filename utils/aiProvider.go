package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lms/config"
	chatbotModels "lms/models/chatbot"

	"github.com/go-resty/resty/v2"
)

// ChatTurn is one message in the provider payload
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AIReply is the assistant message returned by the provider
type AIReply struct {
	Content    string
	TokenCount int
}

// GetChatCompletion replays the conversation to the configured AI provider
// and returns the assistant reply
func GetChatCompletion(bot chatbotModels.Chatbot, history []ChatTurn) (*AIReply, error) {
	if config.AppConfig.AIProviderKey == "" {
		return nil, fmt.Errorf("AI provider key not configured")
	}

	modelName := bot.ModelName
	if modelName == "" {
		modelName = config.AppConfig.AIDefaultModel
	}

	messages := make([]ChatTurn, 0, len(history)+1)
	if bot.SystemPrompt != "" {
		messages = append(messages, ChatTurn{Role: "system", Content: bot.SystemPrompt})
	}
	messages = append(messages, history...)

	payload := map[string]interface{}{
		"model":       modelName,
		"messages":    messages,
		"temperature": bot.Temperature,
	}

	// Merge provider-specific options stored on the bot
	if len(bot.ProviderConfig) > 0 {
		var extra map[string]interface{}
		if err := json.Unmarshal(bot.ProviderConfig, &extra); err == nil {
			for k, v := range extra {
				payload[k] = v
			}
		}
	}

	client := resty.New().
		SetTimeout(time.Duration(config.AppConfig.AITimeoutSecs) * time.Second).
		SetRetryCount(config.AppConfig.AIRetryCount)

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetAuthToken(config.AppConfig.AIProviderKey).
		SetBody(payload).
		Post(config.AppConfig.AIProviderURL)
	if err != nil {
		log.Printf("AI provider request failed: %v", err)
		return nil, err
	}
	if resp.StatusCode() != 200 {
		log.Printf("AI provider returned %d: %s", resp.StatusCode(), resp.String())
		return nil, fmt.Errorf("AI provider returned status %d", resp.StatusCode())
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(resp.Body(), &completion); err != nil {
		log.Printf("Failed to parse AI provider response: %v", err)
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("AI provider returned no choices")
	}

	return &AIReply{
		Content:    completion.Choices[0].Message.Content,
		TokenCount: completion.Usage.CompletionTokens,
	}, nil
}
