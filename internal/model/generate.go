package model

// GenerateRequest represents a text generation request.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse carries the generated text.
type GenerateResponse struct {
	GeneratedText string `json:"generatedText"`
}
