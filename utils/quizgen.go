package utils

import (
	"context"
	"credlyse/config"
	"credlyse/models"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	quizQuestionCount = 5
	quizChoiceCount   = 4

	// Long transcripts are truncated to keep the prompt inside token limits.
	maxTranscriptChars = 12000

	geminiGenerateURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
)

// QuizResponse is the structured output requested from the LLM.
type QuizResponse struct {
	Questions []models.QuizQuestion `json:"questions" jsonschema_description:"Exactly 5 multiple-choice questions about the video content"`
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

var quizResponseSchema = GenerateSchema[QuizResponse]()

func quizPrompt(subject string) string {
	return fmt.Sprintf(`You are creating a comprehension quiz for an educational video.

%s

Generate exactly 5 multiple-choice questions. Each question must:
- Test understanding of the material, not trivia
- Have exactly 4 answer choices
- Have exactly one correct choice, identified by correct_index (0-based)

Respond in JSON format with this structure:
{
  "questions": [
    {"question": "...", "choices": ["...", "...", "...", "..."], "correct_index": 0}
  ]
}`, subject)
}

// GenerateQuizFromTranscript calls OpenAI to synthesize a quiz from the
// video transcript. This is the preferred path when a transcript exists.
func GenerateQuizFromTranscript(ctx context.Context, transcript string) (*models.Quiz, error) {
	if config.AppConfig.OpenAIApiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if len(transcript) > maxTranscriptChars {
		transcript = transcript[:maxTranscriptChars]
	}

	client := openai.NewClient(
		option.WithAPIKey(config.AppConfig.OpenAIApiKey),
	)

	prompt := quizPrompt("Video transcript:\n" + transcript)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "video_quiz",
		Description: openai.String("A 5-question multiple-choice quiz for a video"),
		Schema:      quizResponseSchema,
		Strict:      openai.Bool(true),
	}

	chatCompletion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModelGPT4oMini,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI quiz generation failed: %v", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	var response QuizResponse
	if err := json.Unmarshal([]byte(chatCompletion.Choices[0].Message.Content), &response); err != nil {
		return nil, fmt.Errorf("failed to parse quiz response: %v", err)
	}

	quiz := &models.Quiz{Questions: response.Questions}
	if err := ValidateQuizShape(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// GenerateQuizFromTitle is the fallback provider, used when no transcript is
// available. Gemini gets the video title and generates a quiz directly from
// its knowledge of the video topic.
func GenerateQuizFromTitle(videoTitle string) (*models.Quiz, error) {
	if config.AppConfig.GeminiApiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{
				{"text": quizPrompt("Video title: " + videoTitle)},
			}},
		},
		"generationConfig": map[string]string{
			"response_mime_type": "application/json",
		},
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", config.AppConfig.GeminiApiKey).
		SetBody(body).
		Post(geminiGenerateURL)
	if err != nil {
		return nil, fmt.Errorf("Gemini request failed: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("Gemini API error: %s", resp.String())
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(resp.Body(), &geminiResp); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %v", err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("Gemini returned no candidates")
	}

	text := strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text)

	var response QuizResponse
	if err := json.Unmarshal([]byte(text), &response); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini quiz payload: %v", err)
	}

	quiz := &models.Quiz{Questions: response.Questions}
	if err := ValidateQuizShape(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// ValidateQuizShape checks the structural contract only: exactly 5 questions,
// each with choices and a correct index inside the choice range. Question
// quality is not validated.
func ValidateQuizShape(quiz *models.Quiz) error {
	if quiz == nil || len(quiz.Questions) != quizQuestionCount {
		return fmt.Errorf("quiz must contain exactly %d questions", quizQuestionCount)
	}
	for i, q := range quiz.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d is empty", i)
		}
		if len(q.Choices) != quizChoiceCount {
			return fmt.Errorf("question %d must have exactly %d choices", i, quizChoiceCount)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
			return fmt.Errorf("question %d has correct_index out of range", i)
		}
	}
	return nil
}
