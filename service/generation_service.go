package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"

	"venturepath-backend/models"
)

var (
	ErrGeminiNotSet = errors.New("gemini client not set")
	ErrGeminiCall   = errors.New("gemini call failed")
)

const (
	generationModel   = "gemini-3-pro-preview"
	generationTimeout = 120 * time.Second
	ideaCount         = 3
	maxRetries        = 3
	initialBackoff    = time.Second
)

// GenerationService is the generation boundary: it turns a finalized profile
// into business ideas, an idea into a roadmap document, and a consultation
// history into a reply. All three delegate the actual reasoning to Gemini;
// this service owns the prompts, the typed-amount parsing, the response
// parsing, and the retry/timeout policy.
type GenerationService struct {
	client *genai.Client
}

// GenerationServiceOption is a functional option for GenerationService
type GenerationServiceOption func(*GenerationService)

// GenerationWithGeminiClient sets the Gemini client
func GenerationWithGeminiClient(client *genai.Client) GenerationServiceOption {
	return func(s *GenerationService) {
		s.client = client
	}
}

// NewGenerationService creates a new generation service
func NewGenerationService(opts ...GenerationServiceOption) *GenerationService {
	s := &GenerationService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ideaSchema constrains the model to a JSON array of idea objects.
func ideaSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":                   {Type: genai.TypeString},
				"oneLiner":                {Type: genai.TypeString},
				"reasoning":               {Type: genai.TypeString, Description: "Mental state aware reasoning"},
				"difficultyScore":         {Type: genai.TypeInteger, Description: "1 to 10"},
				"estimatedStartupCost":    {Type: genai.TypeString},
				"potentialMonthlyRevenue": {Type: genai.TypeString},
				"tags":                    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"recommendedPlatform":     {Type: genai.TypeString},
			},
			Required: []string{
				"title", "oneLiner", "reasoning", "difficultyScore",
				"estimatedStartupCost", "potentialMonthlyRevenue", "tags", "recommendedPlatform",
			},
		},
	}
}

// GenerateIdeas produces exactly three personalized business ideas for a
// finalized profile, or fails.
func (s *GenerationService) GenerateIdeas(ctx context.Context, profile *models.UserProfile, lang models.Language) ([]models.BusinessIdea, error) {
	if s.client == nil {
		return nil, ErrGeminiNotSet
	}

	prompt, err := buildIdeasPrompt(profile, lang)
	if err != nil {
		return nil, err
	}

	model := s.client.GenerativeModel(generationModel)
	model.SetTemperature(0.7)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = ideaSchema()

	text, err := s.generateWithRetry(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	return parseIdeas(text)
}

// ideaPayload matches the schema's JSON field names.
type ideaPayload struct {
	Title                   string   `json:"title"`
	OneLiner                string   `json:"oneLiner"`
	Reasoning               string   `json:"reasoning"`
	DifficultyScore         int      `json:"difficultyScore"`
	EstimatedStartupCost    string   `json:"estimatedStartupCost"`
	PotentialMonthlyRevenue string   `json:"potentialMonthlyRevenue"`
	Tags                    []string `json:"tags"`
	RecommendedPlatform     string   `json:"recommendedPlatform"`
}

// parseIdeas decodes the model's JSON output. Anything other than exactly
// three well-formed ideas is a generation failure.
func parseIdeas(text string) ([]models.BusinessIdea, error) {
	var payload []ideaPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: unparsable idea response: %v", ErrGeminiCall, err)
	}
	if len(payload) != ideaCount {
		return nil, fmt.Errorf("%w: expected %d ideas, got %d", ErrGeminiCall, ideaCount, len(payload))
	}

	ideas := make([]models.BusinessIdea, 0, ideaCount)
	for _, item := range payload {
		ideas = append(ideas, models.BusinessIdea{
			ID:                      uuid.New(),
			Title:                   item.Title,
			OneLiner:                item.OneLiner,
			Reasoning:               item.Reasoning,
			DifficultyScore:         item.DifficultyScore,
			EstimatedStartupCost:    item.EstimatedStartupCost,
			PotentialMonthlyRevenue: item.PotentialMonthlyRevenue,
			Tags:                    item.Tags,
			RecommendedPlatform:     item.RecommendedPlatform,
		})
	}

	return ideas, nil
}

// buildIdeasPrompt assembles the idea-generation prompt. Money fields are
// parsed into typed amounts here; an unreadable required amount fails the
// call with models.ErrInvalidAmount instead of feeding raw text through.
func buildIdeasPrompt(profile *models.UserProfile, lang models.Language) (string, error) {
	budget, err := models.ParseAmount(profile.Budget)
	if err != nil {
		return "", fmt.Errorf("budget: %w", err)
	}

	var employmentContext string
	if profile.Employment.Status == models.EmploymentEmployed && profile.Employment.Employed != nil {
		e := profile.Employment.Employed
		salary, err := models.ParseAmount(e.Salary)
		if err != nil {
			return "", fmt.Errorf("salary: %w", err)
		}
		employmentContext = fmt.Sprintf(
			"User is EMPLOYED as %q. Earns %s. Works %s hrs/week. Time is LIMITED. Focus on side hustles or scalable things that don't require 24/7 presence initially.",
			e.Job, salary, e.Hours)
	} else if profile.Employment.Seeking != nil {
		target, err := models.ParseAmount(profile.Employment.Seeking.TargetIncome)
		if err != nil {
			return "", fmt.Errorf("target income: %w", err)
		}
		employmentContext = fmt.Sprintf(
			"User is %s. Target Income: %s. Time is FLEXIBLE but need income ASAP.",
			profile.Employment.Status, target)
	}

	var directionContext string
	if profile.Direction.HasIndustryIdea() {
		directionContext = fmt.Sprintf(
			"CRITICAL: The user SPECIFICALLY wants to be in the %q industry. GENERATE IDEAS ONLY IN THIS INDUSTRY. Do not suggest anything else.",
			profile.Direction.Industry.Industry)
	} else if profile.Direction.Open != nil && profile.Direction.Open.Ambition == models.AmbitionWealth {
		directionContext = "User goal: BECOME A MILLIONAIRE (Build an Empire). Focus on High Growth, Scalable Startups, Equity value. Ignore small gig work."
	} else {
		directionContext = "User goal: SIDE HUSTLE (Extra Income). Focus on low risk, quick cash flow, easy to start businesses."
	}

	mentalState := "Focused."
	if profile.FeelingLost {
		mentalState = "Feeling LOST in life."
	}
	stagnation := "Making progress."
	if profile.LifeStagnant {
		stagnation = "Feels life is STAGNANT/Going nowhere."
	}

	debtLine := "No monthly debt reported."
	if strings.TrimSpace(profile.MonthlyDebt) != "" {
		debt, err := models.ParseAmount(profile.MonthlyDebt)
		if err != nil {
			return "", fmt.Errorf("monthly debt: %w", err)
		}
		debtLine = fmt.Sprintf("Monthly debt: %s.", debt)
	}

	prompt := fmt.Sprintf(`You are an expert career and life coach.
Analyze the following user profile to generate %d business ideas.

User Demographics: %s years old, %s. Family status: %s.
Mental State: %s
Life Stagnation: %s
Financial Stress: %d/10. %s

%s
%s

Profile:
- Experience: %s
- Skills: %s
- Budget: %s
- Time: %s
- Interests: %s
- Risk Tolerance: %s

Task: Generate %d highly personalized business ideas.

CRITICAL RULES:
1. If the user specified an industry, YOU MUST OBEY IT.
2. If the user feels LOST or STAGNANT, your "reasoning" MUST be encouraging and explain why this specific path will help them regain control.
3. If stress is high, prioritize quick wins.

Language Instruction: %s`,
		ideaCount,
		profile.Age, profile.Gender, profile.FamilyStatus,
		mentalState,
		stagnation,
		profile.StressLevel, debtLine,
		employmentContext,
		directionContext,
		profile.Experience,
		profile.Skills,
		budget,
		profile.TimeCommitment,
		profile.Interests,
		profile.RiskTolerance,
		ideaCount,
		languageInstruction(lang),
	)

	return prompt, nil
}

// GenerateRoadmap produces a markdown "zero to first dollar" document for one
// idea.
func (s *GenerationService) GenerateRoadmap(ctx context.Context, idea models.BusinessIdea, profile *models.UserProfile, lang models.Language) (string, error) {
	if s.client == nil {
		return "", ErrGeminiNotSet
	}

	intro := "Start with a high-energy professional summary."
	if profile.FeelingLost || profile.LifeStagnant {
		intro = "The user feels lost or stuck. Start the roadmap with a short, powerful, empathetic paragraph acknowledging their struggle and inspiring them that THIS is their way out."
	}

	empAdvice := ""
	if profile.Employment.Status == models.EmploymentEmployed {
		empAdvice = "Since the user is currently employed, include specific tips on how to manage this alongside their 9-5 job (e.g. 'Lunch break tasks', 'Weekend sprints')."
	}

	prompt := fmt.Sprintf(`Create a detailed "Zero to First Dollar" roadmap for: %s.
User: %syo %s, Exp: %s.

%s
%s

Include:
1. **Empowering Intro**
2. **The "Starter Kit"** (Tools, Accounts, Setup)
3. **Step-by-Step Execution** (Week 1-4)
4. **First Sale Script/Strategy**
5. **Scaling**

Language: %s`,
		idea.Title,
		profile.Age, profile.Gender, profile.Experience,
		intro,
		empAdvice,
		languageInstruction(lang),
	)

	model := s.client.GenerativeModel(generationModel)

	text, err := s.generateWithRetry(ctx, model, prompt)
	if err != nil {
		return "", err
	}

	return text, nil
}

// Consult answers one consultation message in the context of an idea and the
// user's profile. The reply always ends with the language's closing phrase;
// if the model drops it, it is appended.
func (s *GenerationService) Consult(ctx context.Context, history []models.ChatMessage, message string, idea models.BusinessIdea, profile *models.UserProfile, lang models.Language) (string, error) {
	if s.client == nil {
		return "", ErrGeminiNotSet
	}

	phrase := ClosingPhrase(lang)

	var historyText strings.Builder
	for _, msg := range history {
		speaker := "Master"
		if msg.Role == models.ChatRoleUser {
			speaker = "User"
		}
		fmt.Fprintf(&historyText, "%s: %s\n", speaker, msg.Text)
	}

	prompt := fmt.Sprintf(`You are a Wise and Passionate Business Master (AI Grandmaster).
The user is asking about: %q.

User Context:
- Feeling Lost: %t
- Stagnant: %t
- Employment: %s

Tone: Highly encouraging, authoritative, visionary, but practical.

Instructions:
1. Answer the user's question specifically.
2. ALWAYS end your response with this EXACT phrase:
%q

Conversation History:
%s
User: %s
Master:`,
		idea.Title,
		profile.FeelingLost,
		profile.LifeStagnant,
		profile.Employment.Status,
		phrase,
		historyText.String(),
		message,
	)

	model := s.client.GenerativeModel(generationModel)

	reply, err := s.generateWithRetry(ctx, model, prompt)
	if err != nil {
		return "", err
	}

	return EnsureClosingPhrase(reply, lang), nil
}

// ClosingPhrase returns the fixed consultation sign-off for a language.
func ClosingPhrase(lang models.Language) string {
	switch lang {
	case models.LanguageChinese:
		return "您是否还有其他疑问，如果还有请告诉我，如您已经准备好要开始搞钱，那么，让我们开始征服星辰和大海吧！"
	case models.LanguageSpanish:
		return "¿Tiene alguna otra pregunta? Si es así, dímelo. Si ya estás listo para ganar dinero, ¡comencemos a conquistar las estrellas y el mar!"
	default:
		return "Do you have any other questions? If so, tell me. If you are ready to make money, then let us begin to conquer the stars and the sea!"
	}
}

// EnsureClosingPhrase appends the language's closing phrase when the reply
// does not already end with it.
func EnsureClosingPhrase(reply string, lang models.Language) string {
	phrase := ClosingPhrase(lang)
	trimmed := strings.TrimSpace(reply)
	if strings.HasSuffix(trimmed, phrase) {
		return trimmed
	}
	return trimmed + "\n\n" + phrase
}

func languageInstruction(lang models.Language) string {
	switch lang {
	case models.LanguageChinese:
		return "Output in SIMPLIFIED CHINESE"
	case models.LanguageSpanish:
		return "Output in SPANISH"
	default:
		return "Output in ENGLISH"
	}
}

// generateWithRetry calls Gemini with a per-attempt timeout and exponential
// backoff. A canceled parent context stops the retry loop immediately.
func (s *GenerationService) generateWithRetry(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, generationTimeout)
		resp, err := model.GenerateContent(attemptCtx, genai.Text(prompt))
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}

		text := responseText(resp)
		if text != "" {
			return text, nil
		}
		lastErr = fmt.Errorf("%w: empty response", ErrGeminiCall)
	}

	return "", fmt.Errorf("%w: after %d attempts: %v", ErrGeminiCall, maxRetries, lastErr)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	return builder.String()
}
