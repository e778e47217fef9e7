package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vv-api/internal/domain"
	"vv-api/pkg/errors"
	"vv-api/pkg/logger"

	"google.golang.org/genai"
)

type judgeService struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewJudgeService creates the Gemini-backed analysis service
func NewJudgeService(ctx context.Context, apiKey, model string, log *logger.Logger) (JudgeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &judgeService{
		client: client,
		model:  model,
		log:    log.Named("judge"),
	}, nil
}

// generate runs one prompt against the model and wraps the raw text.
// The model's output is returned as-is; prompts ask for JSON but the
// service makes no attempt to validate or repair it.
func (s *judgeService) generate(ctx context.Context, kind, prompt string, temperature float32, maxTokens int32) (*domain.AnalysisResult, error) {
	start := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(temperature),
			MaxOutputTokens: maxTokens,
		})
	if err != nil {
		s.log.WithError(err).WithField("kind", kind).Warn("model call failed")
		return nil, errors.NewExternalError("AI analysis is temporarily unavailable", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, errors.NewExternalError("AI analysis returned no content", nil)
	}

	s.log.WithField("kind", kind).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Debug("model call completed")

	return &domain.AnalysisResult{
		Kind:      kind,
		Content:   text,
		Timestamp: time.Now().UTC(),
	}, nil
}

// JudgeBattle scores two performances head to head
func (s *judgeService) JudgeBattle(ctx context.Context, req *domain.JudgeRequest) (*domain.AnalysisResult, error) {
	prompt := fmt.Sprintf(`
You are an expert rap battle judge with deep knowledge of hip-hop culture, flow patterns, and lyrical composition. Analyze these two performances and provide a comprehensive breakdown:

Participant 1: %[1]s
Performance: "%[2]s"

Participant 2: %[3]s
Performance: "%[4]s"

Provide detailed scoring and analysis in JSON format:

{
  "participant1": {
    "name": "%[1]s",
    "scores": {
      "flow_rhythm": [1-10 score],
      "lyrical_content": [1-10 score],
      "wordplay": [1-10 score],
      "delivery": [1-10 score],
      "creativity": [1-10 score],
      "crowd_appeal": [1-10 score]
    },
    "total_score": [sum/6],
    "strengths": ["strength1", "strength2", "strength3"],
    "improvements": ["improvement1", "improvement2"]
  },
  "participant2": {
    "name": "%[3]s",
    "scores": {
      "flow_rhythm": [1-10 score],
      "lyrical_content": [1-10 score],
      "wordplay": [1-10 score],
      "delivery": [1-10 score],
      "creativity": [1-10 score],
      "crowd_appeal": [1-10 score]
    },
    "total_score": [sum/6],
    "strengths": ["strength1", "strength2", "strength3"],
    "improvements": ["improvement1", "improvement2"]
  },
  "winner": "[participant1/participant2]",
  "margin": "[close/decisive]",
  "reasoning": "Detailed explanation of why winner was chosen",
  "battle_highlights": ["highlight1", "highlight2", "highlight3"],
  "overall_assessment": "General thoughts on the battle quality and entertainment value"
}
`, req.Participant1, req.Performance1, req.Participant2, req.Performance2)

	return s.generate(ctx, "judge", prompt, 0.7, 1500)
}

// AnalyzePerformance breaks down a single performance
func (s *judgeService) AnalyzePerformance(ctx context.Context, req *domain.AnalyzeRequest) (*domain.AnalysisResult, error) {
	transcriptLine := "No transcript provided - analyze audio patterns only"
	if req.Transcript != "" {
		transcriptLine = fmt.Sprintf("Transcript: %q", req.Transcript)
	}

	prompt := fmt.Sprintf(`
Analyze this rap performance for technical and artistic elements:

%s

Provide analysis in JSON format:

{
  "technical_analysis": {
    "flow_consistency": [1-10 score],
    "rhythm_pocket": [1-10 score],
    "breath_control": [1-10 score],
    "vocal_clarity": [1-10 score],
    "pace_variation": [1-10 score]
  },
  "artistic_elements": {
    "emotional_delivery": [1-10 score],
    "character_voice": [1-10 score],
    "storytelling": [1-10 score],
    "crowd_engagement": [1-10 score]
  },
  "recommendations": {
    "technical_improvements": ["tip1", "tip2", "tip3"],
    "artistic_development": ["tip1", "tip2", "tip3"],
    "practice_exercises": ["exercise1", "exercise2"]
  },
  "overall_grade": "[A+/A/B+/B/C+/C/D]",
  "performance_type": "[beginner/intermediate/advanced/professional]",
  "standout_moments": ["moment1", "moment2"]
}
`, transcriptLine)

	return s.generate(ctx, "performance", prompt, 0.6, 1200)
}

// AnalyzeCypher evaluates a performance within a collaborative session
func (s *judgeService) AnalyzeCypher(ctx context.Context, req *domain.CypherRequest) (*domain.AnalysisResult, error) {
	theme := req.Context.Theme
	if theme == "" {
		theme = "Open freestyle"
	}
	previous := "None"
	if len(req.Context.PreviousParticipants) > 0 {
		previous = strings.Join(req.Context.PreviousParticipants, ", ")
	}
	beat := req.Context.BeatInfo
	if beat == "" {
		beat = "Standard hip-hop beat"
	}

	prompt := fmt.Sprintf(`
Analyze this cypher performance within the context of a collaborative rap session:

Participant: %s
Performance: "%s"

Cypher Context:
- Theme: %s
- Previous participants: %s
- Beat info: %s

Provide detailed cypher analysis in JSON format:

{
  "cypher_analysis": {
    "flow_adaptation": [1-10 score],
    "theme_adherence": [1-10 score],
    "energy_contribution": [1-10 score],
    "community_building": [1-10 score],
    "originality": [1-10 score],
    "technical_skill": [1-10 score]
  },
  "cypher_strengths": [
    "strength1", "strength2", "strength3"
  ],
  "cypher_feedback": [
    "feedback1", "feedback2", "feedback3"
  ],
  "energy_level": "low/medium/high/explosive",
  "style_description": "description of their unique style",
  "community_impact": "how they elevated the cypher",
  "memorable_lines": ["line1", "line2"],
  "overall_cypher_grade": "A+/A/B+/B/C+/C/D",
  "next_participant_advice": "suggestion for who should go next and why"
}
`, req.ParticipantName, req.Performance, theme, previous, beat)

	return s.generate(ctx, "cypher", prompt, 0.7, 1200)
}

// SuggestBeats proposes instrumentals for a style and mood
func (s *judgeService) SuggestBeats(ctx context.Context, req *domain.BeatRequest) (*domain.AnalysisResult, error) {
	prompt := fmt.Sprintf(`
Generate beat suggestions for a rap battle or cypher with the following criteria:
- Style: %s
- Mood: %s

Provide 3 beat suggestions with:
1. BPM range
2. Key signature
3. Instrumental elements
4. Producer style reference
5. Brief description

Format as JSON array.
`, req.Style, req.Mood)

	return s.generate(ctx, "beats", prompt, 0.8, 800)
}

// ModerateContent rates content for community safety. Runs at a low
// temperature so repeated calls stay consistent.
func (s *judgeService) ModerateContent(ctx context.Context, content string) (*domain.AnalysisResult, error) {
	prompt := fmt.Sprintf(`
Analyze this text content for community safety and appropriateness in a rap battle/hip-hop context:

Content: "%s"

Consider:
- Hip-hop cultural context and battle traditions
- Artistic expression vs harmful content
- Community guidelines for competitive rap
- Age-appropriate content standards

Provide moderation analysis in JSON format:

{
  "safety_score": [0-1 decimal, where 1 is completely safe],
  "content_flags": [
    {
      "flag": "flag_type",
      "severity": "low/medium/high",
      "description": "explanation"
    }
  ],
  "recommendation": "approve/review/reject",
  "reasoning": "explanation of decision",
  "cultural_context": "hip-hop cultural considerations",
  "suggested_edits": ["edit1", "edit2"]
}
`, content)

	return s.generate(ctx, "moderation", prompt, 0.3, 800)
}
