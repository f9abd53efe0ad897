package ai

import (
	"fmt"
	"log"
)

// Fallback strings returned when generation fails. Callers treat these as
// regular feedback text, never as errors.
const (
	JournalFallback    = "AI 피드백 생성 중 오류가 발생했습니다."
	EvaluationFallback = "AI 리포트 생성 중 오류가 발생했습니다."
)

// FeedbackService wraps a Generator with the academy's prompts.
type FeedbackService struct {
	gen Generator
}

func NewFeedbackService(gen Generator) *FeedbackService {
	return &FeedbackService{gen: gen}
}

// JournalFeedback generates feedback on a lesson journal. journalType is
// "teacher" or "student".
func (s *FeedbackService) JournalFeedback(content, journalType string) string {
	var rolePrompt string
	if journalType == "teacher" {
		rolePrompt = "교사의 수업일지입니다. 수업 구성의 효과성, 학생 참여 유도 방법, 개선 포인트를 제안해주세요."
	} else {
		rolePrompt = "학생의 수업 회고입니다. 자기 성찰을 격려하고, 구체적인 다음 목표를 제안해주세요."
	}

	prompt := fmt.Sprintf(
		"당신은 연기 학원의 교육 전문가입니다.\n%s\n\n수업일지 내용:\n%q\n\n한국어로 따뜻하고 건설적인 피드백을 200자 이내로 작성해주세요.",
		rolePrompt, content,
	)

	text, err := s.gen.Generate(prompt)
	if err != nil {
		log.Printf("Journal feedback error: %v", err)
		return JournalFallback
	}
	if text == "" {
		return "피드백을 생성할 수 없습니다."
	}
	return text
}

// EvaluationSummary generates a growth report from accumulated evaluation
// data (JSON-encoded score history).
func (s *FeedbackService) EvaluationSummary(evaluationsData string) string {
	prompt := fmt.Sprintf(
		"당신은 연기 학원의 교육 전문가입니다. 다음 학생 평가 데이터를 종합 분석하여 성장 리포트를 작성해주세요.\n\n"+
			"평가 데이터:\n%s\n\n"+
			"다음 항목을 포함하여 한국어로 작성해주세요:\n1. 강점 분석\n2. 개선이 필요한 영역\n3. 성장 추이 (점수 변화가 있는 경우)\n4. 추천 학습 방향\n\n"+
			"따뜻하고 격려적인 톤으로 300자 이내로 작성해주세요.",
		evaluationsData,
	)

	text, err := s.gen.Generate(prompt)
	if err != nil {
		log.Printf("Evaluation summary error: %v", err)
		return EvaluationFallback
	}
	if text == "" {
		return "리포트를 생성할 수 없습니다."
	}
	return text
}
