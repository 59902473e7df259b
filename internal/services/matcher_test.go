package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/kindred-backend/internal/types"
)

func likertResponse(userID uuid.UUID, q *types.Question, raw int, importance types.ResponseImportance) *types.Response {
	return &types.Response{
		ID:              uuid.New(),
		UserID:          userID,
		QuestionID:      q.ID,
		Question:        q,
		Category:        q.Category,
		NumericResponse: intPtr(raw),
		Importance:      importance,
	}
}

func sharedQuestions(n int) []*types.Question {
	questions := make([]*types.Question, n)
	for i := range questions {
		questions[i] = &types.Question{
			ID:       uuid.New(),
			Category: types.CategoryValues,
			Scale:    types.ScaleLikert5,
		}
	}
	return questions
}

func TestAgreementIdenticalAnswers(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	questions := sharedQuestions(DefaultMinCommonQuestions)

	var ra, rb []*types.Response
	for _, q := range questions {
		ra = append(ra, likertResponse(userA, q, 4, types.ImportanceSomewhat))
		rb = append(rb, likertResponse(userB, q, 4, types.ImportanceSomewhat))
	}

	match := AgreementFromResponses(ra, rb, DefaultMinCommonQuestions)
	if match.MatchPercentage < 90 {
		t.Fatalf("identical answers gave %v, want >= 90", match.MatchPercentage)
	}
	if !match.HasEnoughData {
		t.Fatalf("expected enough data at %d common questions", match.CommonQuestions)
	}
	if match.Sufficiency != SufficiencySufficient {
		t.Fatalf("sufficiency = %q, want %q", match.Sufficiency, SufficiencySufficient)
	}
}

func TestAgreementOppositeAnswers(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	questions := sharedQuestions(DefaultMinCommonQuestions)

	var ra, rb []*types.Response
	for _, q := range questions {
		ra = append(ra, likertResponse(userA, q, 1, types.ImportanceSomewhat))
		rb = append(rb, likertResponse(userB, q, 5, types.ImportanceSomewhat))
	}

	match := AgreementFromResponses(ra, rb, DefaultMinCommonQuestions)
	if match.MatchPercentage >= 50 {
		t.Fatalf("opposite answers gave %v, want < 50", match.MatchPercentage)
	}
}

func TestAgreementZeroCommon(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	qa := sharedQuestions(3)
	qb := sharedQuestions(3)

	var ra, rb []*types.Response
	for _, q := range qa {
		ra = append(ra, likertResponse(userA, q, 3, types.ImportanceSomewhat))
	}
	for _, q := range qb {
		rb = append(rb, likertResponse(userB, q, 3, types.ImportanceSomewhat))
	}

	match := AgreementFromResponses(ra, rb, DefaultMinCommonQuestions)
	if match.MatchPercentage != 50 {
		t.Fatalf("zero common questions gave %v, want 50", match.MatchPercentage)
	}
	if match.HasEnoughData {
		t.Fatal("zero common questions cannot be enough data")
	}
	if match.Sufficiency != SufficiencyInsufficient {
		t.Fatalf("sufficiency = %q, want %q", match.Sufficiency, SufficiencyInsufficient)
	}
}

func TestAgreementPartialOverlap(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	questions := sharedQuestions(5)

	var ra, rb []*types.Response
	for _, q := range questions {
		ra = append(ra, likertResponse(userA, q, 4, types.ImportanceSomewhat))
		rb = append(rb, likertResponse(userB, q, 4, types.ImportanceSomewhat))
	}

	match := AgreementFromResponses(ra, rb, DefaultMinCommonQuestions)
	if match.HasEnoughData {
		t.Fatalf("%d common questions should not be enough", match.CommonQuestions)
	}
	if match.Sufficiency != SufficiencyPartial {
		t.Fatalf("sufficiency = %q, want %q", match.Sufficiency, SufficiencyPartial)
	}
}

func TestAgreementImportanceWeighting(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	agreeQ := sharedQuestions(1)[0]
	disagreeQ := sharedQuestions(1)[0]

	// A cares a lot about the question they disagree on.
	ra := []*types.Response{
		likertResponse(userA, agreeQ, 3, types.ImportanceALittle),
		likertResponse(userA, disagreeQ, 1, types.ImportanceMandatory),
	}
	rb := []*types.Response{
		likertResponse(userB, agreeQ, 3, types.ImportanceALittle),
		likertResponse(userB, disagreeQ, 5, types.ImportanceALittle),
	}

	match := AgreementFromResponses(ra, rb, DefaultMinCommonQuestions)
	// satA = 1/251, satB = 1/2; geometric mean is far below an unweighted 50%.
	if match.MatchPercentage >= 20 {
		t.Fatalf("weighted disagreement gave %v, want < 20", match.MatchPercentage)
	}
}

func TestAgreementConflictCap(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	questions := sharedQuestions(DefaultMinCommonQuestions)

	var ra, rb []*types.Response
	for _, q := range questions {
		ra = append(ra, likertResponse(userA, q, 4, types.ImportanceSomewhat))
		rb = append(rb, likertResponse(userB, q, 4, types.ImportanceSomewhat))
	}
	// Perfect agreement except one critical dealbreaker.
	q := criticalBinaryQuestion()
	ra = append(ra, dealbreakerResponse(userA, q, 0))
	rb = append(rb, dealbreakerResponse(userB, q, 1))

	match := AgreementFromResponses(ra, rb, DefaultMinCommonQuestions)
	if !match.HasMandatoryConflict {
		t.Fatal("expected mandatory conflict")
	}
	if match.MatchPercentage > ConflictCappedMatch {
		t.Fatalf("conflicted match gave %v, want <= %v", match.MatchPercentage, ConflictCappedMatch)
	}
}
