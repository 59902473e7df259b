package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/kindred-backend/internal/types"
)

func TestAttractionScore(t *testing.T) {
	cases := []struct {
		name string
		a    types.AttachmentStyle
		b    types.AttachmentStyle
		want float64
	}{
		{name: "both_secure", a: types.AttachmentSecure, b: types.AttachmentSecure, want: 100},
		{name: "one_secure", a: types.AttachmentSecure, b: types.AttachmentAnxiousPreoccupied, want: 80},
		{name: "pursue_withdraw", a: types.AttachmentAnxiousPreoccupied, b: types.AttachmentDismissiveAvoidant, want: 30},
		{name: "pursue_withdraw_reversed", a: types.AttachmentDismissiveAvoidant, b: types.AttachmentAnxiousPreoccupied, want: 30},
		{name: "same_insecure", a: types.AttachmentFearfulAvoidant, b: types.AttachmentFearfulAvoidant, want: 50},
		{name: "mixed_insecure", a: types.AttachmentFearfulAvoidant, b: types.AttachmentDismissiveAvoidant, want: 40},
		{name: "missing_style", a: "", b: types.AttachmentSecure, want: NeutralSubScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := attractionScore(tc.a, tc.b); got != tc.want {
				t.Fatalf("attractionScore(%q, %q)=%v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestPairSimilarity(t *testing.T) {
	if got := pairSimilarity(); got != NeutralSubScore {
		t.Fatalf("empty pairSimilarity=%v, want %v", got, NeutralSubScore)
	}
	if got := pairSimilarity([2]*float64{nil, floatPtr(80)}); got != NeutralSubScore {
		t.Fatalf("one-sided pairSimilarity=%v, want %v", got, NeutralSubScore)
	}
	got := pairSimilarity(
		[2]*float64{floatPtr(80), floatPtr(80)},
		[2]*float64{floatPtr(30), floatPtr(70)},
	)
	// (100 + 60) / 2
	if got != 80 {
		t.Fatalf("pairSimilarity=%v, want 80", got)
	}
}

func dealbreakerResponse(userID uuid.UUID, q *types.Question, raw int) *types.Response {
	return &types.Response{
		ID:              uuid.New(),
		UserID:          userID,
		QuestionID:      q.ID,
		Question:        q,
		Category:        q.Category,
		NumericResponse: intPtr(raw),
	}
}

func criticalBinaryQuestion() *types.Question {
	return &types.Question{
		ID:       uuid.New(),
		Category: types.CategoryDealbreaker,
		Scale:    types.ScaleBinary,
		Severity: types.SeverityCritical,
	}
}

func TestHasMandatoryConflict(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()

	t.Run("opposite_binary_critical", func(t *testing.T) {
		q := criticalBinaryQuestion()
		ra := []*types.Response{dealbreakerResponse(userA, q, 0)}
		rb := []*types.Response{dealbreakerResponse(userB, q, 1)}
		if !hasMandatoryConflict(ra, rb) {
			t.Fatal("expected conflict on opposite critical binary answers")
		}
	})

	t.Run("same_binary_critical", func(t *testing.T) {
		q := criticalBinaryQuestion()
		ra := []*types.Response{dealbreakerResponse(userA, q, 1)}
		rb := []*types.Response{dealbreakerResponse(userB, q, 1)}
		if hasMandatoryConflict(ra, rb) {
			t.Fatal("matching answers should not conflict")
		}
	})

	t.Run("non_critical_ignored", func(t *testing.T) {
		q := criticalBinaryQuestion()
		q.Severity = types.SeverityModerate
		ra := []*types.Response{dealbreakerResponse(userA, q, 0)}
		rb := []*types.Response{dealbreakerResponse(userB, q, 1)}
		if hasMandatoryConflict(ra, rb) {
			t.Fatal("moderate severity should never force a conflict")
		}
	})

	t.Run("different_questions_ignored", func(t *testing.T) {
		ra := []*types.Response{dealbreakerResponse(userA, criticalBinaryQuestion(), 0)}
		rb := []*types.Response{dealbreakerResponse(userB, criticalBinaryQuestion(), 1)}
		if hasMandatoryConflict(ra, rb) {
			t.Fatal("answers to different questions should not conflict")
		}
	})

	t.Run("likert_opposite_extremes", func(t *testing.T) {
		q := criticalBinaryQuestion()
		q.Scale = types.ScaleLikert5
		ra := []*types.Response{dealbreakerResponse(userA, q, 1)}
		rb := []*types.Response{dealbreakerResponse(userB, q, 5)}
		if !hasMandatoryConflict(ra, rb) {
			t.Fatal("opposite extremes on a critical scale question should conflict")
		}
	})

	t.Run("likert_adjacent_no_conflict", func(t *testing.T) {
		q := criticalBinaryQuestion()
		q.Scale = types.ScaleLikert5
		ra := []*types.Response{dealbreakerResponse(userA, q, 3)}
		rb := []*types.Response{dealbreakerResponse(userB, q, 4)}
		if hasMandatoryConflict(ra, rb) {
			t.Fatal("middling answers should not conflict")
		}
	})
}

func TestPersonalityScoreBlend(t *testing.T) {
	pa := &types.TraitProfile{
		Openness:           floatPtr(60),
		Conscientiousness:  floatPtr(60),
		Extraversion:       floatPtr(60),
		Agreeableness:      floatPtr(60),
		EmotionalStability: floatPtr(60),
		AttachmentStyle:    types.AttachmentSecure,
	}
	pb := &types.TraitProfile{
		Openness:           floatPtr(60),
		Conscientiousness:  floatPtr(60),
		Extraversion:       floatPtr(60),
		Agreeableness:      floatPtr(60),
		EmotionalStability: floatPtr(60),
		AttachmentStyle:    types.AttachmentSecure,
	}
	// Identical Big Five (100) blended with a secure/secure pairing (100).
	if got := personalityScore(pa, pb); got != 100 {
		t.Fatalf("personalityScore=%v, want 100", got)
	}

	pb.AttachmentStyle = types.AttachmentDismissiveAvoidant
	pa.AttachmentStyle = types.AttachmentAnxiousPreoccupied
	// 100*0.8 + 30*0.2
	if got := personalityScore(pa, pb); got != 86 {
		t.Fatalf("personalityScore=%v, want 86", got)
	}
}

func TestOverallWeightsSumToOne(t *testing.T) {
	sum := WeightValues + WeightPersonality + WeightLifestyle + WeightAttraction + WeightCircumstantial + WeightGrowth
	if sum < 0.9999 || sum > 1.0001 {
		t.Fatalf("sub-score weights sum to %v, want 1", sum)
	}
}

func TestComputeUsesInjectedClock(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	cs := &compatibilityService{
		log:           newTestLogger(t),
		profileRepo:   newFakeProfileRepo(),
		responseRepo:  newFakeResponseRepo(),
		politicalRepo: newFakePoliticalRepo(),
		compatRepo:    newFakeCompatRepo(),
		nowFn:         fixedClock(now),
	}
	a, b := uuid.New(), uuid.New()

	score, err := cs.Compute(context.Background(), nil, a, b)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !score.ComputedAt.Equal(now) {
		t.Fatalf("computed_at = %v, want %v", score.ComputedAt, now)
	}
	if score.OverallScore != NeutralSubScore {
		t.Fatalf("two empty profiles should score neutral, got %v", score.OverallScore)
	}
}

func TestGetOrComputeCachesPairRow(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	cs := &compatibilityService{
		log:           newTestLogger(t),
		profileRepo:   newFakeProfileRepo(),
		responseRepo:  newFakeResponseRepo(),
		politicalRepo: newFakePoliticalRepo(),
		compatRepo:    newFakeCompatRepo(),
		nowFn:         fixedClock(now),
	}
	a, b := uuid.New(), uuid.New()

	first, err := cs.GetOrCompute(context.Background(), a, b)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}

	cs.nowFn = fixedClock(now.Add(time.Hour))
	second, err := cs.GetOrCompute(context.Background(), b, a)
	if err != nil {
		t.Fatalf("GetOrCompute cached: %v", err)
	}
	if !second.ComputedAt.Equal(first.ComputedAt) {
		t.Fatal("cached lookup recomputed the pair row")
	}
}
