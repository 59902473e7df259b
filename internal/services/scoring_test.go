package services

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/kindred-backend/internal/types"
)

func TestKeyedValue(t *testing.T) {
	cases := []struct {
		name  string
		keyed types.QuestionKey
		raw   int
		want  float64
	}{
		{name: "plus_low", keyed: types.KeyPlus, raw: 1, want: 1},
		{name: "plus_high", keyed: types.KeyPlus, raw: 5, want: 5},
		{name: "minus_low", keyed: types.KeyMinus, raw: 1, want: 5},
		{name: "minus_high", keyed: types.KeyMinus, raw: 5, want: 1},
		{name: "minus_mid", keyed: types.KeyMinus, raw: 3, want: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KeyedValue(tc.keyed, tc.raw); got != tc.want {
				t.Fatalf("KeyedValue(%q, %d)=%v, want %v", tc.keyed, tc.raw, got, tc.want)
			}
		})
	}
}

func TestClassifyAttachment(t *testing.T) {
	cases := []struct {
		name      string
		anxiety   float64
		avoidance float64
		want      types.AttachmentStyle
	}{
		// Raw 2 on a 1-5 plus-keyed scale rescales to 25, raw 5 to 100.
		{name: "both_low_secure", anxiety: 25, avoidance: 25, want: types.AttachmentSecure},
		{name: "high_anxiety", anxiety: 100, avoidance: 25, want: types.AttachmentAnxiousPreoccupied},
		{name: "high_avoidance", anxiety: 25, avoidance: 100, want: types.AttachmentDismissiveAvoidant},
		{name: "both_high_fearful", anxiety: 100, avoidance: 100, want: types.AttachmentFearfulAvoidant},
		{name: "boundary_secure", anxiety: 49.9, avoidance: 49.9, want: types.AttachmentSecure},
		{name: "mid_band_anxiety_dominant", anxiety: 70, avoidance: 55, want: types.AttachmentAnxiousPreoccupied},
		{name: "mid_band_avoidance_dominant", anxiety: 55, avoidance: 70, want: types.AttachmentDismissiveAvoidant},
		{name: "mid_band_tie_goes_anxious", anxiety: 60, avoidance: 60, want: types.AttachmentAnxiousPreoccupied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyAttachment(tc.anxiety, tc.avoidance)
			if got != tc.want {
				t.Fatalf("ClassifyAttachment(%v, %v)=%q, want %q", tc.anxiety, tc.avoidance, got, tc.want)
			}
		})
	}
}

func bigFiveResponse(userID uuid.UUID, externalID, domain string, keyed types.QuestionKey, raw int) *types.Response {
	q := &types.Question{
		ID:         uuid.New(),
		ExternalID: externalID,
		Category:   types.CategoryBigFive,
		Scale:      types.ScaleLikert5,
		Domain:     domain,
		Keyed:      keyed,
	}
	return &types.Response{
		ID:              uuid.New(),
		UserID:          userID,
		QuestionID:      q.ID,
		Question:        q,
		Category:        q.Category,
		NumericResponse: intPtr(raw),
	}
}

func dimensionResponse(userID uuid.UUID, category types.QuestionCategory, dimension string, keyed types.QuestionKey, raw int) *types.Response {
	q := &types.Question{
		ID:        uuid.New(),
		Category:  category,
		Scale:     types.ScaleLikert5,
		Dimension: dimension,
		Keyed:     keyed,
	}
	return &types.Response{
		ID:              uuid.New(),
		UserID:          userID,
		QuestionID:      q.ID,
		Question:        q,
		Category:        q.Category,
		NumericResponse: intPtr(raw),
	}
}

func TestBuildProfileNeuroticismComplement(t *testing.T) {
	userID := uuid.New()
	scorer := NewScoringService(newTestLogger(t))

	var responses []*types.Response
	for _, raw := range []int{1, 2, 3, 4, 5, 2} {
		responses = append(responses, bigFiveResponse(userID, "n", "neuroticism", types.KeyPlus, raw))
	}

	profile := scorer.BuildProfile(userID, responses)
	if profile.Neuroticism == nil || profile.EmotionalStability == nil {
		t.Fatalf("expected neuroticism and emotional stability, got %+v", profile)
	}
	sum := *profile.Neuroticism + *profile.EmotionalStability
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("neuroticism + emotional stability = %v, want 100", sum)
	}
}

func TestBuildProfileDomainRescale(t *testing.T) {
	userID := uuid.New()
	scorer := NewScoringService(newTestLogger(t))

	// Plus-keyed 5 and minus-keyed 1 both contribute a keyed value of 5.
	responses := []*types.Response{
		bigFiveResponse(userID, "o1", "openness", types.KeyPlus, 5),
		bigFiveResponse(userID, "o2", "openness", types.KeyMinus, 1),
	}
	profile := scorer.BuildProfile(userID, responses)
	if profile.Openness == nil {
		t.Fatal("expected openness score")
	}
	if *profile.Openness != 100 {
		t.Fatalf("openness = %v, want 100", *profile.Openness)
	}

	// All-minimum answers land on 0.
	responses = []*types.Response{
		bigFiveResponse(userID, "c1", "conscientiousness", types.KeyPlus, 1),
		bigFiveResponse(userID, "c2", "conscientiousness", types.KeyPlus, 1),
	}
	profile = scorer.BuildProfile(userID, responses)
	if profile.Conscientiousness == nil || *profile.Conscientiousness != 0 {
		t.Fatalf("conscientiousness = %v, want 0", profile.Conscientiousness)
	}
}

func TestBuildProfileAttachmentStyle(t *testing.T) {
	userID := uuid.New()
	scorer := NewScoringService(newTestLogger(t))

	var responses []*types.Response
	// Anxiety raw 5 -> 100, avoidance raw 2 -> 25.
	for i := 0; i < 2; i++ {
		responses = append(responses, dimensionResponse(userID, types.CategoryAttachment, "anxiety", types.KeyPlus, 5))
		responses = append(responses, dimensionResponse(userID, types.CategoryAttachment, "avoidance", types.KeyPlus, 2))
	}

	profile := scorer.BuildProfile(userID, responses)
	if profile.AttachmentStyle != types.AttachmentAnxiousPreoccupied {
		t.Fatalf("attachment style = %q, want %q", profile.AttachmentStyle, types.AttachmentAnxiousPreoccupied)
	}
	if !profile.AttachmentComplete {
		t.Fatalf("expected attachment complete at %d answers", profile.AttachmentAnswered)
	}
}

func TestBuildProfileCompleteness(t *testing.T) {
	userID := uuid.New()
	scorer := NewScoringService(newTestLogger(t))

	var responses []*types.Response
	domains := []string{"openness", "conscientiousness", "extraversion", "agreeableness", "neuroticism"}
	for i := 0; i < BigFiveCompleteThreshold; i++ {
		responses = append(responses, bigFiveResponse(userID, "bf", domains[i%len(domains)], types.KeyPlus, 3))
	}
	profile := scorer.BuildProfile(userID, responses)
	if !profile.BigFiveComplete {
		t.Fatalf("expected big five complete at %d answers", profile.BigFiveAnswered)
	}
	if profile.ProfileComplete {
		t.Fatal("profile should not be complete without the other categories")
	}

	short := scorer.BuildProfile(userID, responses[:BigFiveCompleteThreshold-1])
	if short.BigFiveComplete {
		t.Fatalf("big five complete at %d answers, threshold is %d", short.BigFiveAnswered, BigFiveCompleteThreshold)
	}
}

func TestBuildProfileIgnoresOutOfRange(t *testing.T) {
	userID := uuid.New()
	scorer := NewScoringService(newTestLogger(t))

	bad := bigFiveResponse(userID, "o1", "openness", types.KeyPlus, 9)
	profile := scorer.BuildProfile(userID, []*types.Response{bad})
	if profile.Openness != nil {
		t.Fatalf("out-of-range answer produced a score: %v", *profile.Openness)
	}
	if profile.BigFiveAnswered != 0 {
		t.Fatalf("out-of-range answer counted: %d", profile.BigFiveAnswered)
	}
}
