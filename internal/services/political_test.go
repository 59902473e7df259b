package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/kindred-backend/internal/apierr"
	"github.com/yungbote/kindred-backend/internal/realtime"
	"github.com/yungbote/kindred-backend/internal/requestdata"
	"github.com/yungbote/kindred-backend/internal/types"
)

func completeAssessmentFixture(userID uuid.UUID) *types.PoliticalAssessment {
	return &types.PoliticalAssessment{
		ID:                   uuid.New(),
		UserID:               userID,
		IncomeBracket:        types.Income30To60K,
		IncomeSource:         types.SourceWages,
		WealthBracket:        types.Wealth50To250K,
		OwnsRentalProperty:   boolPtr(false),
		EmploysOthers:        boolPtr(false),
		OwnsBusiness:         boolPtr(false),
		LivesOffCapital:      boolPtr(false),
		ViewWorkerOwnership:  intPtr(4),
		ViewWealthTax:        intPtr(4),
		ViewUnionSupport:     intPtr(5),
		ViewPublicHealthcare: intPtr(5),
		ViewHousingRight:     intPtr(4),
		ViewLandlordView:     intPtr(4),
		Orientation:          types.OrientationProgressive,
		ReproductiveView:     types.ViewFullSupport,
		Completed:            true,
	}
}

func TestDeriveEconomicClass(t *testing.T) {
	cases := []struct {
		name  string
		tweak func(a *types.PoliticalAssessment)
		want  types.EconomicClass
	}{
		{
			name:  "baseline_working",
			tweak: func(a *types.PoliticalAssessment) {},
			want:  types.ClassWorking,
		},
		{
			name: "lives_off_capital",
			tweak: func(a *types.PoliticalAssessment) {
				a.LivesOffCapital = boolPtr(true)
			},
			want: types.ClassCapital,
		},
		{
			name: "landlord_employer",
			tweak: func(a *types.PoliticalAssessment) {
				a.OwnsRentalProperty = boolPtr(true)
				a.EmploysOthers = boolPtr(true)
			},
			want: types.ClassCapital,
		},
		{
			name: "max_wealth_investment_income",
			tweak: func(a *types.PoliticalAssessment) {
				a.WealthBracket = types.WealthOver5M
				a.IncomeSource = types.SourceInvestment
			},
			want: types.ClassCapital,
		},
		{
			name: "rental_income_only",
			tweak: func(a *types.PoliticalAssessment) {
				a.IncomeSource = types.SourceRental
			},
			want: types.ClassPetiteBourgeoisie,
		},
		{
			name: "owns_rental_no_employees",
			tweak: func(a *types.PoliticalAssessment) {
				a.OwnsRentalProperty = boolPtr(true)
			},
			want: types.ClassPetiteBourgeoisie,
		},
		{
			name: "small_business_owner",
			tweak: func(a *types.PoliticalAssessment) {
				a.OwnsBusiness = boolPtr(true)
			},
			want: types.ClassSmallBusiness,
		},
		{
			name: "high_wage_professional",
			tweak: func(a *types.PoliticalAssessment) {
				a.IncomeBracket = types.Income100To250K
			},
			want: types.ClassProfessional,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := completeAssessmentFixture(uuid.New())
			tc.tweak(a)
			if got := DeriveEconomicClass(a); got != tc.want {
				t.Fatalf("DeriveEconomicClass=%q, want %q", got, tc.want)
			}
		})
	}
}

func TestEconomicValuesAlignment(t *testing.T) {
	a := completeAssessmentFixture(uuid.New())
	got := EconomicValuesAlignment(a)
	if got == nil {
		t.Fatal("expected a score for a complete values section")
	}
	// (4+4+5+5+4+4)/6/5*100
	want := 86.66666666666667
	if *got < want-0.01 || *got > want+0.01 {
		t.Fatalf("alignment = %v, want about %v", *got, want)
	}

	a.ViewWealthTax = nil
	if EconomicValuesAlignment(a) != nil {
		t.Fatal("expected nil for an incomplete values section")
	}
}

func TestEvaluateGate(t *testing.T) {
	cases := []struct {
		name  string
		tweak func(a *types.PoliticalAssessment)
		want  types.GateStatus
	}{
		{
			name:  "progressive_working_approved",
			tweak: func(a *types.PoliticalAssessment) {},
			want:  types.GateApproved,
		},
		{
			name: "incomplete_pending",
			tweak: func(a *types.PoliticalAssessment) {
				a.Completed = false
			},
			want: types.GatePending,
		},
		{
			name: "capital_conservative_rejected",
			tweak: func(a *types.PoliticalAssessment) {
				a.WealthBracket = types.WealthOver5M
				a.IncomeSource = types.SourceInvestment
				a.LivesOffCapital = boolPtr(true)
				a.OwnsRentalProperty = boolPtr(true)
				a.EmploysOthers = boolPtr(true)
				a.OwnsBusiness = boolPtr(true)
				a.EconomicClass = DeriveEconomicClass(a)
				a.Orientation = types.OrientationConservative
			},
			want: types.GateRejected,
		},
		{
			name: "capital_libertarian_rejected",
			tweak: func(a *types.PoliticalAssessment) {
				a.LivesOffCapital = boolPtr(true)
				a.EconomicClass = DeriveEconomicClass(a)
				a.Orientation = types.OrientationLibertarian
			},
			want: types.GateRejected,
		},
		{
			name: "working_conservative_pending",
			tweak: func(a *types.PoliticalAssessment) {
				a.EconomicClass = types.ClassWorking
				a.Orientation = types.OrientationConservative
			},
			want: types.GatePending,
		},
		{
			name: "forced_birth_pending",
			tweak: func(a *types.PoliticalAssessment) {
				a.ReproductiveView = types.ViewForcedBirth
			},
			want: types.GatePending,
		},
		{
			name: "moderate_approved",
			tweak: func(a *types.PoliticalAssessment) {
				a.Orientation = types.OrientationModerate
			},
			want: types.GateApproved,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := completeAssessmentFixture(uuid.New())
			tc.tweak(a)
			if got := EvaluateGate(a); got != tc.want {
				t.Fatalf("EvaluateGate=%q, want %q", got, tc.want)
			}
		})
	}
}

func assertStateCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", wantCode)
	}
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected an api error, got %v", err)
	}
	if ae.Code != wantCode {
		t.Fatalf("error code = %q, want %q", ae.Code, wantCode)
	}
}

func TestCompleteAssessmentRequiresAllSections(t *testing.T) {
	userID := uuid.New()
	repo := newFakePoliticalRepo()
	bus := &fakeBus{}
	svc := &politicalService{
		log:           newTestLogger(t),
		politicalRepo: repo,
		bus:           bus,
	}
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})

	_, err := svc.CompleteAssessment(ctx)
	assertStateCode(t, err, "economic_answers_incomplete")

	if _, err = svc.SubmitEconomicAnswers(ctx, EconomicAnswersInput{
		IncomeBracket:      types.Income30To60K,
		IncomeSource:       types.SourceWages,
		WealthBracket:      types.Wealth50To250K,
		OwnsRentalProperty: boolPtr(false),
		EmploysOthers:      boolPtr(false),
		OwnsBusiness:       boolPtr(false),
		LivesOffCapital:    boolPtr(false),
	}); err != nil {
		t.Fatalf("SubmitEconomicAnswers: %v", err)
	}
	_, err = svc.CompleteAssessment(ctx)
	assertStateCode(t, err, "values_answers_incomplete")

	if _, err = svc.SubmitValuesAnswers(ctx, ValuesAnswersInput{
		ViewWorkerOwnership:  intPtr(4),
		ViewWealthTax:        intPtr(4),
		ViewUnionSupport:     intPtr(5),
		ViewPublicHealthcare: intPtr(5),
		ViewHousingRight:     intPtr(4),
		ViewLandlordView:     intPtr(4),
	}); err != nil {
		t.Fatalf("SubmitValuesAnswers: %v", err)
	}
	_, err = svc.CompleteAssessment(ctx)
	assertStateCode(t, err, "orientation_incomplete")

	if len(bus.published) != 0 {
		t.Fatalf("rejected completions must not publish events, got %d", len(bus.published))
	}

	if _, err = svc.SubmitReproductiveView(ctx, types.OrientationProgressive, types.ViewFullSupport); err != nil {
		t.Fatalf("SubmitReproductiveView: %v", err)
	}
	done, err := svc.CompleteAssessment(ctx)
	if err != nil {
		t.Fatalf("CompleteAssessment: %v", err)
	}
	if !done.Completed {
		t.Fatal("assessment not marked completed")
	}
	if done.EconomicClass != types.ClassWorking {
		t.Fatalf("economic class = %q, want working", done.EconomicClass)
	}
	if done.GateStatus != types.GateApproved {
		t.Fatalf("gate = %q, want approved", done.GateStatus)
	}
	if len(bus.published) != 1 || bus.published[0].Kind != realtime.EventGateChanged || bus.published[0].UserID != userID {
		t.Fatalf("expected one gate_changed event for %s, got %+v", userID, bus.published)
	}
}

func TestSubmitValuesAnswersRejectsOutOfRange(t *testing.T) {
	userID := uuid.New()
	svc := &politicalService{
		log:           newTestLogger(t),
		politicalRepo: newFakePoliticalRepo(),
		bus:           &fakeBus{},
	}
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})

	_, err := svc.SubmitValuesAnswers(ctx, ValuesAnswersInput{ViewWealthTax: intPtr(6)})
	assertStateCode(t, err, "invalid_view")
}
