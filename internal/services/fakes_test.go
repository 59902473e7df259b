package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kindred-backend/internal/logger"
	"github.com/yungbote/kindred-backend/internal/realtime"
	"github.com/yungbote/kindred-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

type fakePoliticalRepo struct {
	byUser map[uuid.UUID]*types.PoliticalAssessment
}

func newFakePoliticalRepo() *fakePoliticalRepo {
	return &fakePoliticalRepo{byUser: map[uuid.UUID]*types.PoliticalAssessment{}}
}

func (f *fakePoliticalRepo) Upsert(ctx context.Context, tx *gorm.DB, a *types.PoliticalAssessment) (*types.PoliticalAssessment, error) {
	f.byUser[a.UserID] = a
	return a, nil
}

func (f *fakePoliticalRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PoliticalAssessment, error) {
	a, ok := f.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakePoliticalRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.PoliticalAssessment, error) {
	var out []*types.PoliticalAssessment
	for _, id := range userIDs {
		if a, ok := f.byUser[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeLimitRepo struct {
	byID map[uuid.UUID]*types.DailyMatchLimit
}

func newFakeLimitRepo() *fakeLimitRepo {
	return &fakeLimitRepo{byID: map[uuid.UUID]*types.DailyMatchLimit{}}
}

// Reads and writes go through snapshots so callers never share a pointer
// with the stored row, matching how a real row scan behaves.
func (f *fakeLimitRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, matchDate string) (*types.DailyMatchLimit, error) {
	for _, l := range f.byID {
		if l.UserID == userID && l.MatchDate == matchDate {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLimitRepo) Create(ctx context.Context, tx *gorm.DB, limit *types.DailyMatchLimit) (*types.DailyMatchLimit, error) {
	cp := *limit
	f.byID[limit.ID] = &cp
	return limit, nil
}

func (f *fakeLimitRepo) IncrementShown(ctx context.Context, tx *gorm.DB, limitID uuid.UUID, n int) (bool, error) {
	l, ok := f.byID[limitID]
	if !ok {
		return false, nil
	}
	if l.MatchesShown+n > l.MatchLimit {
		return false, nil
	}
	l.MatchesShown += n
	return true, nil
}

func (f *fakeLimitRepo) SetShownUserIDs(ctx context.Context, tx *gorm.DB, limitID uuid.UUID, shown []byte) error {
	if l, ok := f.byID[limitID]; ok {
		l.ShownUserIDs = shown
	}
	return nil
}

type fakeUserRepo struct {
	byID map[uuid.UUID]*types.User
}

func newFakeUserRepo(users ...*types.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: map[uuid.UUID]*types.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return users, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, tx, email)
	return err == nil, nil
}

func (f *fakeUserRepo) ListIDsExcept(ctx context.Context, tx *gorm.DB, exclude uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range f.byID {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeProfileRepo struct {
	byUser map[uuid.UUID]*types.TraitProfile
}

func newFakeProfileRepo(profiles ...*types.TraitProfile) *fakeProfileRepo {
	f := &fakeProfileRepo{byUser: map[uuid.UUID]*types.TraitProfile{}}
	for _, p := range profiles {
		f.byUser[p.UserID] = p
	}
	return f
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.TraitProfile) (*types.TraitProfile, error) {
	f.byUser[profile.UserID] = profile
	return profile, nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.TraitProfile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.TraitProfile, error) {
	var out []*types.TraitProfile
	for _, id := range userIDs {
		if p, ok := f.byUser[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	delete(f.byUser, userID)
	return nil
}

type fakeResponseRepo struct {
	byUser map[uuid.UUID][]*types.Response
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{byUser: map[uuid.UUID][]*types.Response{}}
}

func (f *fakeResponseRepo) Upsert(ctx context.Context, tx *gorm.DB, responses []*types.Response) ([]*types.Response, error) {
	for _, r := range responses {
		f.byUser[r.UserID] = append(f.byUser[r.UserID], r)
	}
	return responses, nil
}

func (f *fakeResponseRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Response, error) {
	return f.byUser[userID], nil
}

func (f *fakeResponseRepo) GetByUserAndCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.QuestionCategory) ([]*types.Response, error) {
	var out []*types.Response
	for _, r := range f.byUser[userID] {
		if r.Question != nil && r.Question.Category == category {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResponseRepo) CountByUserPerCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[types.QuestionCategory]int, error) {
	counts := map[types.QuestionCategory]int{}
	for _, r := range f.byUser[userID] {
		if r.Question != nil {
			counts[r.Question.Category]++
		}
	}
	return counts, nil
}

func (f *fakeResponseRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	delete(f.byUser, userID)
	return nil
}

func (f *fakeResponseRepo) DeleteByUserAndCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.QuestionCategory) error {
	var kept []*types.Response
	for _, r := range f.byUser[userID] {
		if r.Question == nil || r.Question.Category != category {
			kept = append(kept, r)
		}
	}
	f.byUser[userID] = kept
	return nil
}

type fakeCompatRepo struct {
	byPair map[[2]uuid.UUID]*types.CompatibilityScore
}

func newFakeCompatRepo() *fakeCompatRepo {
	return &fakeCompatRepo{byPair: map[[2]uuid.UUID]*types.CompatibilityScore{}}
}

func pairKey(a, b uuid.UUID) [2]uuid.UUID {
	ca, cb := types.CanonicalPair(a, b)
	return [2]uuid.UUID{ca, cb}
}

func (f *fakeCompatRepo) GetByPair(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) (*types.CompatibilityScore, error) {
	if s, ok := f.byPair[pairKey(a, b)]; ok {
		return s, nil
	}
	return nil, nil
}

func (f *fakeCompatRepo) Upsert(ctx context.Context, tx *gorm.DB, score *types.CompatibilityScore) (*types.CompatibilityScore, error) {
	f.byPair[pairKey(score.UserAID, score.UserBID)] = score
	return score, nil
}

func (f *fakeCompatRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	for key := range f.byPair {
		if key[0] == userID || key[1] == userID {
			delete(f.byPair, key)
		}
	}
	return nil
}

type fakeBus struct {
	published []realtime.Event
}

func (f *fakeBus) Publish(ctx context.Context, ev realtime.Event) error {
	f.published = append(f.published, ev)
	return nil
}

func (f *fakeBus) StartForwarder(ctx context.Context, onEvent func(ev realtime.Event)) error {
	return nil
}

func (f *fakeBus) Close() error { return nil }

type fakeCompatService struct {
	scores map[uuid.UUID]*types.CompatibilityScore
}

func (f *fakeCompatService) GetOrCompute(ctx context.Context, a, b uuid.UUID) (*types.CompatibilityScore, error) {
	if s, ok := f.scores[b]; ok {
		return s, nil
	}
	return &types.CompatibilityScore{UserAID: a, UserBID: b, OverallScore: NeutralSubScore}, nil
}

func (f *fakeCompatService) Compute(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) (*types.CompatibilityScore, error) {
	return f.GetOrCompute(ctx, a, b)
}
