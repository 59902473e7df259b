package services

import (
  "context"
  "errors"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/kindred-backend/internal/apierr"
  "github.com/yungbote/kindred-backend/internal/logger"
  "github.com/yungbote/kindred-backend/internal/realtime"
  "github.com/yungbote/kindred-backend/internal/repos"
  "github.com/yungbote/kindred-backend/internal/requestdata"
  "github.com/yungbote/kindred-backend/internal/types"
)

type ResponseInput struct {
  QuestionExternalID string                    `json:"question_id"`
  NumericResponse    *int                      `json:"numeric_response"`
  TextResponse       string                    `json:"text_response"`
  Importance         types.ResponseImportance  `json:"importance"`
}

type CategoryProgress struct {
  Category  types.QuestionCategory `json:"category"`
  Answered  int                    `json:"answered"`
  Available int                    `json:"available"`
  Complete  bool                   `json:"complete"`
}

type AssessmentProgress struct {
  Categories      []CategoryProgress `json:"categories"`
  ProfileComplete bool               `json:"profile_complete"`
}

type AssessmentService interface {
  GetQuestions(ctx context.Context, category types.QuestionCategory) ([]*types.Question, error)
  SubmitResponses(ctx context.Context, inputs []ResponseInput) (*types.TraitProfile, error)
  GetProgress(ctx context.Context) (*AssessmentProgress, error)
  GetResults(ctx context.Context) (*types.TraitProfile, error)
  ResetAssessment(ctx context.Context, category *types.QuestionCategory) error
}

type assessmentService struct {
  db           *gorm.DB
  log          *logger.Logger
  questionRepo repos.QuestionRepo
  responseRepo repos.ResponseRepo
  profileRepo  repos.TraitProfileRepo
  compatRepo   repos.CompatibilityScoreRepo
  scoring      ScoringService
  bus          realtime.Bus
}

func NewAssessmentService(
  db *gorm.DB,
  log *logger.Logger,
  questionRepo repos.QuestionRepo,
  responseRepo repos.ResponseRepo,
  profileRepo repos.TraitProfileRepo,
  compatRepo repos.CompatibilityScoreRepo,
  scoring ScoringService,
  bus realtime.Bus,
) AssessmentService {
  serviceLog := log.With("service", "AssessmentService")
  return &assessmentService{
    db:           db,
    log:          serviceLog,
    questionRepo: questionRepo,
    responseRepo: responseRepo,
    profileRepo:  profileRepo,
    compatRepo:   compatRepo,
    scoring:      scoring,
    bus:          bus,
  }
}

func (as *assessmentService) currentUserID(ctx context.Context) (uuid.UUID, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    as.log.Warn("No request data found in context")
    return uuid.Nil, fmt.Errorf("No request data found in context")
  }
  return rd.UserID, nil
}

func (as *assessmentService) GetQuestions(ctx context.Context, category types.QuestionCategory) ([]*types.Question, error) {
  return as.questionRepo.ListActiveByCategory(ctx, nil, category)
}

// validateInput checks one submission against its question: numeric answers
// must sit inside the scale bounds, free-text questions take text only, and
// the importance level must be a known one.
func validateInput(q *types.Question, in ResponseInput) error {
  if min, max, ok := q.Scale.Bounds(); ok {
    if in.NumericResponse == nil {
      return apierr.Validation("missing_numeric_response", fmt.Errorf("question %s requires a numeric response", q.ExternalID))
    }
    if *in.NumericResponse < min || *in.NumericResponse > max {
      return apierr.Validation("response_out_of_range", fmt.Errorf("question %s accepts %d-%d, got %d", q.ExternalID, min, max, *in.NumericResponse))
    }
  } else {
    if in.TextResponse == "" {
      return apierr.Validation("missing_text_response", fmt.Errorf("question %s requires a text response", q.ExternalID))
    }
    if in.NumericResponse != nil {
      return apierr.Validation("unexpected_numeric_response", fmt.Errorf("question %s is free text", q.ExternalID))
    }
  }
  switch in.Importance {
  case "", types.ImportanceIrrelevant, types.ImportanceALittle, types.ImportanceSomewhat, types.ImportanceVery, types.ImportanceMandatory:
  default:
    return apierr.Validation("invalid_importance", fmt.Errorf("unknown importance %q", in.Importance))
  }
  return nil
}

// SubmitResponses upserts a batch of answers and recomputes the whole trait
// profile inside one transaction. Cached pair scores for the user are dropped
// so the next compatibility read recomputes against the fresh profile.
func (as *assessmentService) SubmitResponses(ctx context.Context, inputs []ResponseInput) (*types.TraitProfile, error) {
  userID, err := as.currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  if len(inputs) == 0 {
    return nil, apierr.Validation("empty_submission", fmt.Errorf("at least one response is required"))
  }

  externalIDs := make([]string, 0, len(inputs))
  for _, in := range inputs {
    if in.QuestionExternalID == "" {
      return nil, apierr.Validation("missing_question_id", fmt.Errorf("question_id is required"))
    }
    externalIDs = append(externalIDs, in.QuestionExternalID)
  }

  var profile *types.TraitProfile
  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    questions, qErr := as.questionRepo.GetByExternalIDs(ctx, tx, externalIDs)
    if qErr != nil {
      return fmt.Errorf("Failed to load questions: %w", qErr)
    }
    byExternalID := make(map[string]*types.Question, len(questions))
    for _, q := range questions {
      byExternalID[q.ExternalID] = q
    }

    now := time.Now()
    responses := make([]*types.Response, 0, len(inputs))
    for _, in := range inputs {
      q, ok := byExternalID[in.QuestionExternalID]
      if !ok || !q.Active {
        return apierr.NotFound("unknown_question", fmt.Errorf("question %q not found", in.QuestionExternalID))
      }
      if vErr := validateInput(q, in); vErr != nil {
        return vErr
      }
      importance := in.Importance
      if importance == "" {
        importance = types.ImportanceSomewhat
      }
      responses = append(responses, &types.Response{
        ID:              uuid.New(),
        UserID:          userID,
        QuestionID:      q.ID,
        Category:        q.Category,
        NumericResponse: in.NumericResponse,
        TextResponse:    in.TextResponse,
        Importance:      importance,
        AnsweredAt:      now,
        UpdatedAt:       now,
      })
    }

    if _, uErr := as.responseRepo.Upsert(ctx, tx, responses); uErr != nil {
      return fmt.Errorf("Failed to upsert responses: %w", uErr)
    }

    all, gErr := as.responseRepo.GetByUser(ctx, tx, userID)
    if gErr != nil {
      return fmt.Errorf("Failed to load responses for recompute: %w", gErr)
    }

    profile = as.scoring.BuildProfile(userID, all)
    if _, pErr := as.profileRepo.Upsert(ctx, tx, profile); pErr != nil {
      return fmt.Errorf("Failed to upsert trait profile: %w", pErr)
    }

    if dErr := as.compatRepo.DeleteByUser(ctx, tx, userID); dErr != nil {
      return fmt.Errorf("Failed to invalidate cached pair scores: %w", dErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  if pErr := as.bus.Publish(ctx, realtime.Event{Kind: realtime.EventProfileRecomputed, UserID: userID}); pErr != nil {
    as.log.Warn("Failed to publish profile recompute event", "error", pErr)
  }

  return profile, nil
}

func (as *assessmentService) GetProgress(ctx context.Context) (*AssessmentProgress, error) {
  userID, err := as.currentUserID(ctx)
  if err != nil {
    return nil, err
  }

  available, aErr := as.questionRepo.CountActiveByCategory(ctx, nil)
  if aErr != nil {
    return nil, fmt.Errorf("Failed to count active questions: %w", aErr)
  }
  answered, rErr := as.responseRepo.CountByUserPerCategory(ctx, nil, userID)
  if rErr != nil {
    return nil, fmt.Errorf("Failed to count responses: %w", rErr)
  }

  thresholds := map[types.QuestionCategory]int{
    types.CategoryBigFive:     BigFiveCompleteThreshold,
    types.CategoryAttachment:  AttachmentCompleteThreshold,
    types.CategoryValues:      ValuesCompleteThreshold,
    types.CategoryLifestyle:   LifestyleCompleteThreshold,
    types.CategoryDealbreaker: DealbreakerCompleteThreshold,
  }

  progress := &AssessmentProgress{ProfileComplete: true}
  for _, category := range types.AllQuestionCategories() {
    if category == types.CategoryFreeText {
      continue
    }
    threshold := thresholds[category]
    complete := answered[category] >= threshold
    if !complete {
      progress.ProfileComplete = false
    }
    progress.Categories = append(progress.Categories, CategoryProgress{
      Category:  category,
      Answered:  answered[category],
      Available: available[category],
      Complete:  complete,
    })
  }
  return progress, nil
}

func (as *assessmentService) GetResults(ctx context.Context) (*types.TraitProfile, error) {
  userID, err := as.currentUserID(ctx)
  if err != nil {
    return nil, err
  }

  profile, gErr := as.profileRepo.GetByUserID(ctx, nil, userID)
  if gErr != nil {
    if errors.Is(gErr, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("no_profile", fmt.Errorf("no assessment results yet"))
    }
    return nil, gErr
  }
  return profile, nil
}

// ResetAssessment wipes the user's answers, derived profile, and cached pair
// scores in one transaction. A non-nil category limits the deletion to that
// category's responses; the profile is then recomputed from what remains.
func (as *assessmentService) ResetAssessment(ctx context.Context, category *types.QuestionCategory) error {
  userID, err := as.currentUserID(ctx)
  if err != nil {
    return err
  }

  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if category != nil {
      if dErr := as.responseRepo.DeleteByUserAndCategory(ctx, tx, userID, *category); dErr != nil {
        return fmt.Errorf("Failed to delete responses: %w", dErr)
      }
      remaining, gErr := as.responseRepo.GetByUser(ctx, tx, userID)
      if gErr != nil {
        return fmt.Errorf("Failed to load remaining responses: %w", gErr)
      }
      profile := as.scoring.BuildProfile(userID, remaining)
      if _, pErr := as.profileRepo.Upsert(ctx, tx, profile); pErr != nil {
        return fmt.Errorf("Failed to upsert trait profile: %w", pErr)
      }
    } else {
      if dErr := as.responseRepo.DeleteByUser(ctx, tx, userID); dErr != nil {
        return fmt.Errorf("Failed to delete responses: %w", dErr)
      }
      if dErr := as.profileRepo.DeleteByUserID(ctx, tx, userID); dErr != nil {
        return fmt.Errorf("Failed to delete trait profile: %w", dErr)
      }
    }
    if dErr := as.compatRepo.DeleteByUser(ctx, tx, userID); dErr != nil {
      return fmt.Errorf("Failed to delete cached pair scores: %w", dErr)
    }
    return nil
  })
  if err != nil {
    return err
  }

  if pErr := as.bus.Publish(ctx, realtime.Event{Kind: realtime.EventProfileReset, UserID: userID}); pErr != nil {
    as.log.Warn("Failed to publish profile reset event", "error", pErr)
  }
  return nil
}
