package service

import (
	"fmt"

	"wanderlust_backend/internal/adaptive"
	"wanderlust_backend/internal/catalog"
	"wanderlust_backend/internal/model"
	"wanderlust_backend/internal/selection"
	"wanderlust_backend/internal/util"
	"wanderlust_backend/pkg/cache"
	"wanderlust_backend/pkg/monitoring"
	"wanderlust_backend/pkg/ratelimit"

	"go.uber.org/zap"
)

const (
	defaultFeedCount   = 10
	dailyBaseCount     = 5
	dailyStreakDivisor = 7
	dailyMaxBonus      = 5
	practicePerArea    = 3
	challengeCount     = 5
	challengeMinScore  = 70
)

// FeedOptions controls one feed request. The zero value means "ten
// adaptive, personalized questions from anywhere, excluding ones already
// answered".
type FeedOptions struct {
	Category     string           `json:"category"`
	Subcategory  string           `json:"subcategory"`
	Difficulty   model.Difficulty `json:"difficulty"`
	Count        int              `json:"count"`
	Adaptive     *bool            `json:"adaptive"`
	ExcludeShown *bool            `json:"excludeShown"`
	Personalized *bool            `json:"personalized"`
}

func (o *FeedOptions) normalize() {
	if o.Count <= 0 || o.Count > 50 {
		o.Count = defaultFeedCount
	}
	t := true
	if o.Adaptive == nil {
		o.Adaptive = &t
	}
	if o.ExcludeShown == nil {
		o.ExcludeShown = &t
	}
	if o.Personalized == nil {
		o.Personalized = &t
	}
}

// WeakArea names a category the user keeps missing, used by the practice
// feed.
type WeakArea struct {
	Category    string           `json:"category"`
	Subcategory string           `json:"subcategory"`
	Difficulty  model.Difficulty `json:"difficulty"`
}

// FeederService assembles question feeds: query the catalog, filter
// adaptively on recent performance, rank against the profile, and spread
// the final pick across categories and difficulties.
type FeederService struct {
	Catalog      *catalog.Store
	ProfileRepo  ProfileStore
	ProgressRepo ProgressStore
	Ranker       *selection.Ranker
	Selector     *selection.Selector
	Adaptive     *adaptive.Filter
	Cache        *cache.Cache
	Limiter      *ratelimit.Limiter
	Logger       *zap.Logger
}

func NewFeederService(
	store *catalog.Store,
	profileRepo ProfileStore,
	progressRepo ProgressStore,
	selector *selection.Selector,
	feedCache *cache.Cache,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
) *FeederService {
	return &FeederService{
		Catalog:      store,
		ProfileRepo:  profileRepo,
		ProgressRepo: progressRepo,
		Ranker:       selection.NewRanker(),
		Selector:     selector,
		Adaptive:     adaptive.NewFilter(),
		Cache:        feedCache,
		Limiter:      limiter,
		Logger:       logger,
	}
}

// Feed returns a personalized batch of questions. Results are cached per
// user and option set; the throttle counts only uncached requests.
func (s *FeederService) Feed(userID uint, opts FeedOptions) ([]model.Question, error) {
	opts.normalize()

	key := feedCacheKey(userID, opts)
	if cached, ok := s.Cache.Get(key); ok {
		monitoring.FeedCacheHits.WithLabelValues("hit").Inc()
		return cached.([]model.Question), nil
	}
	monitoring.FeedCacheHits.WithLabelValues("miss").Inc()

	if !s.Limiter.Allow(formatUserID(userID), util.ActionQuestionFeed) {
		monitoring.ThrottleDenials.WithLabelValues(util.ActionQuestionFeed).Inc()
		return nil, util.ErrRateLimited
	}

	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	questions := s.assemble(profile, progress, opts)
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	s.Cache.Set(key, questions)
	return questions, nil
}

// assemble runs the selection pipeline for one option set.
func (s *FeederService) assemble(profile *model.UserProfile, progress *model.UserProgress, opts FeedOptions) []model.Question {
	candidates := s.Catalog.QueryByIndex(opts.Category, opts.Difficulty)

	if opts.Subcategory != "" {
		kept := candidates[:0]
		for _, q := range candidates {
			if q.Subcategory == opts.Subcategory {
				kept = append(kept, q)
			}
		}
		candidates = kept
	}

	if *opts.ExcludeShown && len(progress.AnsweredQuestions) > 0 {
		answered := make(map[string]struct{}, len(progress.AnsweredQuestions))
		for _, id := range progress.AnsweredQuestions {
			answered[id] = struct{}{}
		}
		kept := candidates[:0]
		for _, q := range candidates {
			if _, seen := answered[q.QuestionID]; !seen {
				kept = append(kept, q)
			}
		}
		candidates = kept
	}

	if *opts.Adaptive {
		candidates = s.Adaptive.Apply(candidates, adaptive.Performance{
			AverageScore: profile.AverageScore,
		})
	}

	rankProfile := profile
	if !*opts.Personalized {
		rankProfile = nil
	}
	ranked := s.Ranker.Rank(candidates, rankProfile)
	selected := s.Selector.Select(ranked, opts.Count)
	for _, q := range selected {
		monitoring.QuestionsServed.WithLabelValues(q.Category).Inc()
	}

	// A user who has answered everything matching the filters still gets
	// questions, repeats included.
	if len(selected) == 0 && *opts.ExcludeShown {
		retry := opts
		f := false
		retry.ExcludeShown = &f
		return s.assemble(profile, progress, retry)
	}
	return selected
}

// DailyFeed mixes preferred categories into a streak-scaled batch: five
// base questions plus one bonus for every full week of the daily streak,
// capped at five.
func (s *FeederService) DailyFeed(userID uint) ([]model.Question, error) {
	if !s.Limiter.Allow(formatUserID(userID), util.ActionQuestionFeed) {
		monitoring.ThrottleDenials.WithLabelValues(util.ActionQuestionFeed).Inc()
		return nil, util.ErrRateLimited
	}

	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	bonus := progress.DailyStreak / dailyStreakDivisor
	if bonus > dailyMaxBonus {
		bonus = dailyMaxBonus
	}
	total := dailyBaseCount + bonus

	categories := profile.PreferredCategories
	if len(categories) == 0 {
		categories = s.Catalog.Categories()
	}
	if len(categories) == 0 {
		return nil, util.ErrNoQuestions
	}

	perCategory := (total + len(categories) - 1) / len(categories)
	var questions []model.Question
	for _, category := range categories {
		opts := FeedOptions{Category: category, Count: perCategory}
		opts.normalize()
		questions = append(questions, s.assemble(profile, progress, opts)...)
		if len(questions) >= total {
			break
		}
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}
	if len(questions) > total {
		questions = questions[:total]
	}
	return questions, nil
}

// PracticeFeed pulls a few questions from each weak area.
func (s *FeederService) PracticeFeed(userID uint, areas []WeakArea) ([]model.Question, error) {
	if len(areas) == 0 {
		return nil, util.ErrNoQuestions
	}

	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	for _, area := range areas {
		opts := FeedOptions{
			Category:    area.Category,
			Subcategory: area.Subcategory,
			Difficulty:  area.Difficulty,
			Count:       practicePerArea,
		}
		opts.normalize()
		questions = append(questions, s.assemble(profile, progress, opts)...)
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}
	return questions, nil
}

// ChallengeFeed serves advanced questions to proven users: average score
// 70 or above. Challenges are neither adaptive nor personalized, on
// purpose.
func (s *FeederService) ChallengeFeed(userID uint) ([]model.Question, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile.AverageScore < challengeMinScore {
		return nil, util.ErrChallengeLocked
	}
	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	f := false
	opts := FeedOptions{
		Difficulty:   model.Advanced,
		Count:        challengeCount,
		Adaptive:     &f,
		Personalized: &f,
	}
	opts.normalize()

	questions := s.assemble(profile, progress, opts)
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}
	return questions, nil
}

// InvalidateUser drops the user's cached feeds, called after answers
// change what should be served next.
func (s *FeederService) InvalidateUser(userID uint) {
	s.Cache.InvalidatePrefix(fmt.Sprintf("feed:%d:", userID))
}

func feedCacheKey(userID uint, opts FeedOptions) string {
	return fmt.Sprintf("feed:%d:%s:%s:%s:%d:%t:%t:%t",
		userID, opts.Category, opts.Subcategory, opts.Difficulty,
		opts.Count, *opts.Adaptive, *opts.ExcludeShown, *opts.Personalized)
}
