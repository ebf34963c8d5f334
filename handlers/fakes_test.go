package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"simquiz_backend/billing"
	"simquiz_backend/db"
	"simquiz_backend/models"
	"simquiz_backend/quizgen"
)

// fakeStore is an in-memory QuizStore, AttemptStore and ProfileStore.
type fakeStore struct {
	mu        sync.Mutex
	quizzes   map[uuid.UUID]*models.QuizWithQuestions
	quizOrder []uuid.UUID
	attempts  []*models.Attempt
	profiles  map[uuid.UUID]*models.Profile
	updates   []models.ProfileUpdate

	profileErr error
	countErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quizzes:  make(map[uuid.UUID]*models.QuizWithQuestions),
		profiles: make(map[uuid.UUID]*models.Profile),
	}
}

func (s *fakeStore) CreateQuiz(_ context.Context, quiz models.Quiz, questions []models.Question) (*models.QuizWithQuestions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertQuiz(quiz, questions), nil
}

func (s *fakeStore) CreateQuizWithinLimit(_ context.Context, quiz models.Quiz, questions []models.Question, since time.Time, limit int) (*models.QuizWithQuestions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countSince(quiz.CreatedBy, since) >= limit {
		return nil, db.ErrQuotaExceeded
	}
	return s.insertQuiz(quiz, questions), nil
}

func (s *fakeStore) insertQuiz(quiz models.Quiz, questions []models.Question) *models.QuizWithQuestions {
	quiz.ID = uuid.New()
	quiz.NumQuestions = len(questions)
	quiz.CreatedAt = time.Now()
	saved := make([]models.Question, len(questions))
	for i, q := range questions {
		q.ID = uuid.New()
		q.QuizID = quiz.ID
		q.OrderNum = i
		saved[i] = q
	}
	out := &models.QuizWithQuestions{Quiz: quiz, Questions: saved}
	s.quizzes[quiz.ID] = out
	s.quizOrder = append(s.quizOrder, quiz.ID)
	return out
}

func (s *fakeStore) GetQuiz(_ context.Context, id uuid.UUID) (*models.QuizWithQuestions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return q, nil
}

func (s *fakeStore) ListQuizzesByCreator(_ context.Context, userID uuid.UUID) ([]models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Quiz{}
	for i := len(s.quizOrder) - 1; i >= 0; i-- {
		if q := s.quizzes[s.quizOrder[i]]; q.CreatedBy == userID {
			out = append(out, q.Quiz)
		}
	}
	return out, nil
}

func (s *fakeStore) CountQuizzesSince(_ context.Context, userID uuid.UUID, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.countSince(userID, since), nil
}

func (s *fakeStore) countSince(userID uuid.UUID, since time.Time) int {
	n := 0
	for _, q := range s.quizzes {
		if q.CreatedBy == userID && !q.CreatedAt.Before(since) {
			n++
		}
	}
	return n
}

func (s *fakeStore) CreateAttempt(_ context.Context, a *models.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.New()
	a.CompletedAt = time.Now()
	s.attempts = append(s.attempts, a)
	return nil
}

func (s *fakeStore) GetAttemptForUser(_ context.Context, id, userID uuid.UUID) (*models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attempts {
		if a.ID == id && a.UserID == userID {
			return a, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeStore) ListAttemptsByUser(_ context.Context, userID uuid.UUID) ([]models.AttemptSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AttemptSummary{}
	for i := len(s.attempts) - 1; i >= 0; i-- {
		a := s.attempts[i]
		if a.UserID != userID {
			continue
		}
		q := s.quizzes[a.QuizID]
		out = append(out, models.AttemptSummary{Attempt: *a, QuizTitle: q.Title, QuizTopics: q.Topics})
	}
	return out, nil
}

func (s *fakeStore) ListVisibleAttempts(_ context.Context, quizIDs []uuid.UUID) ([]models.InstructorAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(quizIDs))
	for _, id := range quizIDs {
		wanted[id] = true
	}
	out := []models.InstructorAttempt{}
	for i := len(s.attempts) - 1; i >= 0; i-- {
		a := s.attempts[i]
		if !wanted[a.QuizID] || !a.InstructorVisible {
			continue
		}
		ia := models.InstructorAttempt{Attempt: *a}
		if p, ok := s.profiles[a.UserID]; ok {
			ia.StudentName = p.FullName
			ia.StudentEmail = p.Email
		}
		out = append(out, ia)
	}
	return out, nil
}

func (s *fakeStore) GetProfile(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) EnsureProfile(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error) {
	s.mu.Lock()
	if _, ok := s.profiles[userID]; !ok {
		s.profiles[userID] = &models.Profile{ID: userID, Email: email, Role: "student", SubscriptionStatus: "free", CreatedAt: time.Now()}
	}
	s.mu.Unlock()
	return s.GetProfile(ctx, userID)
}

func (s *fakeStore) ApplyProfileUpdate(_ context.Context, u models.ProfileUpdate) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, u)
	var n int64
	for _, p := range s.profiles {
		if (u.UserID != nil && p.ID == *u.UserID) ||
			(u.UserID == nil && p.SubscriptionID != nil && *p.SubscriptionID == u.SubscriptionID) {
			p.SubscriptionStatus = u.Status
			if u.SetSubscriptionID {
				p.SubscriptionID = u.NewSubscriptionID
			}
			if u.SetTrialEndsAt {
				p.TrialEndsAt = u.TrialEndsAt
			}
			n++
		}
	}
	return n, nil
}

type fakeGenerator struct {
	mu     sync.Mutex
	calls  int
	got    quizgen.Request
	result *quizgen.Result
	err    error
	delay  time.Duration
}

func (g *fakeGenerator) Generate(_ context.Context, req quizgen.Request) (*quizgen.Result, error) {
	time.Sleep(g.delay)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.got = req
	return g.result, g.err
}

type fakeCaptions struct {
	gotURL string
	text   string
	err    error
}

func (f *fakeCaptions) Fetch(_ context.Context, videoURL string) (string, error) {
	f.gotURL = videoURL
	return f.text, f.err
}

type fakeTranscriber struct {
	gotName string
	gotLen  int
	text    string
	err     error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, filename string, data []byte) (string, error) {
	f.gotName = filename
	f.gotLen = len(data)
	return f.text, f.err
}

type fakeCheckout struct {
	got billing.CheckoutParams
	id  string
	err error
}

func (f *fakeCheckout) CreateCheckoutSession(_ context.Context, p billing.CheckoutParams) (string, error) {
	f.got = p
	return f.id, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
