package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/suke199800/tree/internal/growth"
	"github.com/suke199800/tree/internal/models"
)

var (
	ErrSchoolNotFound  = errors.New("school not found")
	ErrContentRequired = errors.New("content is required")
)

// Store владеет каталогом и похвалами. Все чтения и изменения идут под одним mutex.
type Store struct {
	mu         sync.Mutex
	schools    []models.School
	byID       map[int]int
	posts      map[int][]models.PraisePost
	nextPostID int64

	ladder *growth.Ladder
	award  int
	now    func() time.Time
}

type Option func(*Store)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLadder задаёт другую лестницу стадий. nil оставляет growth.Default.
func WithLadder(l *growth.Ladder) Option {
	return func(s *Store) {
		if l != nil {
			s.ladder = l
		}
	}
}

func New(schools []models.School, opts ...Option) *Store {
	s := &Store{
		schools:    make([]models.School, 0, len(schools)),
		byID:       make(map[int]int, len(schools)),
		posts:      make(map[int][]models.PraisePost),
		nextPostID: 1,
		ladder:     growth.Default,
		award:      models.PointsPerPost,
		now:        time.Now,
	}
	for _, sc := range schools {
		if _, dup := s.byID[sc.ID]; dup {
			continue
		}
		s.byID[sc.ID] = len(s.schools)
		s.schools = append(s.schools, sc.Clone())
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schools: копия каталога в порядке загрузки.
func (s *Store) Schools() []models.School {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.School, len(s.schools))
	for i, sc := range s.schools {
		out[i] = sc.Clone()
	}
	return out
}

func (s *Store) School(id int) (models.School, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return models.School{}, ErrSchoolNotFound
	}
	return s.schools[i].Clone(), nil
}

// AddResult: созданная похвала и состояние школы после начисления.
type AddResult struct {
	Post      models.PraisePost
	School    models.School
	PrevStage int
}

func (r AddResult) StageChanged() bool { return r.School.TreeGrowthStage != r.PrevStage }

// AddPost проверяет текст, находит школу, начисляет баллы и сохраняет похвалу.
// При ошибке ни счётчик id, ни школы, ни список похвал не меняются.
func (s *Store) AddPost(schoolID int, author, content string) (AddResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return AddResult{}, ErrContentRequired
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = models.AnonymousAuthor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[schoolID]
	if !ok {
		return AddResult{}, ErrSchoolNotFound
	}
	sc := &s.schools[i]

	post := models.PraisePost{
		ID:            s.nextPostID,
		InstitutionID: schoolID,
		AuthorInfo:    author,
		Content:       content,
		PointsAwarded: s.award,
		CreatedAt:     s.now().UTC(),
	}
	s.nextPostID++
	s.posts[schoolID] = append(s.posts[schoolID], post)

	prev := sc.TreeGrowthStage
	sc.PraisePoints, sc.TreeGrowthStage = s.ladder.Advance(sc.PraisePoints, sc.TreeGrowthStage, s.award)

	return AddResult{Post: post, School: sc.Clone(), PrevStage: prev}, nil
}

// Posts: похвалы школы, новые сверху. Похвала без времени считается самой ранней.
func (s *Store) Posts(schoolID int) ([]models.PraisePost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[schoolID]; !ok {
		return nil, ErrSchoolNotFound
	}
	out := make([]models.PraisePost, len(s.posts[schoolID]))
	copy(out, s.posts[schoolID])
	sort.SliceStable(out, func(a, b int) bool {
		ta, tb := out[a].CreatedAt, out[b].CreatedAt
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		return out[a].ID > out[b].ID
	})
	return out, nil
}

// Stats: сводка для метрик.
type Stats struct {
	Schools     int
	Posts       int
	TotalPoints int
	ByStage     map[int]int
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{Schools: len(s.schools), ByStage: make(map[int]int, growth.MaxStage)}
	for stage := growth.MinStage; stage <= growth.MaxStage; stage++ {
		st.ByStage[stage] = 0
	}
	for _, sc := range s.schools {
		st.TotalPoints += sc.PraisePoints
		st.ByStage[sc.TreeGrowthStage]++
	}
	for _, ps := range s.posts {
		st.Posts += len(ps)
	}
	return st
}
