package bootcamp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
	"github.com/bitvavo/bootcamp-bot/internal/metrics"
	"github.com/bitvavo/bootcamp-bot/internal/store"
)

// DefaultHorizon is how far ahead of now sessions are materialized: this
// evening's session on a given morning, plus tomorrow's early slot.
const DefaultHorizon = 24 * time.Hour

// Options configures a Service. Sessions and Schedules are required.
type Options struct {
	Template  domain.Template
	Sessions  store.SessionRepo
	Schedules store.ScheduleRepo
	Presenter Presenter
	Boards    LeaderboardPresenter
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	// Location is the reference timezone for "today".
	Location *time.Location
	Now      func() time.Time
	NewID    func() string
	// SessionLimit is the default capacity for new sessions; 0 means unlimited.
	SessionLimit int
	Horizon      time.Duration
}

// Service is the bootcamp engine: it materializes sessions from the weekly
// template, owns participant mutations and computes leaderboards.
type Service struct {
	template  domain.Template
	sessions  store.SessionRepo
	schedules store.ScheduleRepo
	presenter Presenter
	boards    LeaderboardPresenter
	log       *zap.Logger
	metrics   *metrics.Metrics
	loc       *time.Location
	now       func() time.Time
	newID     func() string
	limit     int
	horizon   time.Duration

	reconcileMu sync.Mutex
	locks       *keyedLocks
}

// New validates opts and fills in defaults.
func New(opts Options) (*Service, error) {
	if opts.Sessions == nil || opts.Schedules == nil {
		return nil, errors.New("bootcamp: session and schedule repositories are required")
	}
	if opts.SessionLimit < 0 {
		return nil, errors.New("bootcamp: session limit must not be negative")
	}
	s := &Service{
		template:  opts.Template,
		sessions:  opts.Sessions,
		schedules: opts.Schedules,
		presenter: opts.Presenter,
		boards:    opts.Boards,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		loc:       opts.Location,
		now:       opts.Now,
		newID:     opts.NewID,
		limit:     opts.SessionLimit,
		horizon:   opts.Horizon,
		locks:     newKeyedLocks(),
	}
	if s.template.Len() == 0 {
		s.template = domain.DefaultTemplate()
	}
	if s.presenter == nil {
		s.presenter = NoopPresenter{}
	}
	if s.boards == nil {
		s.boards = NoopPresenter{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.horizon <= 0 {
		s.horizon = DefaultHorizon
	}
	return s, nil
}

// Template returns the weekly template the service materializes.
func (s *Service) Template() domain.Template { return s.template }

// Location returns the reference timezone.
func (s *Service) Location() *time.Location { return s.loc }

// Now returns the service clock reading.
func (s *Service) Now() time.Time { return s.now() }

// Today returns the current date in the reference timezone.
func (s *Service) Today() domain.Date { return domain.Today(s.now(), s.loc) }

// Start materializes whatever is due at process start.
func (s *Service) Start(ctx context.Context) error {
	report, err := s.Reconcile(ctx, s.now())
	s.log.Info("initial reconcile done",
		zap.Int("created", len(report.Created)),
		zap.Int("failed", len(report.Failed)),
	)
	return err
}

func (s *Service) defaultLimit() *int {
	if s.limit <= 0 {
		return nil
	}
	l := s.limit
	return &l
}

// loadSession returns a fresh copy of the session with the given id.
func (s *Service) loadSession(ctx context.Context, id string) (domain.Session, error) {
	all, err := s.sessions.LoadSessions(ctx)
	if err != nil {
		return domain.Session{}, &domain.PersistenceError{Op: "load sessions", Err: err}
	}
	for _, sess := range all {
		if sess.ID == id {
			return sess, nil
		}
	}
	return domain.Session{}, notFound("session %s", id)
}

// saveSession persists sess, wrapping failures.
func (s *Service) saveSession(ctx context.Context, sess domain.Session) error {
	if err := s.sessions.SaveSession(ctx, sess); err != nil {
		return &domain.PersistenceError{Op: "save session " + sess.ID, Err: err}
	}
	return nil
}
