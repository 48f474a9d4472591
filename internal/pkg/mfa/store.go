package mfa

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

const (
	// CodeLength is the number of digits in a verification code.
	CodeLength = 6
	// ChallengeTTL bounds how long an issued code stays valid.
	ChallengeTTL = 5 * time.Minute
	// DefaultSweepInterval is how often expired challenges are reaped.
	DefaultSweepInterval = time.Minute
)

// Directory resolves a challenge's owner at verification time.
type Directory interface {
	UserByID(id string) (*state.User, bool)
}

// Dispatcher pushes an issued code into the delivery channel (queue or SMTP).
type Dispatcher interface {
	Dispatch(email, code string) error
}

type challenge struct {
	userID    string
	code      string
	expiresAt time.Time
}

// Store keeps short-lived, single-use login challenges. Entries live only in
// process memory: a restart invalidates every outstanding challenge, which is
// intended. Safe for concurrent use.
type Store struct {
	users    Directory
	dispatch Dispatcher
	log      zerolog.Logger
	now      func() time.Time

	mu         sync.Mutex
	challenges map[string]*challenge
}

func NewStore(users Directory, dispatch Dispatcher, log zerolog.Logger) *Store {
	return &Store{
		users:      users,
		dispatch:   dispatch,
		log:        log,
		now:        time.Now,
		challenges: make(map[string]*challenge),
	}
}

// Issue creates a challenge for the user and hands the code to the delivery
// channel. A delivery failure is returned to the caller but the challenge
// stays valid: the user may still verify with a code that did arrive late.
func (s *Store) Issue(u *state.User) (challengeID, code string, err error) {
	challengeID = uuid.NewString()
	code = GenerateNumericCode(CodeLength)

	s.mu.Lock()
	s.challenges[challengeID] = &challenge{
		userID:    u.ID,
		code:      code,
		expiresAt: s.now().Add(ChallengeTTL),
	}
	s.mu.Unlock()

	if s.dispatch != nil {
		if derr := s.dispatch.Dispatch(u.Email, code); derr != nil {
			s.log.Error().Err(derr).Str("userId", u.ID).Msg("failed to dispatch mfa code")
			return challengeID, code, apperrors.Wrap(apperrors.CodeInternal,
				"failed to send verification code, please try again later", derr)
		}
	}
	return challengeID, code, nil
}

// Verify consumes the challenge on success. It fails with a not-found error
// for unknown ids (including after a sweep or restart), an expiry error past
// the deadline, and an invalid-code error on mismatch. A successful
// verification deletes the challenge so it can never succeed twice.
func (s *Store) Verify(challengeID, submitted string) (*state.User, error) {
	s.mu.Lock()
	ch, ok := s.challenges[challengeID]
	if !ok {
		s.mu.Unlock()
		return nil, apperrors.ErrChallengeNotFound
	}
	if s.now().After(ch.expiresAt) {
		// Left in place for the sweeper.
		s.mu.Unlock()
		return nil, apperrors.ErrChallengeExpired
	}
	if submitted == "" || submitted != ch.code {
		s.mu.Unlock()
		return nil, apperrors.ErrInvalidCode
	}
	delete(s.challenges, challengeID)
	s.mu.Unlock()

	u, ok := s.users.UserByID(ch.userID)
	if !ok {
		return nil, apperrors.NotFound("user does not exist")
	}
	return u, nil
}

// Sweep removes expired, unconsumed challenges and reports how many.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, ch := range s.challenges {
		if now.After(ch.expiresAt) {
			delete(s.challenges, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until the stop channel closes.
func (s *Store) StartSweeper(stop <-chan struct{}, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					s.log.Debug().Int("removed", n).Msg("swept expired mfa challenges")
				}
			}
		}
	}()
}

// Pending reports the number of outstanding challenges.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}

// GenerateNumericCode returns a fixed-length numeric code whose leading digit
// is never zero.
func GenerateNumericCode(length int) string {
	digits := make([]byte, length)
	for i := range digits {
		lo := int64(0)
		if i == 0 {
			lo = 1
		}
		n, err := rand.Int(rand.Reader, big.NewInt(10-lo))
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken.
			digits[i] = '1'
			continue
		}
		digits[i] = byte('0' + lo + n.Int64())
	}
	return string(digits)
}
