package store

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/lewybagz/photoBomb/internal/events"
	"github.com/lewybagz/photoBomb/internal/models"
	"github.com/lewybagz/photoBomb/internal/service"
)

// UserBackend is the document-store slice holding family member records.
type UserBackend interface {
	Insert(ctx context.Context, member *models.FamilyMember) (*models.FamilyMember, error)
	GetByID(ctx context.Context, id string) (*models.FamilyMember, error)
	GetByEmail(ctx context.Context, email string) (*models.FamilyMember, error)
	List(ctx context.Context) ([]*models.FamilyMember, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
	VerifyPassword(member *models.FamilyMember, password string) bool
	HashPassword(password string) (string, error)
}

// SessionStore owns the authenticated identity and the family roster.
// Login and registration are gated twice: the shared family passcode first,
// then the member's own credentials. Identity changes fan out to registered
// listeners so dependent stores can reset per-member state.
type SessionStore struct {
	mu        sync.Mutex
	current   *models.FamilyMember
	members   []*models.FamilyMember
	listeners []func(*models.FamilyMember)

	backend        UserBackend
	cache          Cache
	jwt            *service.JWTService
	familyPasscode string
	publisher      events.Publisher
}

// NewSessionStore creates a session store. publisher may be nil.
func NewSessionStore(backend UserBackend, cache Cache, jwt *service.JWTService, familyPasscode string, publisher events.Publisher) *SessionStore {
	return &SessionStore{
		backend:        backend,
		cache:          cache,
		jwt:            jwt,
		familyPasscode: familyPasscode,
		publisher:      publisher,
	}
}

func sessionCacheKey(userID string) string {
	return "photobomb:session:" + userID
}

// checkPasscode applies the family-wide gate shared by login and
// registration. An unconfigured passcode is a deployment error and blocks
// everyone.
func (s *SessionStore) checkPasscode(passcode string) error {
	if s.familyPasscode == "" {
		return ErrPasscodeNotConfigured
	}
	if passcode != s.familyPasscode {
		return ErrWrongPasscode
	}
	return nil
}

// Login authenticates a family member. The passcode gate runs before any
// credential work so a wrong passcode never leaks whether the email exists.
func (s *SessionStore) Login(ctx context.Context, passcode, email, password string) (*models.Session, error) {
	if err := s.checkPasscode(passcode); err != nil {
		return nil, err
	}

	member, err := s.backend.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	if !s.backend.VerifyPassword(member, password) {
		return nil, ErrInvalidCredentials
	}

	return s.establishSession(ctx, member)
}

// Register creates a new family member behind the same passcode gate, then
// logs them in.
func (s *SessionStore) Register(ctx context.Context, passcode, email, password, displayName, relation string) (*models.Session, error) {
	if err := s.checkPasscode(passcode); err != nil {
		return nil, err
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}

	existing, err := s.backend.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := s.backend.HashPassword(password)
	if err != nil {
		return nil, err
	}

	member, err := s.backend.Insert(ctx, &models.FamilyMember{
		DisplayName:  displayName,
		Email:        email,
		JoinedAt:     time.Now(),
		Relation:     relation,
		Favorites:    []string{},
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishUserRegistered(ctx, member.ID.Hex(), email, displayName, relation); err != nil {
			log.Printf("Error publishing registration event: %v", err)
		}
	}

	return s.establishSession(ctx, member)
}

func (s *SessionStore) establishSession(ctx context.Context, member *models.FamilyMember) (*models.Session, error) {
	token, err := s.jwt.GenerateToken(member)
	if err != nil {
		return nil, err
	}

	now := int(time.Now().Unix())
	session := &models.Session{
		Token:          token,
		UserID:         member.ID.Hex(),
		DisplayName:    member.DisplayName,
		Email:          member.Email,
		CreatedAt:      now,
		LastActivityAt: now,
		IsValid:        true,
	}

	if err := s.cache.SetJSON(ctx, sessionCacheKey(session.UserID), session); err != nil {
		log.Printf("Error caching session: %v", err)
	}

	s.mu.Lock()
	s.current = member
	listeners := s.listeners
	s.mu.Unlock()

	for _, notify := range listeners {
		notify(member)
	}

	return session, nil
}

// Logout drops the cached session and clears the current identity.
// Listeners fire with nil so dependent stores can reset.
func (s *SessionStore) Logout(ctx context.Context, userID string) error {
	if err := s.cache.Delete(ctx, sessionCacheKey(userID)); err != nil {
		log.Printf("Error dropping cached session: %v", err)
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID.Hex() == userID {
		s.current = nil
	}
	listeners := s.listeners
	s.mu.Unlock()

	for _, notify := range listeners {
		notify(nil)
	}

	return nil
}

// Current returns the authenticated member, nil when logged out
func (s *SessionStore) Current() *models.FamilyMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Session retrieves the cached session for a member, nil on a miss
func (s *SessionStore) Session(ctx context.Context, userID string) (*models.Session, error) {
	var session models.Session
	hit, err := s.cache.GetJSON(ctx, sessionCacheKey(userID), &session)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, nil
	}
	return &session, nil
}

// FetchFamilyMembers loads the full roster, oldest member first
func (s *SessionStore) FetchFamilyMembers(ctx context.Context) ([]*models.FamilyMember, error) {
	members, err := s.backend.List(ctx)
	if err != nil {
		log.Printf("Error loading family members: %v", err)
		return nil, err
	}

	s.mu.Lock()
	s.members = members
	s.mu.Unlock()

	return members, nil
}

// UpdateDisplayName changes a member's display name everywhere it is held
// locally. Blank names are rejected before any remote call.
func (s *SessionStore) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return ErrEmptyDisplayName
	}

	if err := s.backend.UpdateDisplayName(ctx, userID, displayName); err != nil {
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID.Hex() == userID {
		s.current.DisplayName = displayName
	}
	for _, m := range s.members {
		if m.ID.Hex() == userID {
			m.DisplayName = displayName
		}
	}
	s.mu.Unlock()

	return nil
}

// Subscribe registers a listener for identity changes. Listeners receive
// the new member on login and nil on logout.
func (s *SessionStore) Subscribe(listener func(*models.FamilyMember)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}
