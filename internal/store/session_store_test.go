package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lewybagz/photoBomb/internal/config"
	"github.com/lewybagz/photoBomb/internal/models"
	"github.com/lewybagz/photoBomb/internal/service"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// fakeUserBackend keeps member records in memory with transparent password
// hashing so tests can assert credential checks without bcrypt cost.
type fakeUserBackend struct {
	members []*models.FamilyMember
}

func (f *fakeUserBackend) Insert(_ context.Context, member *models.FamilyMember) (*models.FamilyMember, error) {
	member.ID = bson.NewObjectID()
	f.members = append(f.members, member)
	return member, nil
}

func (f *fakeUserBackend) GetByID(_ context.Context, id string) (*models.FamilyMember, error) {
	for _, m := range f.members {
		if m.ID.Hex() == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeUserBackend) GetByEmail(_ context.Context, email string) (*models.FamilyMember, error) {
	for _, m := range f.members {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeUserBackend) List(_ context.Context) ([]*models.FamilyMember, error) {
	return f.members, nil
}

func (f *fakeUserBackend) UpdateDisplayName(_ context.Context, userID, displayName string) error {
	for _, m := range f.members {
		if m.ID.Hex() == userID {
			m.DisplayName = displayName
			return nil
		}
	}
	return errors.New("member not found")
}

func (f *fakeUserBackend) VerifyPassword(member *models.FamilyMember, password string) bool {
	return member != nil && member.PasswordHash == "hashed:"+password
}

func (f *fakeUserBackend) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func newTestSessionStore(passcode string) (*SessionStore, *fakeUserBackend, *fakeCache) {
	backend := &fakeUserBackend{}
	cache := newFakeCache()
	jwtService := service.NewJWTService(&config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
	return NewSessionStore(backend, cache, jwtService, passcode, nil), backend, cache
}

func seedMember(backend *fakeUserBackend, email, password string) *models.FamilyMember {
	member := &models.FamilyMember{
		ID:           bson.NewObjectID(),
		DisplayName:  "Alice",
		Email:        email,
		PasswordHash: "hashed:" + password,
		Favorites:    []string{},
	}
	backend.members = append(backend.members, member)
	return member
}

func TestLogin_PasscodeGate(t *testing.T) {
	tests := []struct {
		name     string
		passcode string
		supplied string
		wantErr  error
	}{
		{"unconfigured passcode blocks everyone", "", "anything", ErrPasscodeNotConfigured},
		{"wrong passcode", "family-secret", "guess", ErrWrongPasscode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions, backend, _ := newTestSessionStore(tt.passcode)
			seedMember(backend, "alice@example.com", "pw")

			_, err := sessions.Login(context.Background(), tt.supplied, "alice@example.com", "pw")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLogin_CredentialChecks(t *testing.T) {
	sessions, backend, _ := newTestSessionStore("family-secret")
	seedMember(backend, "alice@example.com", "pw")

	if _, err := sessions.Login(context.Background(), "family-secret", "nobody@example.com", "pw"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("Expected ErrMemberNotFound, got %v", err)
	}
	if _, err := sessions.Login(context.Background(), "family-secret", "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_EstablishesSession(t *testing.T) {
	sessions, backend, cache := newTestSessionStore("family-secret")
	member := seedMember(backend, "alice@example.com", "pw")

	session, err := sessions.Login(context.Background(), "family-secret", "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if session.Token == "" {
		t.Error("Expected a signed token")
	}
	if session.UserID != member.ID.Hex() {
		t.Errorf("Expected user id %s, got %s", member.ID.Hex(), session.UserID)
	}
	if !session.IsValid {
		t.Error("Expected a valid session")
	}

	if current := sessions.Current(); current == nil || current.ID != member.ID {
		t.Error("Expected the member to be the current identity")
	}

	var cached models.Session
	hit, err := cache.GetJSON(context.Background(), sessionCacheKey(session.UserID), &cached)
	if err != nil || !hit {
		t.Fatalf("Expected the session in the cache, hit=%v err=%v", hit, err)
	}
	if cached.Token != session.Token {
		t.Error("Expected the cached session to match")
	}
}

func TestRegister_DuplicateEmailAndLoginFlow(t *testing.T) {
	sessions, backend, _ := newTestSessionStore("family-secret")

	session, err := sessions.Register(context.Background(), "family-secret", "bob@example.com", "pw", "Bob", "uncle")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if session.DisplayName != "Bob" {
		t.Errorf("Expected display name Bob, got %s", session.DisplayName)
	}
	if len(backend.members) != 1 {
		t.Fatalf("Expected 1 member record, got %d", len(backend.members))
	}
	if backend.members[0].PasswordHash != "hashed:pw" {
		t.Error("Expected the stored credential to be hashed")
	}

	if _, err := sessions.Register(context.Background(), "family-secret", "bob@example.com", "pw2", "Bobby", "uncle"); !errors.Is(err, ErrEmailInUse) {
		t.Errorf("Expected ErrEmailInUse, got %v", err)
	}

	// The freshly registered member can log in
	if _, err := sessions.Login(context.Background(), "family-secret", "bob@example.com", "pw"); err != nil {
		t.Errorf("Expected login to succeed, got %v", err)
	}
}

func TestLogout_DropsSessionAndNotifies(t *testing.T) {
	sessions, backend, cache := newTestSessionStore("family-secret")
	member := seedMember(backend, "alice@example.com", "pw")

	var changes []*models.FamilyMember
	sessions.Subscribe(func(m *models.FamilyMember) {
		changes = append(changes, m)
	})

	if _, err := sessions.Login(context.Background(), "family-secret", "alice@example.com", "pw"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := sessions.Logout(context.Background(), member.ID.Hex()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if sessions.Current() != nil {
		t.Error("Expected no current identity after logout")
	}

	var cached models.Session
	hit, _ := cache.GetJSON(context.Background(), sessionCacheKey(member.ID.Hex()), &cached)
	if hit {
		t.Error("Expected the cached session to be gone")
	}

	if len(changes) != 2 || changes[0] == nil || changes[1] != nil {
		t.Errorf("Expected login then logout notifications, got %d", len(changes))
	}
}

func TestUpdateDisplayName_PropagatesLocally(t *testing.T) {
	sessions, backend, _ := newTestSessionStore("family-secret")
	member := seedMember(backend, "alice@example.com", "pw")

	if _, err := sessions.Login(context.Background(), "family-secret", "alice@example.com", "pw"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := sessions.FetchFamilyMembers(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := sessions.UpdateDisplayName(context.Background(), member.ID.Hex(), "  "); !errors.Is(err, ErrEmptyDisplayName) {
		t.Errorf("Expected ErrEmptyDisplayName, got %v", err)
	}

	if err := sessions.UpdateDisplayName(context.Background(), member.ID.Hex(), "Alicia"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if backend.members[0].DisplayName != "Alicia" {
		t.Error("Expected the backend record to be updated")
	}
	if sessions.Current().DisplayName != "Alicia" {
		t.Error("Expected the current identity to be updated")
	}
}
