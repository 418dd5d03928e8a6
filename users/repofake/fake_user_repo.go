package fakeuserrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/post-scheduler/internal/errors"
	"github.com/jrsteele09/post-scheduler/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

// FakeUserRepo keeps users in process memory. Nothing survives a restart.
type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // normalised email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
	}
}

// Insert checks and writes under a single write lock so two concurrent
// registrations for the same email cannot both succeed.
func (ur *FakeUserRepo) Insert(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := users.NormalizeEmail(user.Email)
	if _, ok := ur.emailIds[email]; ok {
		return apperrors.ErrConflict
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, ok := ur.users[user.ID]; ok {
		return apperrors.Wrapf(apperrors.ErrConflict, "user id %s", user.ID)
	}

	user.Email = email
	stored := *user
	ur.users[user.ID] = &stored
	ur.emailIds[email] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[users.NormalizeEmail(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u := *ur.users[id]
	return &u, nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	stored, ok := ur.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u := *stored
	return &u, nil
}

// Len reports how many users are stored.
func (ur *FakeUserRepo) Len() int {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return len(ur.users)
}
