package repo

import (
	"errors"
	"sort"

	"teportal/internal/models"
	"teportal/internal/store"
	"teportal/internal/validation"
)

// ErrSuperuserProtected is returned on attempts to delete or demote the
// built-in superuser account.
var ErrSuperuserProtected = errors.New("the superuser account cannot be modified this way")

// DefaultSuperuser is the account seeded into an empty users collection.
const DefaultSuperuser = "admin"

// Users is the repository over the users collection, which is a JSON
// object keyed by username rather than an array of records. Passwords
// are already hashed by the time they reach this layer.
type Users struct {
	s *store.Store
}

func NewUsers(s *store.Store) *Users {
	return &Users{s: s}
}

const usersCollection = "users"

func (u *Users) load() (map[string]models.User, error) {
	users := map[string]models.User{}
	if err := u.s.Load(usersCollection, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SeedDefault creates the built-in superuser when the collection is
// empty. hashedPassword must already be a bcrypt hash.
func (u *Users) SeedDefault(hashedPassword string) error {
	unlock := u.s.Lock(usersCollection)
	defer unlock()

	users, err := u.load()
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	users[DefaultSuperuser] = models.User{
		Password:  hashedPassword,
		Email:     "admin@example.com",
		Role:      "superuser",
		Status:    "active",
		CreatedAt: u.s.Timestamp(),
		CreatedBy: "system",
	}
	return u.s.Save(usersCollection, users)
}

// Get returns the user for a username, or ErrNotFound.
func (u *Users) Get(username string) (*models.User, error) {
	users, err := u.load()
	if err != nil {
		return nil, err
	}
	user, ok := users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// Exists reports whether the username is taken.
func (u *Users) Exists(username string) (bool, error) {
	users, err := u.load()
	if err != nil {
		return false, err
	}
	_, ok := users[username]
	return ok, nil
}

// All returns every account keyed by username.
func (u *Users) All() (map[string]models.User, error) {
	return u.load()
}

// Usernames returns all usernames sorted.
func (u *Users) Usernames() ([]string, error) {
	users, err := u.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Create adds a new account. The username must be free and both the
// username and account fields must validate; nothing is written otherwise.
func (u *Users) Create(username string, user models.User) error {
	ve := &validation.ValidationErrors{}
	validation.ValidateUsername(ve, "username", username)
	validation.ValidateEmail(ve, "email", user.Email)
	validation.RequireField(ve, "password", user.Password)
	validation.ValidateEnum(ve, "role", user.Role, validation.ValidRoles)
	if err := ve.Err(); err != nil {
		return err
	}

	unlock := u.s.Lock(usersCollection)
	defer unlock()

	users, err := u.load()
	if err != nil {
		return err
	}
	if _, ok := users[username]; ok {
		ve.Add("username", "is already taken")
		return ve
	}
	if user.Status == "" {
		user.Status = "active"
	}
	user.CreatedAt = u.s.Timestamp()
	users[username] = user
	return u.s.Save(usersCollection, users)
}

// Update replaces the stored account for username after mutate has been
// applied to it. ErrNotFound when the username is absent.
func (u *Users) Update(username string, mutate func(*models.User)) (*models.User, error) {
	unlock := u.s.Lock(usersCollection)
	defer unlock()

	users, err := u.load()
	if err != nil {
		return nil, err
	}
	user, ok := users[username]
	if !ok {
		return nil, ErrNotFound
	}
	mutate(&user)
	user.UpdatedAt = u.s.Timestamp()
	users[username] = user
	if err := u.s.Save(usersCollection, users); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes an account. The built-in superuser cannot be deleted.
func (u *Users) Delete(username string) error {
	if username == DefaultSuperuser {
		return ErrSuperuserProtected
	}

	unlock := u.s.Lock(usersCollection)
	defer unlock()

	users, err := u.load()
	if err != nil {
		return err
	}
	if _, ok := users[username]; !ok {
		return ErrNotFound
	}
	delete(users, username)
	return u.s.Save(usersCollection, users)
}
