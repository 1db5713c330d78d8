package user

import (
	"context"
	"errors"
	"testing"

	"quickcart-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) UpsertVerified(ctx context.Context, id ProviderIdentity) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) SetCredentials(ctx context.Context, email, passwordHash, token string) error {
	return m.Called(ctx, email, passwordHash, token).Error(0)
}

func (m *MockRepository) MarkVerified(ctx context.Context, email, token string) error {
	return m.Called(ctx, email, token).Error(0)
}

func (m *MockRepository) List(ctx context.Context, excludeEmail string) ([]User, error) {
	args := m.Called(ctx, excludeEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) GetRole(ctx context.Context, email string) (Role, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(Role), args.Error(1)
}

func (m *MockRepository) UpdateRole(ctx context.Context, email string, role Role) error {
	return m.Called(ctx, email, role).Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, email string, status Status) error {
	return m.Called(ctx, email, status).Error(0)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, email, name, photoURL string) (*User, error) {
	args := m.Called(ctx, email, name, photoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendVerification(ctx context.Context, to, name, token string) error {
	return m.Called(ctx, to, name, token).Error(0)
}

func asUser(email, role string) context.Context {
	return utils.SetUserContext(context.Background(), utils.SessionUser{Email: email, Role: role})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	input := SignupInput{Name: "John", Email: " John@Example.com ", Password: "password123"}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		sender := new(MockSender)
		svc := NewService(repo, sender)

		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Email == "john@example.com" && u.Role == RoleCustomer &&
				u.PasswordHash != nil && CheckPasswordHash("password123", *u.PasswordHash) &&
				!u.EmailVerified
		})).Return(nil)
		sender.On("SendVerification", ctx, "john@example.com", "John", mock.AnythingOfType("string")).Return(nil)

		u, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "john@example.com", u.Email)
		repo.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("ExistingUnverifiedAccount", func(t *testing.T) {
		repo := new(MockRepository)
		sender := new(MockSender)
		svc := NewService(repo, sender)

		repo.On("Create", ctx, mock.Anything).Return(ErrEmailExists)
		repo.On("SetCredentials", ctx, "john@example.com", mock.Anything, mock.Anything).Return(nil)
		repo.On("FindByEmail", ctx, "john@example.com").Return(&User{ID: "u-1", Name: "John", Email: "john@example.com"}, nil)
		sender.On("SendVerification", ctx, "john@example.com", "John", mock.Anything).Return(nil)

		u, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockSender))

		repo.On("Create", ctx, mock.Anything).Return(ErrEmailExists)
		repo.On("SetCredentials", ctx, "john@example.com", mock.Anything, mock.Anything).Return(ErrEmailExists)

		_, err := svc.Register(ctx, input)
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockSender))

		_, err := svc.Register(ctx, SignupInput{Name: "J", Email: "not-an-email", Password: "password"})
		assert.ErrorIs(t, err, ErrInvalidEmail)

		_, err = svc.Register(ctx, SignupInput{Name: " ", Email: "a@example.com", Password: "password"})
		assert.ErrorIs(t, err, ErrNameRequired)

		_, err = svc.Register(ctx, SignupInput{Name: "J", Email: "a@example.com", Password: "123"})
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("MailerFailure", func(t *testing.T) {
		repo := new(MockRepository)
		sender := new(MockSender)
		svc := NewService(repo, sender)

		repo.On("Create", ctx, mock.Anything).Return(nil)
		sender.On("SendVerification", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		_, err := svc.Register(ctx, input)
		assert.EqualError(t, err, "smtp down")
	})

	t.Run("RetryAfterMailerFailure", func(t *testing.T) {
		repo := new(MockRepository)
		sender := new(MockSender)
		svc := NewService(repo, sender)

		var firstToken string
		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			if firstToken == "" {
				firstToken = *u.VerificationToken
			}
			return true
		})).Return(nil).Once()
		sender.On("SendVerification", ctx, "john@example.com", "John", mock.Anything).Return(errors.New("smtp down")).Once()

		_, err := svc.Register(ctx, input)
		require.Error(t, err)

		// The row is still unverified, so the second attempt replaces its credentials.
		repo.On("Create", ctx, mock.Anything).Return(ErrEmailExists).Once()
		repo.On("SetCredentials", ctx, "john@example.com", mock.Anything, mock.MatchedBy(func(token string) bool {
			return token != "" && token != firstToken
		})).Return(nil).Once()
		repo.On("FindByEmail", ctx, "john@example.com").Return(&User{ID: "u-1", Name: "John", Email: "john@example.com"}, nil).Once()
		sender.On("SendVerification", ctx, "john@example.com", "John", mock.Anything).Return(nil).Once()

		u, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
		repo.AssertExpectations(t)
		sender.AssertExpectations(t)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := HashPassword("password123")

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockSender))
		repo.On("FindByEmail", ctx, "a@example.com").
			Return(&User{Email: "a@example.com", PasswordHash: &hash, EmailVerified: true}, nil)

		u, err := svc.Login(ctx, "A@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", u.Email)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockSender))
		repo.On("FindByEmail", ctx, "x@example.com").Return(nil, ErrUserNotFound)

		_, err := svc.Login(ctx, "x@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockSender))
		repo.On("FindByEmail", ctx, "a@example.com").
			Return(&User{Email: "a@example.com", PasswordHash: &hash, EmailVerified: true}, nil)

		_, err := svc.Login(ctx, "a@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("ProviderOnlyAccount", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockSender))
		repo.On("FindByEmail", ctx, "a@example.com").
			Return(&User{Email: "a@example.com", EmailVerified: true}, nil)

		_, err := svc.Login(ctx, "a@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unverified", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockSender))
		repo.On("FindByEmail", ctx, "a@example.com").
			Return(&User{Email: "a@example.com", PasswordHash: &hash}, nil)

		_, err := svc.Login(ctx, "a@example.com", "password123")
		assert.ErrorIs(t, err, ErrEmailNotVerified)
	})
}

func TestService_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockSender))

	assert.ErrorIs(t, svc.VerifyEmail(ctx, "a@example.com", ""), ErrInvalidVerificationToken)

	repo.On("MarkVerified", ctx, "a@example.com", "tok").Return(nil)
	assert.NoError(t, svc.VerifyEmail(ctx, " A@example.com", "tok"))
}

func TestService_SignInWithProvider(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockSender))

	id := ProviderIdentity{Email: "a@example.com", Name: "A"}
	repo.On("UpsertVerified", ctx, id).Return(&User{Email: "a@example.com", EmailVerified: true}, nil)

	u, err := svc.SignInWithProvider(ctx, ProviderIdentity{Email: "A@Example.com", Name: "A"})
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)

	_, err = svc.SignInWithProvider(ctx, ProviderIdentity{Email: "bad"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestService_EnsureUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockSender))
		repo.On("FindByEmail", ctx, "a@example.com").Return(&User{ID: "u-1", Email: "a@example.com"}, nil)

		u, created, err := svc.EnsureUser(ctx, ProfileInput{Email: "a@example.com", Name: "A"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "u-1", u.ID)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("New", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockSender))
		repo.On("FindByEmail", ctx, "b@example.com").Return(nil, ErrUserNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool { return u.Role == RoleCustomer })).Return(nil)

		_, created, err := svc.EnsureUser(ctx, ProfileInput{Email: "b@example.com", Name: "B"})
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestService_GetRole(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockSender))

	self := asUser("a@example.com", "customer")
	repo.On("GetRole", self, "a@example.com").Return(RoleCustomer, nil)
	role, err := svc.GetRole(self, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, role)

	_, err = svc.GetRole(self, "b@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	admin := asUser("root@example.com", "admin")
	repo.On("GetRole", admin, "b@example.com").Return(RoleSeller, nil)
	role, err = svc.GetRole(admin, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, role)
}

func TestService_UpdateRole(t *testing.T) {
	ctx := asUser("root@example.com", "admin")
	repo := new(MockRepository)
	svc := NewService(repo, new(MockSender))

	assert.ErrorIs(t, svc.UpdateRole(ctx, "a@example.com", "overlord"), ErrInvalidRole)

	repo.On("UpdateRole", ctx, "a@example.com", RoleSeller).Return(nil)
	assert.NoError(t, svc.UpdateRole(ctx, "a@example.com", "seller"))
	repo.AssertExpectations(t)
}

func TestService_RequestSeller(t *testing.T) {
	t.Run("Customer", func(t *testing.T) {
		ctx := asUser("a@example.com", "customer")
		repo := new(MockRepository)
		svc := NewService(repo, new(MockSender))
		repo.On("GetRole", ctx, "a@example.com").Return(RoleCustomer, nil)
		repo.On("UpdateStatus", ctx, "a@example.com", StatusRequested).Return(nil)

		assert.NoError(t, svc.RequestSeller(ctx, "a@example.com"))
		repo.AssertExpectations(t)
	})

	t.Run("AlreadySeller", func(t *testing.T) {
		ctx := asUser("a@example.com", "seller")
		repo := new(MockRepository)
		svc := NewService(repo, new(MockSender))
		repo.On("GetRole", ctx, "a@example.com").Return(RoleSeller, nil)

		assert.ErrorIs(t, svc.RequestSeller(ctx, "a@example.com"), ErrAlreadySeller)
	})

	t.Run("SomeoneElse", func(t *testing.T) {
		ctx := asUser("a@example.com", "customer")
		svc := NewService(new(MockRepository), new(MockSender))

		assert.ErrorIs(t, svc.RequestSeller(ctx, "b@example.com"), ErrForbidden)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := asUser("a@example.com", "customer")
	repo := new(MockRepository)
	svc := NewService(repo, new(MockSender))

	repo.On("UpdateProfile", ctx, "a@example.com", "Alice", "").Return(&User{Name: "Alice"}, nil)
	u, err := svc.UpdateProfile(ctx, " Alice ", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	_, err = svc.UpdateProfile(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrForbidden)
}
