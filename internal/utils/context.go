package utils

import "context"

type contextKey string

const (
	UserEmailKey contextKey = "email"
	UserRoleKey  contextKey = "role"
	UserNameKey  contextKey = "name"
	UserPhotoKey contextKey = "photo"
)

const roleAdmin = "admin"

// SessionUser is the caller as resolved by the session middleware.
type SessionUser struct {
	Email    string
	Role     string
	Name     string
	PhotoURL string
}

// SetUserContext stores the session user on the context (called by middleware).
func SetUserContext(ctx context.Context, u SessionUser) context.Context {
	ctx = context.WithValue(ctx, UserEmailKey, u.Email)
	ctx = context.WithValue(ctx, UserRoleKey, u.Role)
	ctx = context.WithValue(ctx, UserNameKey, u.Name)
	ctx = context.WithValue(ctx, UserPhotoKey, u.PhotoURL)
	return ctx
}

func GetSessionUser(ctx context.Context) (SessionUser, bool) {
	email := GetUserEmailFromContext(ctx)
	if email == "" {
		return SessionUser{}, false
	}
	name, _ := ctx.Value(UserNameKey).(string)
	photo, _ := ctx.Value(UserPhotoKey).(string)
	return SessionUser{
		Email:    email,
		Role:     GetUserRoleFromContext(ctx),
		Name:     name,
		PhotoURL: photo,
	}, true
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRoleFromContext(ctx) == roleAdmin
}

// IsSelfOrAdmin reports whether the caller is the given email or an admin.
func IsSelfOrAdmin(ctx context.Context, email string) bool {
	caller := GetUserEmailFromContext(ctx)
	return caller != "" && (caller == email || IsAdmin(ctx))
}
