package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"field-tech-api/internal/model"
)

// ScopeResolver turns an authenticated identity into the data scope it may
// see. Admins are unrestricted. Technicians are narrowed by their profile
// city on listing endpoints and by installer name on ownership endpoints.
type ScopeResolver struct {
	users UserStore
}

func NewScopeResolver(users UserStore) *ScopeResolver {
	return &ScopeResolver{users: users}
}

// CityScope applies to client list, search, lookup and the dashboard. A
// technician without a city on their profile is not narrowed.
func (r *ScopeResolver) CityScope(ctx context.Context, identity model.Identity) (model.Scope, error) {
	if identity.IsAdmin() {
		return model.Scope{}, nil
	}

	user, err := r.users.FindByID(ctx, identity.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Scope{}, model.ErrUnauthorized
	}
	if err != nil {
		return model.Scope{}, fmt.Errorf("resolve scope: %w", err)
	}

	if user.City == nil {
		return model.Scope{}, nil
	}

	return model.Scope{City: strings.TrimSpace(*user.City)}, nil
}

// OwnershipScope applies to the performance view.
func OwnershipScope(identity model.Identity) model.Scope {
	if identity.IsAdmin() {
		return model.Scope{}
	}

	return model.Scope{Installer: identity.Username}
}
