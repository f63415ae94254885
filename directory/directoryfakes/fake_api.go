package fakeapi

import (
	"context"

	"github.com/Kihomy-Mariel/agrocoop-console/directory"
)

var _ directory.API = (*FakeAPI)(nil)

// FakeAPI is a scriptable directory.API for tests.
type FakeAPI struct {
	ListFn        func(ctx context.Context) ([]directory.User, error)
	ForceLogoutFn func(ctx context.Context, userID string) error
	SetStatusFn   func(ctx context.Context, userID string, activate bool) error
}

func (f *FakeAPI) List(ctx context.Context) ([]directory.User, error) {
	if f.ListFn == nil {
		return nil, nil
	}
	return f.ListFn(ctx)
}

func (f *FakeAPI) ForceLogout(ctx context.Context, userID string) error {
	if f.ForceLogoutFn == nil {
		return nil
	}
	return f.ForceLogoutFn(ctx, userID)
}

func (f *FakeAPI) SetStatus(ctx context.Context, userID string, activate bool) error {
	if f.SetStatusFn == nil {
		return nil
	}
	return f.SetStatusFn(ctx, userID, activate)
}
