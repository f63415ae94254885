package faketransport

import (
	"context"

	"github.com/Kihomy-Mariel/agrocoop-console/auth"
	"github.com/Kihomy-Mariel/agrocoop-console/session"
)

var _ auth.Transport = (*FakeTransport)(nil)

// FakeTransport is a scriptable auth.Transport for tests. Unset functions
// behave as an API with no recoverable session.
type FakeTransport struct {
	ProbeSessionFn func(ctx context.Context) (*session.Principal, error)
	LoginFn        func(ctx context.Context, creds auth.Credentials) (*session.Principal, error)
	LogoutFn       func(ctx context.Context) error
}

func (f *FakeTransport) ProbeSession(ctx context.Context) (*session.Principal, error) {
	if f.ProbeSessionFn == nil {
		return nil, nil
	}
	return f.ProbeSessionFn(ctx)
}

func (f *FakeTransport) Login(ctx context.Context, creds auth.Credentials) (*session.Principal, error) {
	if f.LoginFn == nil {
		return nil, nil
	}
	return f.LoginFn(ctx, creds)
}

func (f *FakeTransport) Logout(ctx context.Context) error {
	if f.LogoutFn == nil {
		return nil
	}
	return f.LogoutFn(ctx)
}
