// Package provider builds per-user Google API clients from stored OAuth
// credentials.
package provider

import (
	"context"

	"golang.org/x/oauth2"

	"mailmind_server/adapter/out/provider/gmail"
	"mailmind_server/adapter/out/provider/googlecal"
	"mailmind_server/core/port/out"
	"mailmind_server/pkg/apperr"
)

// Factory implements out.ProviderFactory on top of the user store.
type Factory struct {
	users       out.UserRepository
	oauthConfig *oauth2.Config
}

func NewFactory(users out.UserRepository, oauthConfig *oauth2.Config) *Factory {
	return &Factory{users: users, oauthConfig: oauthConfig}
}

var _ out.ProviderFactory = (*Factory)(nil)

func (f *Factory) MailFor(ctx context.Context, userID string) (out.MailProvider, error) {
	token, err := f.tokenFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	provider, err := gmail.NewProvider(ctx, token, f.oauthConfig)
	if err != nil {
		return nil, apperr.ProviderError("gmail", err)
	}
	return provider, nil
}

func (f *Factory) CalendarFor(ctx context.Context, userID string) (out.CalendarProvider, error) {
	token, err := f.tokenFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	provider, err := googlecal.NewProvider(ctx, token, f.oauthConfig)
	if err != nil {
		return nil, apperr.ProviderError("google calendar", err)
	}
	return provider, nil
}

func (f *Factory) tokenFor(ctx context.Context, userID string) (*oauth2.Token, error) {
	user, err := f.users.Get(ctx, userID)
	if err != nil {
		return nil, apperr.DatabaseError("get user", err)
	}
	if user == nil || user.Token == nil {
		return nil, apperr.Unauthorized("no stored Google credentials, sign in again")
	}
	return user.Token, nil
}
