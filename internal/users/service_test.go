package users

import (
	"context"
	"testing"

	"eventdesk/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	profileCalls int
	updated      *remote.User
	deleted      bool
	err          error
}

func (f *fakeRepo) Profile(context.Context, string) (*remote.User, error) {
	f.profileCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &remote.User{Name: "Ada Lovelace", Email: "ada@example.com"}, nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, _ string, u remote.User) error {
	if f.err != nil {
		return f.err
	}
	f.updated = &u
	return nil
}

func (f *fakeRepo) DeleteAccount(context.Context, string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = true
	return nil
}

func TestProfile_WithoutCache(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	user, err := svc.Profile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	_, _ = svc.Profile(context.Background(), "tok")
	assert.Equal(t, 2, repo.profileCalls)
}

func TestUpdateProfile_SetsAvatar(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	user, err := svc.UpdateProfile(context.Background(), "tok", "req", ProfileForm{Name: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)

	require.NotNil(t, repo.updated)
	assert.Equal(t, "https://ui-avatars.com/api/?background=random&name=Ada+Lovelace", repo.updated.Avatar)
	assert.Equal(t, repo.updated.Avatar, user.Avatar)
}

func TestDeleteAccount_PropagatesAuth(t *testing.T) {
	repo := &fakeRepo{err: &remote.Error{Kind: remote.KindAuth, Status: 401}}
	svc := NewService(repo)

	err := svc.DeleteAccount(context.Background(), "tok", "req")
	assert.True(t, remote.IsAuth(err))
	assert.False(t, repo.deleted)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AL", Initials("ada lovelace"))
	assert.Equal(t, "G", Initials("Grace"))
	assert.Equal(t, "", Initials("  "))
}
