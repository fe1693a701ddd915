package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"doe_backend/internal/model"
	"doe_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	cfg := testConfig()
	cfg.JWT.ExpireTime = time.Hour
	svc := NewAuthService(f.db, f.users, &fakeMailer{}, cfg)
	ctx := context.Background()

	u := &model.User{Name: "Dora", Email: " Dora@Doe.Test ", Password: "s3cret-pass"}
	require.NoError(t, svc.Register(ctx, u))
	assert.Equal(t, "dora@doe.test", u.Email)
	assert.Equal(t, model.Student, u.Role)
	assert.NotEqual(t, "s3cret-pass", u.Password)

	err := svc.Register(ctx, &model.User{Name: "Dup", Email: "dora@doe.test", Password: "x"})
	assert.True(t, errors.Is(err, util.ErrEmailRegistered))

	token, logged, err := svc.Login(ctx, "DORA@doe.test", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	stored, err := f.users.FindByID(u.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.db, f.users, &fakeMailer{}, testConfig())
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, &model.User{Name: "E", Email: "e@doe.test", Password: "right"}))

	_, _, err := svc.Login(ctx, "e@doe.test", "wrong")
	assert.True(t, errors.Is(err, util.ErrInvalidCredentials))

	_, _, err = svc.Login(ctx, "nobody@doe.test", "right")
	assert.True(t, errors.Is(err, util.ErrInvalidCredentials))
}

func TestRegisterAcceptsPendingInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inviter := f.user(t, "host@doe.test", 10)
	mailer := &fakeMailer{}
	svc := NewAuthService(f.db, f.users, mailer, testConfig())

	require.NoError(t, f.users.CreateInvitation(&model.Invitation{InviterID: inviter.ID, InviteeEmail: "guest@doe.test"}))

	u := &model.User{Name: "Guest", Email: "Guest@doe.test", Password: "pw"}
	require.NoError(t, svc.Register(ctx, u))
	assert.Equal(t, util.InviteeBonusPoints, u.Points)
	assert.Equal(t, util.InviteeBonusPoints, f.points(t, u.ID))
	assert.Equal(t, 10+util.InviterBonusPoints, f.points(t, inviter.ID))

	var inv model.Invitation
	require.NoError(t, f.db.Where("invitee_email = ?", "guest@doe.test").First(&inv).Error)
	assert.True(t, inv.Accepted)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "User has registered", mailer.sent[0].Subject)
	assert.Equal(t, []string{"rewards@doe.example.com"}, mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "host@doe.test invited guest@doe.test")
}

func TestRegisterWithoutInvitationAwardsNothing(t *testing.T) {
	f := newFixture(t)
	mailer := &fakeMailer{}
	svc := NewAuthService(f.db, f.users, mailer, testConfig())

	u := &model.User{Name: "Solo", Email: "solo@doe.test", Password: "pw"}
	require.NoError(t, svc.Register(context.Background(), u))
	assert.Equal(t, 0, f.points(t, u.ID))
	assert.Empty(t, mailer.sent)
}

func TestRegisterInvitationMailFailureKeepsAccount(t *testing.T) {
	f := newFixture(t)
	inviter := f.user(t, "host2@doe.test", 0)
	svc := NewAuthService(f.db, f.users, &fakeMailer{err: errSMTPDown}, testConfig())
	require.NoError(t, f.users.CreateInvitation(&model.Invitation{InviterID: inviter.ID, InviteeEmail: "late@doe.test"}))

	u := &model.User{Name: "Late", Email: "late@doe.test", Password: "pw"}
	require.NoError(t, svc.Register(context.Background(), u))
	assert.Equal(t, util.InviteeBonusPoints, f.points(t, u.ID))
	assert.Equal(t, util.InviterBonusPoints, f.points(t, inviter.ID))
}
