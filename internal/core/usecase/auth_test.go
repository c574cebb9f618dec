package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/plans"
)

func testCatalog(t *testing.T) *plans.Catalog {
	t.Helper()
	catalog, err := plans.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return catalog
}

func newAuthUseCase(t *testing.T, broker *brokerFake, users *userRepoFake, sessions *sessionRepoFake, cache *sessionCacheFake) *AuthUseCase {
	t.Helper()
	return NewAuthUseCase(broker, users, sessions, cache, testCatalog(t),
		"admin@nexodify.com", 7*24*time.Hour, time.Minute)
}

func TestLoginProvisionsNewUserOnFreePlan(t *testing.T) {
	broker := &brokerFake{identity: &domain.BrokerIdentity{Email: "New.Buyer@Example.com", Name: "New Buyer", Picture: "https://img.example/p.png"}}
	users := newUserRepoFake()
	sessions := newSessionRepoFake()
	cache := newSessionCacheFake()
	uc := newAuthUseCase(t, broker, users, sessions, cache)

	user, session, err := uc.Login(context.Background(), "broker-session-1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Email != "new.buyer@example.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}
	if user.Plan != "free" || user.IsMasterAdmin {
		t.Fatalf("expected free non-admin user, got plan=%s admin=%v", user.Plan, user.IsMasterAdmin)
	}
	if user.Quota.PeriziaScansRemaining != 3 {
		t.Fatalf("expected free plan quota, got %+v", user.Quota)
	}
	if !strings.HasPrefix(session.SessionToken, "sess_") {
		t.Fatalf("unexpected token %s", session.SessionToken)
	}
	if session.ExpiresAt.Sub(session.CreatedAt) != 7*24*time.Hour {
		t.Fatalf("unexpected session ttl %v", session.ExpiresAt.Sub(session.CreatedAt))
	}
	if _, ok := cache.Get(session.SessionToken); !ok {
		t.Fatalf("expected session cached after login")
	}
}

func TestLoginMasterAdminGetsEnterprisePlan(t *testing.T) {
	broker := &brokerFake{identity: &domain.BrokerIdentity{Email: "Admin@Nexodify.com", Name: "Ops"}}
	uc := newAuthUseCase(t, broker, newUserRepoFake(), newSessionRepoFake(), newSessionCacheFake())

	user, _, err := uc.Login(context.Background(), "broker-session-1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !user.IsMasterAdmin || user.Plan != "enterprise" {
		t.Fatalf("expected enterprise master admin, got plan=%s admin=%v", user.Plan, user.IsMasterAdmin)
	}
}

func TestLoginExistingUserRefreshesProfile(t *testing.T) {
	users := newUserRepoFake()
	existing := testUser()
	existing.Email = "buyer@example.com"
	existing.Name = "Old Name"
	users.add(existing)
	broker := &brokerFake{identity: &domain.BrokerIdentity{Email: "buyer@example.com", Name: "New Name"}}
	uc := newAuthUseCase(t, broker, users, newSessionRepoFake(), newSessionCacheFake())

	user, _, err := uc.Login(context.Background(), "broker-session-1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.UserID != "user_1" {
		t.Fatalf("expected existing account reused, got %s", user.UserID)
	}
	if users.updatedName != "New Name" {
		t.Fatalf("expected profile refresh, got %q", users.updatedName)
	}
}

func TestLoginBrokerRejectionPropagates(t *testing.T) {
	broker := &brokerFake{err: domain.WrapError(domain.ErrUnauthorized, "exchange session", errors.New("expired"))}
	uc := newAuthUseCase(t, broker, newUserRepoFake(), newSessionRepoFake(), newSessionCacheFake())

	_, _, err := uc.Login(context.Background(), "broker-session-1")
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestUserByTokenHitsCacheFirst(t *testing.T) {
	cache := newSessionCacheFake()
	cached := testUser()
	cache.Set("sess_cached", cached, time.Minute)
	uc := newAuthUseCase(t, &brokerFake{}, newUserRepoFake(), newSessionRepoFake(), cache)

	user, err := uc.UserByToken(context.Background(), "sess_cached")
	if err != nil {
		t.Fatalf("UserByToken() error = %v", err)
	}
	if user.UserID != cached.UserID {
		t.Fatalf("expected cached user, got %s", user.UserID)
	}
}

func TestUserByTokenExpiredSessionIsUnauthorized(t *testing.T) {
	sessions := newSessionRepoFake()
	sessions.sessions["sess_old"] = &domain.Session{
		SessionID:    "sessrec_1",
		UserID:       "user_1",
		SessionToken: "sess_old",
		ExpiresAt:    time.Now().UTC().Add(-time.Hour),
	}
	users := newUserRepoFake()
	users.add(testUser())
	uc := newAuthUseCase(t, &brokerFake{}, users, sessions, newSessionCacheFake())

	_, err := uc.UserByToken(context.Background(), "sess_old")
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestUserByTokenUnknownTokenIsUnauthorized(t *testing.T) {
	uc := newAuthUseCase(t, &brokerFake{}, newUserRepoFake(), newSessionRepoFake(), newSessionCacheFake())

	_, err := uc.UserByToken(context.Background(), "sess_missing")
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutDropsSessionAndCache(t *testing.T) {
	sessions := newSessionRepoFake()
	sessions.sessions["sess_live"] = &domain.Session{SessionToken: "sess_live", UserID: "user_1", ExpiresAt: time.Now().Add(time.Hour)}
	cache := newSessionCacheFake()
	cache.Set("sess_live", testUser(), time.Minute)
	uc := newAuthUseCase(t, &brokerFake{}, newUserRepoFake(), sessions, cache)

	if err := uc.Logout(context.Background(), "sess_live"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, ok := cache.Get("sess_live"); ok {
		t.Fatalf("expected cache entry dropped")
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != "sess_live" {
		t.Fatalf("expected session deleted, got %v", sessions.deleted)
	}
}
