package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
	"github.com/nexodify/forensic-engine/internal/plans"
)

type AuthUseCase struct {
	broker   ports.AuthBroker
	users    ports.UserRepository
	sessions ports.SessionRepository
	cache    ports.SessionCache
	catalog  *plans.Catalog

	masterAdminEmail string
	sessionTTL       time.Duration
	cacheTTL         time.Duration
	now              func() time.Time
}

func NewAuthUseCase(
	broker ports.AuthBroker,
	users ports.UserRepository,
	sessions ports.SessionRepository,
	cache ports.SessionCache,
	catalog *plans.Catalog,
	masterAdminEmail string,
	sessionTTL, cacheTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		broker:           broker,
		users:            users,
		sessions:         sessions,
		cache:            cache,
		catalog:          catalog,
		masterAdminEmail: strings.ToLower(masterAdminEmail),
		sessionTTL:       sessionTTL,
		cacheTTL:         cacheTTL,
		now:              time.Now,
	}
}

// Login exchanges a hosted-OAuth session id for a verified identity and
// opens a local session. First login provisions the account; the master
// admin email lands on the enterprise plan with admin rights.
func (uc *AuthUseCase) Login(ctx context.Context, brokerSessionID string) (*domain.User, *domain.Session, error) {
	if brokerSessionID == "" {
		return nil, nil, domain.WrapError(domain.ErrUnauthorized, "login", errors.New("missing broker session id"))
	}

	identity, err := uc.broker.ExchangeSession(ctx, brokerSessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("exchange broker session: %w", err)
	}

	user, err := uc.getOrCreateUser(ctx, identity)
	if err != nil {
		return nil, nil, err
	}

	now := uc.now().UTC()
	session := &domain.Session{
		SessionID:    newID("sessrec_"),
		UserID:       user.UserID,
		SessionToken: newID("sess_"),
		ExpiresAt:    now.Add(uc.sessionTTL),
		CreatedAt:    now,
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	uc.cache.Set(session.SessionToken, user, uc.cacheTTL)
	return user, session, nil
}

func (uc *AuthUseCase) getOrCreateUser(ctx context.Context, identity *domain.BrokerIdentity) (*domain.User, error) {
	email := strings.ToLower(identity.Email)
	isMaster := uc.masterAdminEmail != "" && email == uc.masterAdminEmail

	existing, err := uc.users.GetByEmail(ctx, email)
	if err == nil {
		if identity.Name != existing.Name || identity.Picture != existing.Picture {
			if err := uc.users.UpdateProfile(ctx, existing.UserID, identity.Name, identity.Picture); err != nil {
				return nil, fmt.Errorf("update profile: %w", err)
			}
			existing.Name = identity.Name
			existing.Picture = identity.Picture
		}
		return existing, nil
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("fetch user by email: %w", err)
	}

	planID := "free"
	if isMaster {
		planID = "enterprise"
	}
	plan, ok := uc.catalog.Get(planID)
	if !ok {
		return nil, fmt.Errorf("plan catalog missing %q", planID)
	}

	now := uc.now().UTC()
	user := &domain.User{
		UserID:        newID("user_"),
		Email:         email,
		Name:          identity.Name,
		Picture:       identity.Picture,
		Plan:          plan.PlanID,
		IsMasterAdmin: isMaster,
		Quota:         plan.Quota,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// UserByToken resolves a session token to its user. Hot tokens come from
// the in-process cache so every authenticated request does not round-trip
// to the database twice.
func (uc *AuthUseCase) UserByToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.WrapError(domain.ErrUnauthorized, "resolve session", errors.New("missing token"))
	}
	if user, ok := uc.cache.Get(token); ok {
		return user, nil
	}

	session, err := uc.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	if session.Expired(uc.now().UTC()) {
		return nil, domain.WrapError(domain.ErrUnauthorized, "resolve session", errors.New("session expired"))
	}

	user, err := uc.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch session user: %w", err)
	}

	uc.cache.Set(token, user, uc.cacheTTL)
	return user, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	uc.cache.Delete(token)
	if err := uc.sessions.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
