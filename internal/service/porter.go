package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"trek/internal/domain"
	"trek/internal/repository"
)

// PorterService owns the workflow that grants and withdraws the porter capability.
type PorterService struct {
	core
}

// NewPorterService creates a new PorterService.
func NewPorterService(store repository.Store, opts ...Option) *PorterService {
	return &PorterService{core: newCore(store, opts...)}
}

// ApplyRequest contains the applicant's profile.
type ApplyRequest = domain.ApplicationInput

// IsPorter reports whether the user's latest application is approved.
func (s *PorterService) IsPorter(ctx context.Context, userID string) (bool, error) {
	return isPorter(ctx, s.store.Repos(), userID)
}

func isPorter(ctx context.Context, repos repository.Repos, userID string) (bool, error) {
	return porterBy(ctx, repos.Applications.LatestByApplicant, userID)
}

// lockedIsPorter checks the capability and keeps the application row locked
// for the rest of the unit of work, so a concurrent revoke waits or is seen.
func lockedIsPorter(ctx context.Context, repos repository.Repos, userID string) (bool, error) {
	return porterBy(ctx, repos.Applications.LockLatestByApplicant, userID)
}

func porterBy(ctx context.Context, latestOf func(context.Context, string) (*domain.PorterApplication, error), userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	latest, err := latestOf(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return latest.GrantsPorter(), nil
}

// Latest returns the user's most recent application.
func (s *PorterService) Latest(ctx context.Context, userID string) (*domain.PorterApplication, error) {
	app, err := s.store.Repos().Applications.LatestByApplicant(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrApplicationNotFound)
	}
	return app, nil
}

// Apply files a new pending application for the actor.
func (s *PorterService) Apply(ctx context.Context, actor domain.Actor, req ApplyRequest) (*domain.PorterApplication, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var app *domain.PorterApplication
	err := s.run(ctx, func(r repository.Repos) error {
		latest, err := r.Applications.LockLatestByApplicant(ctx, actor.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return err
		case latest.Status == domain.ApplicationStatusPending:
			return ErrApplicationPending
		case latest.GrantsPorter():
			return ErrAlreadyPorter
		}

		app, err = domain.NewPorterApplication(uuid.New().String(), actor.ID, req, s.now())
		if err != nil {
			return err
		}
		if err := r.Applications.Create(ctx, app); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrApplicationPending
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Approve grants the porter capability to the applicant.
func (s *PorterService) Approve(ctx context.Context, applicationID string, admin domain.Actor) (*domain.PorterApplication, error) {
	app, err := s.review(ctx, applicationID, admin, func(app *domain.PorterApplication) error {
		return app.Approve(admin.ID, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventPorterApplicationApproved, app.ID, string(app.Status), admin.ID)
	return app, nil
}

// Reject declines a pending application. The applicant may apply again.
func (s *PorterService) Reject(ctx context.Context, applicationID string, admin domain.Actor, reason string) (*domain.PorterApplication, error) {
	app, err := s.review(ctx, applicationID, admin, func(app *domain.PorterApplication) error {
		return app.Reject(admin.ID, reason, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventPorterApplicationRejected, app.ID, string(app.Status), admin.ID)
	return app, nil
}

// Revoke withdraws the capability by revoking the user's latest application.
func (s *PorterService) Revoke(ctx context.Context, userID string, admin domain.Actor) (*domain.PorterApplication, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	var app *domain.PorterApplication
	err := s.run(ctx, func(r repository.Repos) error {
		var err error
		app, err = r.Applications.LockLatestByApplicant(ctx, userID)
		if err != nil {
			return notFound(err, ErrApplicationNotFound)
		}
		if err := app.Revoke(admin.ID, s.now()); err != nil {
			return err
		}
		return r.Applications.Update(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventPorterRevoked, app.ID, string(app.Status), admin.ID)
	return app, nil
}

func (s *PorterService) review(ctx context.Context, applicationID string, admin domain.Actor, transition func(*domain.PorterApplication) error) (*domain.PorterApplication, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	var app *domain.PorterApplication
	err := s.run(ctx, func(r repository.Repos) error {
		var err error
		app, err = r.Applications.GetByID(ctx, applicationID)
		if err != nil {
			return notFound(err, ErrApplicationNotFound)
		}
		if err := transition(app); err != nil {
			return err
		}
		return r.Applications.Update(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	return app, nil
}
