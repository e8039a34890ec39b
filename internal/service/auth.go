package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository"
)

var (
	ErrParticipantEmailExists = repository.ErrParticipantEmailExists
	ErrWrongPassword          = errors.New("wrong password")
)

type AuthService struct {
	repo     ParticipantRepository
	packages *WorkPackageService
}

func NewAuthService(repo ParticipantRepository, packages *WorkPackageService) *AuthService {
	return &AuthService{
		repo:     repo,
		packages: packages,
	}
}

// Signup creates the participant and, for non-admins, provisions their
// first work package. When no global config exists yet (bootstrap),
// the package is provisioned lazily on the first explicit call instead.
func (s *AuthService) Signup(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(participant.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Participant{}, err
	}
	participant.Password = string(hash)

	created, err := s.repo.Create(ctx, participant)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if !created.Admin {
		if _, err = s.packages.Provision(ctx, created.ID); err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				zap.L().Warn("no global config yet, skipping initial work package",
					zap.Uint("participant_id", created.ID))
			} else {
				return domain.Participant{}, fmt.Errorf("s.packages.Provision -> %w", err)
			}
		}
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Participant, error) {
	participant, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return domain.Participant{}, ErrParticipantNotFound
		}

		return domain.Participant{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(participant.Password), []byte(password)); err != nil {
		return domain.Participant{}, ErrWrongPassword
	}

	return participant, nil
}
