package service

import (
	"context"
	"errors"

	"github.com/dpark/spacehub/internal/config"
	"github.com/dpark/spacehub/internal/domain"
	"github.com/dpark/spacehub/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthService verifies bearer tokens minted by the external identity
// provider (shared HS256 secret) and resolves them to members. Credential
// issuance happens elsewhere; this service only reads.
type AuthService struct {
	memberRepo repository.MemberRepository
	cfg        *config.Config
}

func NewAuthService(memberRepo repository.MemberRepository, cfg *config.Config) *AuthService {
	return &AuthService{memberRepo: memberRepo, cfg: cfg}
}

func (s *AuthService) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	memberID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return memberID, nil
}

func (s *AuthService) GetMemberByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}
