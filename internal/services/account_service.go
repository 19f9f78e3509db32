// Package services holds the application layer between HTTP handlers and
// storage. Every operation takes the owning user's id; ownership misses
// surface as core.ErrNotFound.
package services

import (
	"context"

	"xpense/internal/core"
	"xpense/internal/storage"
)

type AccountService struct {
	storage *storage.SQLiteRepository
}

func NewAccountService(storage *storage.SQLiteRepository) *AccountService {
	return &AccountService{storage: storage}
}

func (s *AccountService) Create(ctx context.Context, userID int64, input core.AccountInput) (*core.Account, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	account := &core.Account{
		UserID:   userID,
		Number:   input.Number,
		Name:     input.Name,
		Type:     input.Type,
		Logo:     input.Logo,
		Currency: input.Currency,
	}
	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, userID int64, id string) (*core.Account, error) {
	return s.storage.GetAccount(ctx, userID, id)
}

func (s *AccountService) Update(ctx context.Context, userID int64, id string, patch core.AccountPatch) (*core.Account, error) {
	account, err := s.storage.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(account); err != nil {
		return nil, err
	}
	if err := s.storage.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, userID int64, id string) error {
	return s.storage.SoftDeleteAccount(ctx, userID, id)
}

func (s *AccountService) List(ctx context.Context, userID int64, active bool, skip, limit int) ([]core.Account, int64, error) {
	return s.storage.ListAccounts(ctx, userID, active, skip, limit)
}
