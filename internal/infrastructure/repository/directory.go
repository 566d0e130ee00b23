package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/idlink-io/idlink/internal/domain/account"
	"github.com/idlink-io/idlink/internal/infrastructure/persistence/mappers"
	"github.com/idlink-io/idlink/internal/infrastructure/persistence/models"
	"github.com/idlink-io/idlink/internal/shared/errors"
)

// GormDirectory implements the account.Directory interface using GORM with
// Model/Mapper separation.
type GormDirectory struct {
	db             *gorm.DB
	accountMapper  mappers.AccountMapper
	identityMapper mappers.ExternalIdentityMapper
}

// NewGormDirectory creates a new GormDirectory.
func NewGormDirectory(db *gorm.DB) account.Directory {
	return &GormDirectory{
		db:             db,
		accountMapper:  mappers.NewAccountMapper(),
		identityMapper: mappers.NewExternalIdentityMapper(),
	}
}

func (d *GormDirectory) FindIdentity(ctx context.Context, provider, externalID string) (*account.ExternalIdentity, error) {
	var model models.ExternalIdentityModel
	err := d.db.WithContext(ctx).
		Where("provider = ? AND external_id = ?", provider, externalID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find external identity: %w", err)
	}
	return d.identityMapper.ToDomain(&model), nil
}

func (d *GormDirectory) FindUnlinkedAccountsByEmail(ctx context.Context, email, provider string) ([]*account.Account, error) {
	var accountModels []*models.AccountModel
	err := d.db.WithContext(ctx).
		Table("accounts").
		Select("accounts.*").
		Joins("LEFT JOIN external_identities ON external_identities.account_id = accounts.id AND external_identities.provider = ?", provider).
		Where("accounts.email = ? AND accounts.deleted_at IS NULL AND external_identities.id IS NULL", email).
		Find(&accountModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts by email: %w", err)
	}
	return d.accountMapper.ToDomainList(accountModels), nil
}

func (d *GormDirectory) CountAccountsByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts by username: %w", err)
	}
	return count, nil
}

func (d *GormDirectory) CreateAccountWithIdentity(ctx context.Context, acc *account.Account, identity *account.ExternalIdentity) error {
	accountModel := d.accountMapper.ToModel(acc)
	identityModel := d.identityMapper.ToModel(identity)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(accountModel).Error; err != nil {
			return err
		}
		identityModel.AccountID = accountModel.ID
		if err := tx.Create(identityModel).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("account or identity already exists")
		}
		return fmt.Errorf("failed to create account with identity: %w", err)
	}

	// Sync auto-generated IDs back to the domain entities
	acc.ID = accountModel.ID
	identity.ID = identityModel.ID
	identity.AccountID = accountModel.ID
	return nil
}

func (d *GormDirectory) UpsertIdentity(ctx context.Context, identity *account.ExternalIdentity) error {
	model := d.identityMapper.ToModel(identity)
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider"}, {Name: "external_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"access_token":        model.AccessToken,
			"access_token_secret": model.AccessTokenSecret,
			"display_handle":      model.DisplayHandle,
			"account_id":          model.AccountID,
			"updated_at":          time.Now(),
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert external identity: %w", err)
	}
	identity.ID = model.ID
	return nil
}

func (d *GormDirectory) UpdateIdentity(ctx context.Context, identity *account.ExternalIdentity) error {
	model := d.identityMapper.ToModel(identity)
	result := d.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update external identity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("external identity not found")
	}
	return nil
}

func (d *GormDirectory) LoadAccount(ctx context.Context, id uint) (*account.Account, error) {
	var model models.AccountModel
	err := d.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("account not found")
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return d.accountMapper.ToDomain(&model), nil
}
