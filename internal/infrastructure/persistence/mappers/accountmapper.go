package mappers

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/idlink-io/idlink/internal/domain/account"
	"github.com/idlink-io/idlink/internal/infrastructure/persistence/models"
	"github.com/idlink-io/idlink/internal/shared/mapper"
)

// AccountMapper handles the conversion between domain entities and persistence models.
type AccountMapper interface {
	ToModel(entity *account.Account) *models.AccountModel
	ToDomain(model *models.AccountModel) *account.Account
	ToDomainList(models []*models.AccountModel) []*account.Account
}

type AccountMapperImpl struct{}

func NewAccountMapper() AccountMapper {
	return &AccountMapperImpl{}
}

func (m *AccountMapperImpl) ToModel(entity *account.Account) *models.AccountModel {
	if entity == nil {
		return nil
	}

	var email *string
	if entity.Email != "" {
		email = &entity.Email
	}
	var photoURL *string
	if entity.PhotoURL != "" {
		photoURL = &entity.PhotoURL
	}

	var meta datatypes.JSON
	if len(entity.MarketingMeta) > 0 {
		if data, err := json.Marshal(entity.MarketingMeta); err == nil {
			meta = data
		}
	}

	return &models.AccountModel{
		ID:            entity.ID,
		Username:      entity.Username,
		FirstName:     entity.FirstName,
		LastName:      entity.LastName,
		Email:         email,
		ReferralCode:  entity.ReferralCode,
		PhotoURL:      photoURL,
		MarketingMeta: meta,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}

func (m *AccountMapperImpl) ToDomain(model *models.AccountModel) *account.Account {
	if model == nil {
		return nil
	}

	email := ""
	if model.Email != nil {
		email = *model.Email
	}
	photoURL := ""
	if model.PhotoURL != nil {
		photoURL = *model.PhotoURL
	}

	var meta map[string]string
	if len(model.MarketingMeta) > 0 {
		_ = json.Unmarshal(model.MarketingMeta, &meta)
	}

	return &account.Account{
		ID:            model.ID,
		Username:      model.Username,
		FirstName:     model.FirstName,
		LastName:      model.LastName,
		Email:         email,
		ReferralCode:  model.ReferralCode,
		PhotoURL:      photoURL,
		MarketingMeta: meta,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func (m *AccountMapperImpl) ToDomainList(items []*models.AccountModel) []*account.Account {
	return mapper.MapSlicePtr(items, m.ToDomain)
}
