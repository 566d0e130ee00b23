package mappers

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/idlink-io/idlink/internal/domain/account"
	"github.com/idlink-io/idlink/internal/infrastructure/persistence/models"
	"github.com/idlink-io/idlink/internal/shared/mapper"
)

// ExternalIdentityMapper handles the conversion between domain entities and persistence models.
type ExternalIdentityMapper interface {
	ToModel(entity *account.ExternalIdentity) *models.ExternalIdentityModel
	ToDomain(model *models.ExternalIdentityModel) *account.ExternalIdentity
	ToDomainList(models []*models.ExternalIdentityModel) []*account.ExternalIdentity
}

type ExternalIdentityMapperImpl struct{}

func NewExternalIdentityMapper() ExternalIdentityMapper {
	return &ExternalIdentityMapperImpl{}
}

func (m *ExternalIdentityMapperImpl) ToModel(entity *account.ExternalIdentity) *models.ExternalIdentityModel {
	if entity == nil {
		return nil
	}

	var raw datatypes.JSON
	if len(entity.RawAttributes) > 0 {
		if data, err := json.Marshal(entity.RawAttributes); err == nil {
			raw = data
		}
	}

	return &models.ExternalIdentityModel{
		ID:                entity.ID,
		Provider:          entity.Provider,
		ExternalID:        entity.ExternalID,
		AccessToken:       entity.AccessToken,
		AccessTokenSecret: entity.AccessTokenSecret,
		DisplayHandle:     entity.DisplayHandle,
		AccountID:         entity.AccountID,
		RawAttributes:     raw,
		LastLoginAt:       entity.LastLoginAt,
		LoginCount:        entity.LoginCount,
		CreatedAt:         entity.CreatedAt,
		UpdatedAt:         entity.UpdatedAt,
	}
}

func (m *ExternalIdentityMapperImpl) ToDomain(model *models.ExternalIdentityModel) *account.ExternalIdentity {
	if model == nil {
		return nil
	}

	var raw map[string]any
	if len(model.RawAttributes) > 0 {
		_ = json.Unmarshal(model.RawAttributes, &raw)
	}

	return &account.ExternalIdentity{
		ID:                model.ID,
		Provider:          model.Provider,
		ExternalID:        model.ExternalID,
		AccessToken:       model.AccessToken,
		AccessTokenSecret: model.AccessTokenSecret,
		DisplayHandle:     model.DisplayHandle,
		AccountID:         model.AccountID,
		RawAttributes:     raw,
		LastLoginAt:       model.LastLoginAt,
		LoginCount:        model.LoginCount,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func (m *ExternalIdentityMapperImpl) ToDomainList(items []*models.ExternalIdentityModel) []*account.ExternalIdentity {
	return mapper.MapSlicePtr(items, m.ToDomain)
}
