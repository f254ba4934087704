package auth

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type CustomerTokenRepo interface {
	Create(dbc dbctx.Context, tokens []*types.CustomerToken) ([]*types.CustomerToken, error)
	GetByAccessToken(dbc dbctx.Context, accessToken string) (*types.CustomerToken, error)
	GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.CustomerToken, error)
	DeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error
	DeleteByCustomerIDs(dbc dbctx.Context, customerIDs []uuid.UUID) error
}

type customerTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerTokenRepo(db *gorm.DB, baseLog *logger.Logger) CustomerTokenRepo {
	return &customerTokenRepo{db: db, log: baseLog.With("repo", "CustomerTokenRepo")}
}

func (r *customerTokenRepo) Create(dbc dbctx.Context, tokens []*types.CustomerToken) ([]*types.CustomerToken, error) {
	if len(tokens) == 0 {
		return []*types.CustomerToken{}, nil
	}
	if err := dbc.DB(r.db).Omit("Customer").Create(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *customerTokenRepo) GetByAccessToken(dbc dbctx.Context, accessToken string) (*types.CustomerToken, error) {
	return r.getBy(dbc, "access_token", accessToken)
}

func (r *customerTokenRepo) GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.CustomerToken, error) {
	return r.getBy(dbc, "refresh_token", refreshToken)
}

func (r *customerTokenRepo) getBy(dbc dbctx.Context, column, value string) (*types.CustomerToken, error) {
	if value == "" {
		return nil, nil
	}
	var tok types.CustomerToken
	err := dbc.DB(r.db).Where(column+" = ?", value).First(&tok).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *customerTokenRepo) DeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error {
	if len(tokenIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", tokenIDs).Delete(&types.CustomerToken{}).Error
}

func (r *customerTokenRepo) DeleteByCustomerIDs(dbc dbctx.Context, customerIDs []uuid.UUID) error {
	if len(customerIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("customer_id IN ?", customerIDs).Delete(&types.CustomerToken{}).Error
}
