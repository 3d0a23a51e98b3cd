package handlers

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/andrei-deeyu/4truckLoad-server/internal/auth"
	"github.com/andrei-deeyu/4truckLoad-server/internal/models"
)

type freightRepoMock struct {
	CreateFn         func(ctx context.Context, f *models.Freight) (primitive.ObjectID, error)
	ListFn           func(ctx context.Context, limit, skip int64) ([]models.Freight, error)
	GetByIDFn        func(ctx context.Context, id primitive.ObjectID) (*models.Freight, error)
	ExistsByPosterFn func(ctx context.Context, email string) (bool, error)
}

func (m *freightRepoMock) Create(ctx context.Context, f *models.Freight) (primitive.ObjectID, error) {
	if m.CreateFn == nil {
		return primitive.NilObjectID, errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, f)
}
func (m *freightRepoMock) List(ctx context.Context, limit, skip int64) ([]models.Freight, error) {
	if m.ListFn == nil {
		return nil, errors.New("ListFn not set")
	}
	return m.ListFn(ctx, limit, skip)
}
func (m *freightRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Freight, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, id)
}
func (m *freightRepoMock) ExistsByPoster(ctx context.Context, email string) (bool, error) {
	if m.ExistsByPosterFn == nil {
		return false, errors.New("ExistsByPosterFn not set")
	}
	return m.ExistsByPosterFn(ctx, email)
}

type companyRepoMock struct {
	UpsertFn             func(ctx context.Context, c *models.Company) (*models.Company, error)
	GetByAdministratorFn func(ctx context.Context, administrator string) (*models.Company, error)
}

func (m *companyRepoMock) Upsert(ctx context.Context, c *models.Company) (*models.Company, error) {
	if m.UpsertFn == nil {
		return nil, errors.New("UpsertFn not set")
	}
	return m.UpsertFn(ctx, c)
}
func (m *companyRepoMock) GetByAdministrator(ctx context.Context, administrator string) (*models.Company, error) {
	if m.GetByAdministratorFn == nil {
		return nil, errors.New("GetByAdministratorFn not set")
	}
	return m.GetByAdministratorFn(ctx, administrator)
}

type statsRepoMock struct {
	InsertFn func(ctx context.Context, s *models.Stat) error
}

func (m *statsRepoMock) Insert(ctx context.Context, s *models.Stat) error {
	if m.InsertFn == nil {
		return nil
	}
	return m.InsertFn(ctx, s)
}

type pubMock struct {
	PublishFn func(ctx context.Context, body []byte, headers amqp.Table) error
	CloseFn   func() error
}

func (p *pubMock) Publish(ctx context.Context, body []byte, headers amqp.Table) error {
	if p.PublishFn == nil {
		return nil
	}
	return p.PublishFn(ctx, body, headers)
}
func (p *pubMock) Close() error {
	if p.CloseFn == nil {
		return nil
	}
	return p.CloseFn()
}

type mgmtMock struct {
	ResendFn  func(ctx context.Context, userID string) (string, error)
	GetUserFn func(ctx context.Context, sub string) (*auth.UserRecord, error)
	UpdateFn  func(ctx context.Context, sub, role, phone string) (*auth.UserRecord, error)
}

func (m *mgmtMock) ResendVerificationEmail(ctx context.Context, userID string) (string, error) {
	if m.ResendFn == nil {
		return "", errors.New("ResendFn not set")
	}
	return m.ResendFn(ctx, userID)
}
func (m *mgmtMock) GetUser(ctx context.Context, sub string) (*auth.UserRecord, error) {
	if m.GetUserFn == nil {
		return nil, errors.New("GetUserFn not set")
	}
	return m.GetUserFn(ctx, sub)
}
func (m *mgmtMock) UpdateUserMetadata(ctx context.Context, sub, role, phone string) (*auth.UserRecord, error) {
	if m.UpdateFn == nil {
		return nil, errors.New("UpdateFn not set")
	}
	return m.UpdateFn(ctx, sub, role, phone)
}
