package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"chowbot-be/internal/config"
	"chowbot-be/internal/dto"
	"chowbot-be/internal/entity"
	"chowbot-be/internal/pkg/logger"
	"chowbot-be/internal/repository/specification"
	"chowbot-be/internal/repository/unitofwork"
)

const adminTokenTTL = 12 * time.Hour

var ErrInvalidCredentials = errors.New("invalid email or password")

type IAdminService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	ListOrders(ctx context.Context, limit, offset int) ([]dto.AdminOrderDTO, int64, error)
	GetLogs(level string, limit, offset int) ([]logger.LogEntry, error)
}

// adminService backs the operator surface. There is a single credential pair
// from configuration; the password is stored as a bcrypt hash.
type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	cfg        config.AdminConfig
	log        logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, cfg config.AdminConfig, log logger.ILogger) IAdminService {
	return &adminService{uowFactory: uowFactory, cfg: cfg, log: log}
}

func (s *adminService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if req.Email != s.cfg.Email {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"email": req.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(adminTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JwtSecret))
	if err != nil {
		return nil, err
	}

	s.log.Info("admin", "Admin login", map[string]interface{}{"email": req.Email})
	return &dto.AdminLoginResponse{AccessToken: signed}, nil
}

func (s *adminService) ListOrders(ctx context.Context, limit, offset int) ([]dto.AdminOrderDTO, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.OrderRepository()

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	orders, err := repo.FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{Count: limit},
		specification.Offset{Count: offset},
	)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.AdminOrderDTO, 0, len(orders))
	for _, order := range orders {
		result = append(result, toAdminOrderDTO(order))
	}
	return result, total, nil
}

func (s *adminService) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return s.log.GetLogs(level, limit, offset)
}

func toAdminOrderDTO(order *entity.Order) dto.AdminOrderDTO {
	items := make([]dto.AdminOrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.AdminOrderItemDTO{
			ItemId:   item.ItemId,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Category: item.Category,
		})
	}
	return dto.AdminOrderDTO{
		Id:               order.Id,
		OrderNumber:      order.OrderNumber,
		SessionId:        order.SessionId,
		Items:            items,
		TotalAmount:      order.TotalAmount,
		Status:           string(order.Status),
		PaymentReference: order.PaymentReference,
		PaymentStatus:    string(order.PaymentStatus),
		CreatedAt:        order.CreatedAt,
	}
}
