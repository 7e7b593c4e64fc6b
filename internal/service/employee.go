package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/repository"
)

var (
	ErrEmployeePhoneExists = repository.ErrEmployeePhoneExists
	ErrEmployeeNotFound    = repository.ErrEmployeeNotFound
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee domain.Employee) (domain.Employee, error)
	FindByID(ctx context.Context, id uint) (domain.Employee, error)
	FindAll(ctx context.Context, query string) ([]domain.Employee, error)
	Delete(ctx context.Context, id uint) error
}

// EmployeeService manages employee records stored locally. Only a signed in
// admin may use it, but no call reaches the backend.
type EmployeeService struct {
	repo EmployeeRepository
	now  func() time.Time
}

func NewEmployeeService(repo EmployeeRepository) *EmployeeService {
	return &EmployeeService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *EmployeeService) Register(ctx context.Context, sess domain.Session, employee domain.Employee) (domain.Employee, error) {
	if !sess.Valid(s.now()) {
		return domain.Employee{}, ErrUnauthorized
	}

	hashed, err := hashPassword(employee.Password)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("hashPassword -> %w", err)
	}
	employee.Password = hashed

	created, err := s.repo.Create(ctx, employee)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EmployeeService) List(ctx context.Context, sess domain.Session, query string) ([]domain.Employee, error) {
	if !sess.Valid(s.now()) {
		return nil, ErrUnauthorized
	}

	employees, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return employees, nil
}

func (s *EmployeeService) Get(ctx context.Context, sess domain.Session, id uint) (domain.Employee, error) {
	if !sess.Valid(s.now()) {
		return domain.Employee{}, ErrUnauthorized
	}

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, sess domain.Session, id uint) error {
	if !sess.Valid(s.now()) {
		return ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
