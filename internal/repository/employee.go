package repository

import (
	"context"
	"fmt"

	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/repository/dao"
)

var (
	ErrEmployeePhoneExists = dao.ErrEmployeePhoneExists
	ErrEmployeeNotFound    = dao.ErrEmployeeNotFound
)

type EmployeeDAO interface {
	Insert(ctx context.Context, employee dao.Employee) (dao.Employee, error)
	FindByID(ctx context.Context, id uint) (dao.Employee, error)
	FindAll(ctx context.Context, query string) ([]dao.Employee, error)
	Delete(ctx context.Context, id uint) error
}

type EmployeeRepository struct {
	dao EmployeeDAO
}

func NewEmployeeRepository(dao EmployeeDAO) *EmployeeRepository {
	return &EmployeeRepository{
		dao: dao,
	}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(employee))
	if err != nil {
		return domain.Employee{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id uint) (domain.Employee, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EmployeeRepository) FindAll(ctx context.Context, query string) ([]domain.Employee, error) {
	found, err := r.dao.FindAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	employees := make([]domain.Employee, 0, len(found))
	for _, e := range found {
		employees = append(employees, r.daoToDomain(e))
	}

	return employees, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EmployeeRepository) domainToDAO(e domain.Employee) dao.Employee {
	return dao.Employee{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Phone:     e.Phone,
		Address:   e.Address,
		Password:  e.Password,
	}
}

func (r *EmployeeRepository) daoToDomain(e dao.Employee) domain.Employee {
	return domain.Employee{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Phone:     e.Phone,
		Address:   e.Address,
		Password:  e.Password,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
