package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmployeePhoneExists = errors.New("employee phone already exists")
	ErrEmployeeNotFound    = errors.New("employee not found")
)

type Employee struct {
	ID uint `gorm:"primaryKey"`

	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Phone     string `gorm:"uniqueIndex:uni_employees_phone;not null"`
	Address   string
	Password  string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type EmployeeDAO struct {
	db *gorm.DB
}

func NewEmployeeDAO(db *gorm.DB) *EmployeeDAO {
	return &EmployeeDAO{
		db: db,
	}
}

func (d *EmployeeDAO) Insert(ctx context.Context, employee Employee) (Employee, error) {
	result := d.db.WithContext(ctx).Create(&employee)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "uni_employees_phone") {
			return Employee{}, ErrEmployeePhoneExists
		}

		return Employee{}, result.Error
	}

	return employee, nil
}

func (d *EmployeeDAO) FindByID(ctx context.Context, id uint) (Employee, error) {
	var employee Employee

	result := d.db.WithContext(ctx).First(&employee, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Employee{}, ErrEmployeeNotFound
		}

		return Employee{}, result.Error
	}

	return employee, nil
}

// FindAll returns employees ordered by last then first name. A non-empty
// query matches names and phone numbers case-insensitively.
func (d *EmployeeDAO) FindAll(ctx context.Context, query string) ([]Employee, error) {
	var employees []Employee

	tx := d.db.WithContext(ctx).Order("last_name, first_name")
	if q := strings.TrimSpace(query); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ?", like, like, like)
	}

	result := tx.Find(&employees)
	if result.Error != nil {
		return nil, result.Error
	}

	return employees, nil
}

func (d *EmployeeDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Employee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEmployeeNotFound
	}

	return nil
}
