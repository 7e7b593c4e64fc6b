package dao

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB

// TestMain starts a throwaway postgres container. The DAO tests are skipped
// when running with -short or when docker is not reachable.
func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

func runWithPostgres(m *testing.M) int {
	flag.Parse()
	if testing.Short() {
		return m.Run()
	}

	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		return m.Run()
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=merchant_admin_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start postgres: %v\n", err)
		return m.Run()
	}
	defer func() { _ = pool.Purge(resource) }()
	_ = resource.Expire(120)

	dsn := fmt.Sprintf("host=localhost port=%s user=postgres password=postgres dbname=merchant_admin_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	pool.MaxWait = 60 * time.Second
	err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		testDB = db

		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not connect to postgres: %v\n", err)
		return m.Run()
	}

	if err := InitTables(testDB); err != nil {
		fmt.Fprintf(os.Stderr, "could not migrate: %v\n", err)
		return 1
	}

	return m.Run()
}

func newTestDAO(t *testing.T) *EmployeeDAO {
	t.Helper()
	if testDB == nil {
		t.Skip("postgres is not available")
	}
	require.NoError(t, testDB.Exec("TRUNCATE employees RESTART IDENTITY").Error)

	return NewEmployeeDAO(testDB)
}

func TestEmployeeDAO_InsertAndFind(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()

	created, err := d.Insert(ctx, Employee{FirstName: "Ada", LastName: "Lovelace", Phone: "0600000001", Password: "hash"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := d.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", found.FirstName)

	_, err = d.FindByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestEmployeeDAO_UniquePhone(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()

	_, err := d.Insert(ctx, Employee{FirstName: "Ada", LastName: "Lovelace", Phone: "0600000001", Password: "hash"})
	require.NoError(t, err)

	_, err = d.Insert(ctx, Employee{FirstName: "Alan", LastName: "Turing", Phone: "0600000001", Password: "hash"})
	assert.ErrorIs(t, err, ErrEmployeePhoneExists)
}

func TestEmployeeDAO_FindAll(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()

	for _, e := range []Employee{
		{FirstName: "Alan", LastName: "Turing", Phone: "2", Password: "hash"},
		{FirstName: "Ada", LastName: "Lovelace", Phone: "1", Password: "hash"},
	} {
		_, err := d.Insert(ctx, e)
		require.NoError(t, err)
	}

	all, err := d.FindAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Lovelace", all[0].LastName)

	found, err := d.FindAll(ctx, "tur")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Alan", found[0].FirstName)
}

func TestEmployeeDAO_Delete(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()

	created, err := d.Insert(ctx, Employee{FirstName: "Ada", LastName: "Lovelace", Phone: "1", Password: "hash"})
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, created.ID))
	assert.ErrorIs(t, d.Delete(ctx, created.ID), ErrEmployeeNotFound)
}
