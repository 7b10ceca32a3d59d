//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestFleetdoctorWithMySQL tests the fleetdoctor store against a MySQL backend.
func TestFleetdoctorWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "fleetdoctor",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/fleetdoctor?parseTime=true", host, port.Port())
	exerciseStoreBackend(t, "mysql", connStr)
}

// TestFleetdoctorWithPostgres tests the fleetdoctor store against a PostgreSQL backend.
func TestFleetdoctorWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	exerciseStoreBackend(t, "postgresql", connStr)
}

// exerciseStoreBackend walks the store lifecycle end to end: migrate the
// schema, record a repair outcome against it, read the accuracy stats back
// and export the stored records.
func exerciseStoreBackend(t *testing.T, backend, connStr string) {
	_ = os.Setenv("FLEETDOCTOR_STORE_BACKEND", backend)
	_ = os.Setenv("FLEETDOCTOR_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("FLEETDOCTOR_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("FLEETDOCTOR_STORE_DB_CONNECT") }()

	// Bring the schema up
	err := runFleetdoctorCommand(t, "store", "migrate")
	require.NoError(t, err)

	// Store status against the fresh schema
	err = runFleetdoctorCommand(t, "store", "status")
	require.NoError(t, err)

	// Record a repair outcome
	err = runFleetdoctorCommand(t, "record",
		"--repository", "city-scrapers-il",
		"--agent", "chi_library",
		"--estimated-hours", "4.5",
		"--actual-hours", "3.0",
		"--note", "selector fix")
	require.NoError(t, err)

	// Accuracy stats over the recorded outcome
	err = runFleetdoctorCommand(t, "accuracy")
	require.NoError(t, err)

	// Export the stored records as JSON
	err = runFleetdoctorCommand(t, "store", "export", "--output", "json")
	require.NoError(t, err)
}
