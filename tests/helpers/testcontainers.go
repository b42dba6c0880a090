// Helpers for running the API tests against a real PostgreSQL instance.
// The container lives for the duration of one test binary run.

package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/agridata/farmtrack/internal/config"
)

const (
	postgresImage    = "postgres:16-alpine"
	postgresUser     = "farmtrack"
	postgresPassword = "farmtrack-test"
	postgresDatabase = "farmtrack_test"
)

// PostgresContainer wraps a started database container together with the
// application config that points at it.
type PostgresContainer struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Terminate stops and removes the container.
func (pc *PostgresContainer) Terminate(t *testing.T) {
	t.Helper()
	if pc.Container == nil {
		return
	}
	if err := pc.Container.Terminate(context.Background()); err != nil {
		t.Logf("Failed to terminate postgres container: %v", err)
	}
}

// StartPostgres launches a disposable PostgreSQL container and returns a
// config wired to its mapped port.
func StartPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	tcpPort, err := nat.NewPort("tcp", "5432")
	if err != nil {
		t.Fatalf("Failed to create postgres port: %v", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresPassword,
				"POSTGRES_DB":       postgresDatabase,
			},
			WaitingFor: wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to resolve container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		t.Fatalf("Failed to resolve mapped port: %v", err)
	}

	cfg := &config.Config{
		Port:              "5000",
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            mappedPort.Port(),
		DBUser:            postgresUser,
		DBPassword:        postgresPassword,
		DBDatabase:        postgresDatabase,
		DBSSLMode:         "disable",
		DBConnectionLimit: 5,
		JWTSecret:         "integration-test-secret",
		IncomeProducts:    config.DefaultIncomeProducts,
	}

	return &PostgresContainer{Container: container, Config: cfg}
}
