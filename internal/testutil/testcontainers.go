// This file is a helper for running a database with testcontainers.
// It is used by the integration tests and by the cmd/testcontainers executable.
// Expects environment variables to be loaded from .env files when run standalone.

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/localnerve/musicdb/data"
	"github.com/localnerve/musicdb/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DatabaseSpec describes the database container to start
type DatabaseSpec struct {
	Type         string // mariadb, mysql or postgres
	Image        string
	Database     string
	User         string
	Password     string
	RootPassword string
}

// DatabaseContainer is a started database and the config that reaches it
type DatabaseContainer struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Terminate stops and removes the container
func (dc *DatabaseContainer) Terminate(ctx context.Context) error {
	if dc.Container == nil {
		return nil
	}
	return dc.Container.Terminate(ctx)
}

// DatabaseFromEnv reads the container spec from DB_TYPE, DB_IMAGE,
// DB_DATABASE, DB_USER, DB_PASSWORD and DB_ROOT_PASSWORD
func DatabaseFromEnv() DatabaseSpec {
	spec := DatabaseSpec{
		Type:         envOr("DB_TYPE", "mariadb"),
		Image:        os.Getenv("DB_IMAGE"),
		Database:     envOr("DB_DATABASE", "musicdb"),
		User:         envOr("DB_USER", "musicdb"),
		Password:     envOr("DB_PASSWORD", "musicdb"),
		RootPassword: envOr("DB_ROOT_PASSWORD", "rootpass"),
	}
	if spec.Image == "" {
		spec.Image = DefaultImage(spec.Type)
	}
	return spec
}

// DefaultImage is the image used for a database type when DB_IMAGE is unset
func DefaultImage(dbType string) string {
	switch dbType {
	case "postgres", "postgresql":
		return "postgres:17-alpine"
	case "mysql":
		return "mysql:8.4"
	}
	return "mariadb:11.4"
}

// StartDatabase starts a database container and waits until it accepts connections
func StartDatabase(ctx context.Context, spec DatabaseSpec) (*DatabaseContainer, error) {
	containerPort, env, waitFor, err := containerSettings(spec)
	if err != nil {
		return nil, err
	}

	exists, err := imageExists(ctx, spec.Image)
	if err != nil {
		log.Printf("Could not inspect local images: %v", err)
	} else if exists {
		log.Printf("Image %s exists, reusing...", spec.Image)
	} else {
		log.Printf("Image %s does not exist, pulling...", spec.Image)
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Name:         "musicdb-" + spec.Type + "-" + uuid.NewString()[:8],
			Image:        spec.Image,
			ExposedPorts: []string{string(containerPort)},
			Env:          env,
			WaitingFor:   waitFor,
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", spec.Type, err)
	}
	result := &DatabaseContainer{Container: dbContainer}

	host, err := dbContainer.Host(ctx)
	if err != nil {
		_ = result.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mappedPort, err := dbContainer.MappedPort(ctx, containerPort)
	if err != nil {
		_ = result.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	result.Config = &config.Config{
		Port:              "3000",
		DBType:            spec.Type,
		DBHost:            host,
		DBPort:            mappedPort.Port(),
		DBDatabase:        spec.Database,
		DBUser:            spec.User,
		DBPassword:        spec.Password,
		DBConnectionLimit: 5,
		DBLogLevel:        "warn",
		UserEmailPrecheck: true,
	}

	switch spec.Type {
	case "mysql", "mariadb":
		if err := performMySQLInit(spec, host, mappedPort); err != nil {
			_ = result.Terminate(ctx)
			return nil, err
		}
	}

	log.Printf("%s testcontainer started at %s", spec.Type, net.JoinHostPort(host, mappedPort.Port()))
	return result, nil
}

func containerSettings(spec DatabaseSpec) (nat.Port, map[string]string, wait.Strategy, error) {
	switch spec.Type {
	case "postgres", "postgresql":
		port, err := nat.NewPort("tcp", "5432")
		if err != nil {
			return "", nil, nil, err
		}
		return port, map[string]string{
				"POSTGRES_PASSWORD": spec.Password,
				"POSTGRES_USER":     spec.User,
				"POSTGRES_DB":       spec.Database,
			}, wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort(port),
			).WithDeadline(60 * time.Second), nil

	case "mysql", "mariadb":
		port, err := nat.NewPort("tcp", "3306")
		if err != nil {
			return "", nil, nil, err
		}
		return port, map[string]string{
			"MYSQL_ROOT_PASSWORD": spec.RootPassword,
			"MYSQL_DATABASE":      spec.Database,
			"MYSQL_USER":          spec.User,
			"MYSQL_PASSWORD":      spec.Password,
		}, wait.ForListeningPort(port).WithStartupTimeout(60 * time.Second), nil
	}

	return "", nil, nil, fmt.Errorf("unsupported container database type: %s", spec.Type)
}

func performMySQLInit(spec DatabaseSpec, host string, port nat.Port) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s)/", spec.RootPassword, net.JoinHostPort(host, port.Port())))
	if err != nil {
		return fmt.Errorf("failed to connect to %s for setup: %w", spec.Type, err)
	}
	defer db.Close()

	// Wait for connection to be really ready
	for i := 0; i < 30; i++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("%s not ready after 30 seconds: %w", spec.Type, err)
	}

	if err := executeSQL(db, data.InitdbMariaDBSettings); err != nil {
		return fmt.Errorf("failed to execute %s settings init sql: %w", spec.Type, err)
	}
	return nil
}

func executeSQL(db *sql.DB, sql string) error {
	lines := strings.Split(sql, "\n")

	var ncls []string
	for _, l := range lines {
		ncls = append(ncls, excludeComment(l))
	}

	l := strings.Join(ncls, "\n")
	queries := strings.Split(l, ";")

	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), q)
		}
	}
	return nil
}

// excludeComment strips a trailing -- comment that is not inside a quoted string
func excludeComment(line string) string {
	var quote rune
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case strings.HasPrefix(line[i:], "--"):
			return line[:i]
		}
	}
	return line
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
