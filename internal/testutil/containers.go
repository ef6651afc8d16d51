// containers.go
//
// Multi-tenant practice management service for chartered accountant firms
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of practice-portal.
// practice-portal is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// practice-portal is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with practice-portal.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/localnerve/practice-portal/data"
	"github.com/localnerve/practice-portal/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestContainers holds the running container stack
type TestContainers struct {
	Network     *testcontainers.DockerNetwork
	DBContainer testcontainers.Container
	Config      *config.Config
}

// Terminate stops every container and removes the network
func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate database: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// ContainerSettings describes the database container to run
type ContainerSettings struct {
	DBType       string
	Image        string
	Port         string
	Database     string
	User         string
	Password     string
	RootPassword string
}

// SettingsFromEnv reads container settings with defaults for dbType
func SettingsFromEnv(dbType string) ContainerSettings {
	s := ContainerSettings{
		DBType:       dbType,
		Image:        os.Getenv("DB_IMAGE"),
		Port:         os.Getenv("DB_PORT"),
		Database:     envOr("DB_DATABASE", "portal"),
		User:         envOr("DB_USER", "portal"),
		Password:     envOr("DB_PASSWORD", "portal-password"),
		RootPassword: envOr("DB_ROOT_PASSWORD", "root-password"),
	}
	switch dbType {
	case "postgres":
		if s.Image == "" {
			s.Image = "postgres:17-alpine"
		}
		if s.Port == "" {
			s.Port = "5432"
		}
	default:
		if s.Image == "" {
			s.Image = "mariadb:11"
		}
		if s.Port == "" {
			s.Port = "3306"
		}
	}
	return s
}

// CreateAllTestContainers starts the database container and returns a config pointing at it.
// t may be nil when run outside of tests.
func CreateAllTestContainers(t *testing.T, settings ContainerSettings) (*TestContainers, error) {
	ctx := context.Background()
	testContainers := &TestContainers{}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	testContainers.Network = nw
	networkName := nw.Name

	exists, err := imageExists(ctx, settings.Image)
	if err != nil {
		logMessage(t, "Could not inspect local images: %v", err)
	} else if exists {
		logMessage(t, "Image %s exists, reusing...", settings.Image)
	} else {
		logMessage(t, "Image %s does not exist, pulling...", settings.Image)
	}

	tcpDBPort, err := nat.NewPort("tcp", settings.Port)
	if err != nil {
		testContainers.Terminate(t)
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        settings.Image,
			ExposedPorts: []string{string(tcpDBPort)},
			Env:          getDBInitEnvMap(settings),
			WaitingFor:   wait.ForListeningPort(tcpDBPort).WithStartupTimeout(90 * time.Second),
			Networks:     []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {"db"},
			},
			HostConfigModifier: func(hostConfig *container.HostConfig) {
				hostConfig.Tmpfs = map[string]string{dataDir(settings.DBType): "rw"}
			},
		},
		Started: true,
	})
	if err != nil {
		testContainers.Terminate(t)
		return nil, fmt.Errorf("failed to start database: %w", err)
	}
	testContainers.DBContainer = dbContainer

	dbHost, _ := dbContainer.Host(ctx)
	dbPort, _ := dbContainer.MappedPort(ctx, tcpDBPort)

	if settings.DBType != "postgres" {
		if err := performMySQLDBInit(settings, dbHost, dbPort); err != nil {
			testContainers.Terminate(t)
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	testContainers.Config = &config.Config{
		DBType:            settings.DBType,
		DBHost:            dbHost,
		DBPort:            dbPort.Port(),
		DBDatabase:        settings.Database,
		DBUser:            settings.User,
		DBPassword:        settings.Password,
		DBConnectionLimit: 4,
		DBLogLevel:        "warn",
	}

	logMessage(t, "DB_HOST=%s DB_PORT=%s", dbHost, dbPort.Port())
	logMessage(t, "%s testcontainer started successfully", settings.DBType)
	return testContainers, nil
}

func getDBInitEnvMap(s ContainerSettings) map[string]string {
	switch s.DBType {
	case "postgres":
		return map[string]string{
			"POSTGRES_PASSWORD": s.Password,
			"POSTGRES_USER":     s.User,
			"POSTGRES_DB":       s.Database,
		}
	default:
		return map[string]string{
			"MARIADB_ROOT_PASSWORD": s.RootPassword,
		}
	}
}

func dataDir(dbType string) string {
	if dbType == "postgres" {
		return "/var/lib/postgresql/data"
	}
	return "/var/lib/mysql"
}

func performMySQLDBInit(s ContainerSettings, dbHost string, dbPort nat.Port) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", s.RootPassword, dbHost, dbPort.Port()))
	if err != nil {
		return err
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
		return fmt.Errorf("database not ready after 30 seconds: %w", err)
	}

	script := strings.NewReplacer(
		"{{DATABASE}}", s.Database,
		"{{USER}}", s.User,
		"{{PASSWORD}}", s.Password,
	).Replace(data.InitdbMariaDBPrivileges)

	return executeSQL(db, script)
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

	for _, image := range images {
		for _, tag := range image.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}

func envOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
