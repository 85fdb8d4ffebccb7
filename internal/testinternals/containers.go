//go:build integration_test || all_tests

package testinternals

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDBName   = "pgtcx"
)

// Containers are the docker resources backing an integration test run.
type Containers struct {
	DB           *sql.DB
	PostgresPort string
	RedisPort    string

	dockerPool *dockertest.Pool
	teardown   []func()
}

// StartContainers runs postgres (schema and test activities loaded) and,
// optionally, redis.
func StartContainers(withRedis bool) (_ *Containers, err error) {
	c := &Containers{
		teardown: make([]func(), 0),
	}
	defer func() {
		if err != nil {
			c.Cleanup()
		}
	}()

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	c.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not create new dockertest pool: %w", err)
	}

	// uses pool to try to connect to Docker
	if err = c.dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	if withRedis {
		if err := c.redisSetup(); err != nil {
			return nil, fmt.Errorf("setup redis: %w", err)
		}
	}

	if err := c.postgresSetup(); err != nil {
		return nil, fmt.Errorf("setup postgres: %w", err)
	}

	return c, nil
}

func (c *Containers) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf(" --> test db close error: %s\n", err)
		}
	}
	for _, teardown := range c.teardown {
		teardown()
	}
}

func (c *Containers) redisSetup() error {
	redisResource, err := c.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return fmt.Errorf("run redis: %w", err)
	}

	c.teardown = append(c.teardown, func() {
		if err := redisResource.Close(); err != nil {
			log.Printf("redis teardown: %s\n", err)
		}
	})

	c.RedisPort = redisResource.GetPort("6379/tcp")
	return nil
}

func (c *Containers) postgresSetup() error {
	pgResource, err := c.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=" + PostgresUser,
			"POSTGRES_PASSWORD=" + PostgresPassword,
			"POSTGRES_DB=" + PostgresDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return fmt.Errorf("dockerpool run postgres: %w", err)
	}

	c.teardown = append(c.teardown, func() {
		if err := pgResource.Close(); err != nil {
			log.Printf("postgres teardown: %s\n", err)
		}
	})

	c.PostgresPort = pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@localhost:%s/%s?sslmode=disable",
		PostgresUser, PostgresPassword, c.PostgresPort, PostgresDBName,
	)
	c.DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open db conn: %w", err)
	}

	if err := c.dockerPool.Retry(c.DB.Ping); err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}

	if _, err := c.DB.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("run schema script: %w", err)
	}
	res, err := c.DB.Exec(SeedSQL)
	if err != nil {
		return fmt.Errorf("run seed script: %w", err)
	}

	numRows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	log.Printf("postgres setup result: %d\n", numRows)

	return nil
}
