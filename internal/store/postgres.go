package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

const resourceColumns = `id, name, resource_type, provider, instance_type, region, size,
	cpu_utilization, memory_utilization, storage_usage, monthly_cost, created_at, updated_at`

// PostgresStore is a Store backed by the cloud_resources table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and verifies the connection.
// Schema migrations are applied separately by RunMigrations.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Resource, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+resourceColumns+` FROM cloud_resources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	resources := make([]models.Resource, 0)
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource row: %w", err)
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*models.Resource, error) {
	r, err := scanResource(s.pool.QueryRow(ctx,
		`SELECT `+resourceColumns+` FROM cloud_resources WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get resource %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get resource %d: %w", id, err)
	}
	return &r, nil
}

func (s *PostgresStore) GetByName(ctx context.Context, name string) (*models.Resource, error) {
	r, err := scanResource(s.pool.QueryRow(ctx,
		`SELECT `+resourceColumns+` FROM cloud_resources WHERE name = $1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get resource %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get resource %q: %w", name, err)
	}
	return &r, nil
}

func (s *PostgresStore) Create(ctx context.Context, r *models.Resource) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cloud_resources
		   (name, resource_type, provider, instance_type, region, size,
		    cpu_utilization, memory_utilization, storage_usage, monthly_cost)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		r.Name, r.ResourceType, r.Provider, r.InstanceType, r.Region, r.Size,
		r.CPUUtilization, r.MemoryUtilization, r.StorageUsage, r.MonthlyCost,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("create resource %q: %w", r.Name, ErrDuplicateName)
		}
		return fmt.Errorf("create resource %q: %w", r.Name, err)
	}
	return nil
}

// Upsert relies on xmax being 0 only for freshly inserted tuples.
func (s *PostgresStore) Upsert(ctx context.Context, r *models.Resource) (bool, error) {
	var created bool
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cloud_resources
		   (name, resource_type, provider, instance_type, region, size,
		    cpu_utilization, memory_utilization, storage_usage, monthly_cost)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (name) DO UPDATE SET
		   resource_type      = EXCLUDED.resource_type,
		   provider           = EXCLUDED.provider,
		   instance_type      = EXCLUDED.instance_type,
		   region             = EXCLUDED.region,
		   size               = EXCLUDED.size,
		   cpu_utilization    = EXCLUDED.cpu_utilization,
		   memory_utilization = EXCLUDED.memory_utilization,
		   storage_usage      = EXCLUDED.storage_usage,
		   monthly_cost       = EXCLUDED.monthly_cost,
		   updated_at         = now()
		 RETURNING id, created_at, updated_at, (xmax = 0)`,
		r.Name, r.ResourceType, r.Provider, r.InstanceType, r.Region, r.Size,
		r.CPUUtilization, r.MemoryUtilization, r.StorageUsage, r.MonthlyCost,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert resource %q: %w", r.Name, err)
	}
	return created, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cloud_resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resource %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete resource %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM cloud_resources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func scanResource(row pgx.Row) (models.Resource, error) {
	var r models.Resource
	err := row.Scan(&r.ID, &r.Name, &r.ResourceType, &r.Provider, &r.InstanceType, &r.Region, &r.Size,
		&r.CPUUtilization, &r.MemoryUtilization, &r.StorageUsage, &r.MonthlyCost, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}
