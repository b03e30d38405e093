package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const kvTable = "kv_store"

type kvRepository struct {
	db *sql.DB
}

// NewKVRepository creates a SQLite-backed KVRepository implementation
func NewKVRepository(db *sql.DB) repository.KVRepository {
	return &kvRepository{db: db}
}

func (r *kvRepository) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")

	query, args, err := sqlBuilder.Select("value").
		From(kvTable).
		Where(squirrel.Eq{"namespace": namespace, "key": key}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, false, err
	}

	var value []byte
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("key not found: namespace=%s, key=%s", namespace, key)
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to get key: %v", err)
		return nil, false, err
	}
	return value, true, nil
}

func (r *kvRepository) Put(ctx context.Context, namespace, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("putting key: namespace=%s, key=%s, size=%d", namespace, key, len(value))

	query, args, err := sqlBuilder.Insert(kvTable).
		Columns("namespace", "key", "value").
		Values(namespace, key, value).
		Suffix("ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to put key: %v", err)
		return err
	}
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, namespace, key string) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("deleting key: namespace=%s, key=%s", namespace, key)

	query, args, err := sqlBuilder.Delete(kvTable).
		Where(squirrel.Eq{"namespace": namespace, "key": key}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to delete key: %v", err)
		return err
	}
	return nil
}

func (r *kvRepository) Keys(ctx context.Context, namespace string) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")

	query, args, err := sqlBuilder.Select("key").
		From(kvTable).
		Where(squirrel.Eq{"namespace": namespace}).
		OrderBy("key ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list keys: %v", err)
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			log.Error("failed to scan key row: %v", err)
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *kvRepository) DeleteNamespace(ctx context.Context, namespace string) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		query, args, err := sqlBuilder.Delete(kvTable).
			Where(squirrel.Eq{"namespace": namespace}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Error("failed to delete namespace: %v", err)
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			log.Debug("deleted %d keys from namespace %s", n, namespace)
		}
		return nil
	})
}
