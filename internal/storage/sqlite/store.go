// Package sqlite реализует репозитории каталога и заказов поверх
// встраиваемой однофайловой БД SQLite — хранилища по умолчанию для
// магазина с одним процессом-писателем.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultPingTimeout = 5 * time.Second

// Store оборачивает единственное SQL-подключение к файлу базы.
// Подключение открывается один раз при старте процесса, передаётся в
// репозитории по ссылке и закрывается при остановке; скрытого
// глобального состояния нет.
type Store struct {
	db *sql.DB
}

// Open открывает базу по пути path (":memory:" для тестов), включает
// контроль внешних ключей и проверяет доступность. Движок не
// рассчитан на конкурентные транзакции по одному соединению, поэтому
// пул ограничен одним подключением: обращения сериализуются на уровне
// database/sql.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db}, nil
}

// DB возвращает raw SQL DB, когда нужен низкоуровневый доступ.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping проверяет доступность базы.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// EnsureSchema создаёт три отношения магазина, если их ещё нет:
// каталог, шапки заказов и строки заказов со ссылками на шапку и на
// позицию каталога. Шаг идемпотентен и выполняется один раз при старте.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS menu_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			price TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			transaction_code TEXT NOT NULL UNIQUE,
			placed_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL REFERENCES orders(id),
			menu_item_id INTEGER NOT NULL REFERENCES menu_items(id),
			qty INTEGER NOT NULL,
			unit_price TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_lines_order_id ON order_lines(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
