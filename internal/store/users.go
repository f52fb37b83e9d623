package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrDuplicateUsername 用户名已存在
var ErrDuplicateUsername = errors.New("用户名已存在")

// UserStore 用户凭证存储，基于 sqlite 单表
type UserStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewUserStore 打开（或创建）用户库并初始化表结构
func NewUserStore(dbPath string) (*UserStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开用户库失败: %w", err)
	}

	// WAL 模式，登录读取和注册写入可以并发
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("设置WAL模式失败: %w", err)
	}

	s := &UserStore{db: db}
	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema 幂等建表
func (s *UserStore) EnsureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("创建users表失败: %w", err)
	}
	return nil
}

// HashPassword 计算密码摘要（无盐，沿用原始设计）
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register 注册用户，用户名冲突返回 ErrDuplicateUsername
func (s *UserStore) Register(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("INSERT INTO users (username, password) VALUES (?, ?)",
		username, HashPassword(password))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("写入用户失败: %w", err)
	}
	return nil
}

// Authenticate 校验用户名和密码，用户不存在或密码错误均返回 false
func (s *UserStore) Authenticate(username, password string) (bool, error) {
	var stored string
	err := s.db.QueryRow("SELECT password FROM users WHERE username=?", username).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("查询用户失败: %w", err)
	}
	return stored == HashPassword(password), nil
}

// Close 关闭用户库
func (s *UserStore) Close() error {
	return s.db.Close()
}
