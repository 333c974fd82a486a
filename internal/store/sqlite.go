// 包 store 提供在架清单的持久化（SQLite）：
// - Open/Init 两段式：先拿句柄，显式初始化时再校验表结构
// - 表结构漂移按损坏处理：整表重建，历史数据随之丢弃
// - 连接未就绪时的操作降级为告警 + 空结果，不向上抛错
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"go-cat-alert/internal/logx"
	"go-cat-alert/internal/model"
)

// column 描述一列的期望形态，与 PRAGMA table_info 的输出逐项对应。
type column struct {
	name    string
	ctype   string
	notNull int
	pk      int
}

// schema 为 cats 表的期望结构（有序）。任何偏差都触发重建，
// 连列序不同也算漂移——这是约定的修复触发器，故意从严。
var schema = []column{
	{"id", "INTEGER", 0, 1},
	{"pet_id", "TEXT", 0, 0},
	{"name", "TEXT", 0, 0},
	{"gender", "TEXT", 0, 0},
	{"color", "TEXT", 0, 0},
	{"breed", "TEXT", 0, 0},
	{"age", "INTEGER", 0, 0},
	{"url", "TEXT", 0, 0},
	{"image", "TEXT", 0, 0},
}

const createTableSQL = `CREATE TABLE cats (
    id INTEGER PRIMARY KEY,
    pet_id TEXT UNIQUE,
    name TEXT,
    gender TEXT,
    color TEXT,
    breed TEXT,
    age INTEGER,
    url TEXT,
    image TEXT
);`

// DB 封装 *sql.DB，基于 modernc.org/sqlite（纯 Go 实现）。
type DB struct {
	path string
	db   *sql.DB
}

// Open 记录数据库路径并返回句柄，不做任何校验性 I/O；
// 在 Init 成功之前，所有读写操作都会降级为空结果。
func Open(dir, name string) *DB {
	return &DB{path: filepath.Join(dir, name)}
}

// Init 建立连接并校验表结构：与期望一致时保留现有数据，
// 缺表或漂移时整表重建（清空历史）。
func (s *DB) Init(ctx context.Context) error {
	if s.db == nil {
		// 说明：modernc sqlite 的 DSN 可直接使用文件路径
		db, err := sql.Open("sqlite", s.path)
		if err != nil {
			return fmt.Errorf("open sqlite %s: %w", s.path, err)
		}
		db.SetMaxOpenConns(1)
		s.db = db
	}
	live, err := s.tableInfo(ctx)
	if err != nil {
		return fmt.Errorf("table info: %w", err)
	}
	if schemaEqual(live, schema) {
		logx.Debugf("cats 表结构校验通过，沿用现有数据")
		return nil
	}
	logx.Warnf("cats 表结构与期望不符（或表不存在），重建并清空历史数据")
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS cats`); err != nil {
		return fmt.Errorf("drop cats: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create cats: %w", err)
	}
	return nil
}

// tableInfo 读取 cats 表当前的列描述；表不存在时返回空切片。
func (s *DB) tableInfo(ctx context.Context) ([]column, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info('cats')`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []column
	for rows.Next() {
		var cid int
		var c column
		var dflt sql.NullString
		if err := rows.Scan(&cid, &c.name, &c.ctype, &c.notNull, &dflt, &c.pk); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func schemaEqual(a, b []column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ready 判断连接是否可用，未就绪时记录告警。
// 这里宁可空转也不让进程崩溃：错过一轮的代价很低，下轮重跑即可。
func (s *DB) ready(op string) bool {
	if s == nil || s.db == nil {
		logx.Warnf("数据库未就绪，忽略操作：%s", op)
		return false
	}
	return true
}

// IDs 返回库中全部猫咪编号。
func (s *DB) IDs(ctx context.Context) map[string]struct{} {
	ids := map[string]struct{}{}
	if !s.ready("IDs") {
		return ids
	}
	rows, err := s.db.QueryContext(ctx, `SELECT pet_id FROM cats`)
	if err != nil {
		logx.Warnf("查询编号失败：%v", err)
		return ids
	}
	defer rows.Close()
	for rows.Next() {
		var id sql.NullString
		if err := rows.Scan(&id); err != nil {
			logx.Warnf("读取编号失败：%v", err)
			return ids
		}
		if id.Valid {
			ids[id.String] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		logx.Warnf("遍历编号失败：%v", err)
	}
	return ids
}

// CatsByID 按编号集合取完整记录；空集合直接返回 nil（不发起查询）。
// 结果顺序未定义，调用方不得依赖。
func (s *DB) CatsByID(ctx context.Context, ids map[string]struct{}) []model.Cat {
	if len(ids) == 0 || !s.ready("CatsByID") {
		return nil
	}
	ph := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for id := range ids {
		ph = append(ph, "?")
		args = append(args, id)
	}
	q := fmt.Sprintf(`SELECT pet_id, name, gender, color, breed, age, url, image FROM cats WHERE pet_id IN (%s)`,
		strings.Join(ph, ","))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		logx.Warnf("查询记录失败：%v", err)
		return nil
	}
	defer rows.Close()
	var out []model.Cat
	for rows.Next() {
		cat, err := scanCat(rows)
		if err != nil {
			logx.Warnf("读取记录失败：%v", err)
			return out
		}
		out = append(out, cat)
	}
	if err := rows.Err(); err != nil {
		logx.Warnf("遍历记录失败：%v", err)
	}
	return out
}

// scanCat 把一行解码为 Cat：NULL 兜底为空串/0，性别经 ParseGender 归一。
func scanCat(rows *sql.Rows) (model.Cat, error) {
	var cat model.Cat
	var id, name, gender, color, breed, url, image sql.NullString
	var age sql.NullInt64
	if err := rows.Scan(&id, &name, &gender, &color, &breed, &age, &url, &image); err != nil {
		return cat, err
	}
	cat.ID = id.String
	cat.Name = name.String
	cat.Gender = model.ParseGender(gender.String)
	cat.Color = color.String
	cat.Breed = breed.String
	cat.Age = int(age.Int64)
	cat.URL = url.String
	cat.Image = image.String
	return cat, nil
}

// Upsert 批量写入记录（pet_id 唯一约束，冲突即覆盖）。
func (s *DB) Upsert(ctx context.Context, cats []model.Cat) error {
	if !s.ready("Upsert") {
		return nil
	}
	for _, cat := range cats {
		_, err := s.db.ExecContext(ctx, `INSERT INTO cats(pet_id, name, gender, color, breed, age, url, image)
        VALUES(?,?,?,?,?,?,?,?)
        ON CONFLICT(pet_id) DO UPDATE SET name=excluded.name, gender=excluded.gender, color=excluded.color, breed=excluded.breed, age=excluded.age, url=excluded.url, image=excluded.image`,
			cat.ID, cat.Name, string(cat.Gender), cat.Color, cat.Breed, cat.Age, cat.URL, cat.Image)
		if err != nil {
			return fmt.Errorf("upsert cat %s: %w", cat.ID, err)
		}
	}
	return nil
}

// Delete 按编号集合删除记录。
func (s *DB) Delete(ctx context.Context, ids map[string]struct{}) error {
	if len(ids) == 0 || !s.ready("Delete") {
		return nil
	}
	for id := range ids {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM cats WHERE pet_id = ?`, id); err != nil {
			return fmt.Errorf("delete cat %s: %w", id, err)
		}
	}
	return nil
}

// Close 释放连接；可重复调用，关闭后的操作走未就绪降级路径。
func (s *DB) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
