package store

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wetc/inventory"
	"go.uber.org/zap"
)

const typesSchema = `
CREATE TABLE IF NOT EXISTS TYPE_INFO (
	TYPE_ID INTEGER NOT NULL PRIMARY KEY,
	GROUP_ID INTEGER NOT NULL,
	CATEGORY_ID INTEGER NOT NULL,
	NAME TEXT
)`

// TypeDB is the type catalog database.
type TypeDB struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenTypes opens (or creates) the type catalog database at path.
func OpenTypes(path string, logger *zap.Logger) (*TypeDB, error) {
	db, err := open(path, typesSchema)
	if err != nil {
		return nil, err
	}
	return &TypeDB{db: db, logger: nop(logger)}, nil
}

func (t *TypeDB) Close() error { return t.db.Close() }

// ImportCSV replaces the whole catalog with the content of a CSV file.
//
// The file has a header row, then "type_id,group_id,category_id,name" rows.
// Unquoted commas in the name are kept as part of the name.
func (t *TypeDB) ImportCSV(r io.Reader) (n int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil { // header
		return 0, fmt.Errorf("cannot read type info header: %w", err)
	}

	tx, err := t.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.Exec(`DELETE FROM TYPE_INFO`); err != nil {
		return 0, fmt.Errorf("cannot clear type info: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO TYPE_INFO VALUES (?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("cannot read type info: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(fields) < 4 {
			return 0, fmt.Errorf("type info line %d: expected 4 fields, got %d", line, len(fields))
		}
		var ids [3]int64
		for i := range ids {
			ids[i], err = strconv.ParseInt(strings.TrimSpace(fields[i]), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("type info line %d: %w", line, err)
			}
		}
		name := strings.Join(fields[3:], ",")
		if _, err := stmt.Exec(ids[0], ids[1], ids[2], name); err != nil {
			return 0, fmt.Errorf("type info line %d: %w", line, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	t.logger.Info("type catalog imported", zap.Int("types", n))
	return n, nil
}

// TypeInfo implements inventory.TypeCatalog.
func (t *TypeDB) TypeInfo(typeID int64) (inventory.TypeInfo, error) {
	var info inventory.TypeInfo
	var name sql.NullString
	err := t.db.QueryRow(`SELECT NAME, GROUP_ID, CATEGORY_ID FROM TYPE_INFO WHERE TYPE_ID = ?`, typeID).
		Scan(&name, &info.GroupID, &info.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return info, fmt.Errorf("type %d: %w", typeID, inventory.ErrUnknownType)
	}
	if err != nil {
		return info, fmt.Errorf("cannot read type %d: %w", typeID, err)
	}
	info.Name = name.String
	return info, nil
}
