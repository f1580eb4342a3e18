package swatch

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB caches extracted colors keyed by the SHA-1 of the image file.
type DB struct {
	db *sql.DB
}

// NewDB opens or creates the sqlite database in file.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_txlock=immediate", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS swatch (image_id INTEGER NOT NULL, rank INTEGER NOT NULL, argb INTEGER NOT NULL, population INTEGER NOT NULL, PRIMARY KEY(image_id, rank), FOREIGN KEY(image_id) REFERENCES image(id))"); err != nil {
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) addImage(tx *sql.Tx, sha string, width, height int) (int64, bool, error) {
	var id int64
	switch err := tx.QueryRow("SELECT id FROM image WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO image (sha1, width, height) VALUES (?, ?, ?)", sha, width, height)
		if err != nil {
			return 0, false, err
		}
		id, err := result.LastInsertId()
		return id, true, err
	case nil:
		return id, false, nil
	default:
		return 0, false, err
	}
}

// Store records the colors of the image with the given SHA-1. Storing
// the same image twice keeps the first set of colors.
func (db *DB) Store(sha string, width, height int, colors []Color) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, created, err := db.addImage(tx, sha, width, height)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	for i, c := range colors {
		if _, err := tx.Exec("INSERT INTO swatch (image_id, rank, argb, population) VALUES (?, ?, ?, ?)", id, i, int64(c.ARGB()), c.Population); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Lookup returns the colors stored for the image with the given SHA-1,
// most common first, or nil if there are none.
func (db *DB) Lookup(sha string) ([]Color, error) {
	rows, err := db.db.Query("SELECT s.argb, s.population FROM image AS i JOIN swatch AS s ON s.image_id = i.id WHERE i.sha1 = ? ORDER BY s.rank", sha)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colors []Color
	for rows.Next() {
		var argb int64
		var c Color
		if err := rows.Scan(&argb, &c.Population); err != nil {
			return nil, err
		}
		c.NRGBA = fromARGB(uint32(argb))
		colors = append(colors, c)
	}

	return colors, rows.Err()
}
