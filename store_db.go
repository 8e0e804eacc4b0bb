package au

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	slowQueryThresholdSeconds = 3
)

////////////////
//
// (DB store)
//

// db store
type dbStore struct {
	db *gorm.DB

	verbose bool
}

// Insert inserts given item into the store.
//
// Returns false without error when an item with the same id already exists.
func (s *dbStore) Insert(item Item) (inserted bool) {
	v(s.verbose, "dbStore - inserting item: '%s' (%s)", item.Title, item.ID)

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&item)
	if result.Error != nil {
		log.Printf("failed to insert item with id '%s': %s", item.ID, result.Error)
		return false
	}

	return result.RowsAffected > 0
}

// Exists checks for the existence of `id` in the store.
func (s *dbStore) Exists(id string) (exists bool) {
	v(s.verbose, "dbStore - checking existence of item with id: %s", id)

	err := s.db.Model(&Item{}).Where("id = ?", id).Select("count(*) > 0").Find(&exists).Error
	if err == nil {
		return exists
	}

	log.Printf("failed to check existence of item with id '%s': %s", id, err)

	return false
}

// CountForSourceOnDay counts stored items of given source whose published
// timestamp falls on given UTC calendar day ("2006-01-02").
func (s *dbStore) CountForSourceOnDay(source, day string) int {
	v(s.verbose, "dbStore - counting items of source '%s' on day: %s", source, day)

	var count int64
	err := s.db.Model(&Item{}).Where("source = ? AND published LIKE ?", source, day+"%").Count(&count).Error
	if err != nil {
		log.Printf("failed to count items of source '%s' on day '%s': %s", source, day, err)
		return 0
	}

	return int(count)
}

// Query lists stored items ordered by published date descending, optionally
// filtered by category, capped at `limit` items.
func (s *dbStore) Query(category Category, limit int) (items []Item) {
	v(s.verbose, "dbStore - querying items with category = '%s' and limit = %d", category, limit)

	tx := s.db.Model(&Item{}).Order("published DESC")
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	err := tx.Find(&items).Error
	if err != nil {
		log.Printf("failed to query items: %s", err)
		return nil
	}

	return items
}

// Categories lists stored categories with their item counts, largest first.
func (s *dbStore) Categories() (counts []CategoryCount) {
	v(s.verbose, "dbStore - listing categories")

	err := s.db.Model(&Item{}).
		Select("category, count(*) as count").
		Group("category").
		Order("count DESC").
		Find(&counts).Error
	if err != nil {
		log.Printf("failed to list categories: %s", err)
		return nil
	}

	return counts
}

// SetVerbose sets the verbosity of the store.
func (s *dbStore) SetVerbose(v bool) {
	s.verbose = v
}

// NewDBStore opens the SQLite store at given path, initializing the schema on
// first run. A missing store file is not an error.
func NewDBStore(path string) (store ItemStore, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	if db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             slowQueryThresholdSeconds * time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				ParameterizedQueries:      true,
				Colorful:                  false,
			},
		),
	}); err == nil {
		// migrate the schema
		if err := db.AutoMigrate(&Item{}); err != nil {
			return nil, fmt.Errorf("failed to migrate store schema: %w", err)
		}

		return &dbStore{
			db: db,
		}, nil
	}

	return nil, err
}
