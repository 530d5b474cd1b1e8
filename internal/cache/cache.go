package cache

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Store mirrors the last server responses into a local SQLite file so the
// CLI can show health data without a round trip. It carries no invariants
// beyond "whatever the server said last"; a sync replaces rows wholesale.
type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := db.AutoMigrate(&Profile{}, &Allergy{}, &Disease{}, &Drug{}, &Schedule{}); err != nil {
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) SaveProfile(p Profile) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Profile{}).Error; err != nil {
			return err
		}
		return tx.Create(&p).Error
	})
}

func (s *Store) Profile() (*Profile, error) {
	var p Profile
	if err := s.db.First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ReplaceAllergies(items []Allergy) error {
	return replaceAll(s.db, &Allergy{}, items)
}

func (s *Store) Allergies() ([]Allergy, error) {
	var out []Allergy
	return out, s.db.Order("id").Find(&out).Error
}

func (s *Store) ReplaceDiseases(kind string, items []Disease) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kind = ?", kind).Delete(&Disease{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (s *Store) Diseases(kind string) ([]Disease, error) {
	var out []Disease
	return out, s.db.Where("kind = ?", kind).Order("id").Find(&out).Error
}

func (s *Store) ReplaceDrugs(items []Drug) error {
	return replaceAll(s.db, &Drug{}, items)
}

func (s *Store) Drugs() ([]Drug, error) {
	var out []Drug
	return out, s.db.Order("id").Find(&out).Error
}

func (s *Store) ReplaceSchedules(items []Schedule) error {
	return replaceAll(s.db, &Schedule{}, items)
}

func (s *Store) Schedules() ([]Schedule, error) {
	var out []Schedule
	return out, s.db.Order("date, time").Find(&out).Error
}

// Reset drops every mirrored row. Called on logout so a later login does not
// show the previous user's data.
func (s *Store) Reset() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&Profile{}, &Allergy{}, &Disease{}, &Drug{}, &Schedule{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func replaceAll[T any](db *gorm.DB, model any, items []T) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}
