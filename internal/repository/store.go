package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"examina/internal/apperr"
	"examina/internal/logger"
)

// Entity is implemented by every model via the embedded base struct plus an
// explicit TableName.
type Entity interface {
	PrimaryKey() uuid.UUID
	TableName() string
}

const (
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

// Page describes pagination for ordered filter queries.
type Page struct {
	Limit   int
	Offset  int
	OrderBy string
	Desc    bool
}

// Store implements the shared CRUD and filter primitives over one table. The
// soft-delete variant transparently injects `is_deleted = false` into every
// read, filter and bulk update, and turns Delete into a flag flip.
//
// Construct stores over the transaction bound to the current request so all
// operations share its commit/rollback scope.
type Store[M Entity] struct {
	db   *gorm.DB
	soft bool
}

func NewStore[M Entity](db *gorm.DB) *Store[M] {
	return &Store[M]{db: db}
}

func NewSoftStore[M Entity](db *gorm.DB) *Store[M] {
	return &Store[M]{db: db, soft: true}
}

func (s *Store[M]) table() string {
	var m M
	return m.TableName()
}

func (s *Store[M]) query() *gorm.DB {
	q := s.db.Model(new(M))
	if s.soft {
		q = q.Where("is_deleted = ?", false)
	}
	return q
}

// Get fetches one record by id, returning a NotFoundError when absent.
func (s *Store[M]) Get(id uuid.UUID) (*M, error) {
	var m M
	err := s.query().Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Str("table", s.table()).Str("id", id.String()).Msg("record not found")
		return nil, apperr.NewNotFound(s.table(), id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByIDs fetches records by id, silently dropping missing ones.
func (s *Store[M]) GetByIDs(ids []uuid.UUID) ([]M, error) {
	var ms []M
	if len(ids) == 0 {
		return ms, nil
	}
	err := s.query().Where("id IN ?", ids).Find(&ms).Error
	return ms, err
}

func (s *Store[M]) Count() (int64, error) {
	var n int64
	err := s.query().Count(&n).Error
	return n, err
}

func (s *Store[M]) All() ([]M, error) {
	var ms []M
	err := s.query().Find(&ms).Error
	return ms, err
}

func (s *Store[M]) Create(m *M) error {
	if err := s.db.Create(m).Error; err != nil {
		return err
	}
	logger.Audit(s.table(), (*m).PrimaryKey(), actionCreate, nil, m)
	return nil
}

// CreateBulk inserts records in one statement, preserving the input order.
// Downstream resolvers zip the result against their request list by position,
// so the order is part of the contract.
func (s *Store[M]) CreateBulk(ms []M) ([]M, error) {
	if len(ms) == 0 {
		return ms, nil
	}
	if err := s.db.Create(&ms).Error; err != nil {
		return nil, err
	}
	for i := range ms {
		logger.Audit(s.table(), ms[i].PrimaryKey(), actionCreate, nil, ms[i])
	}
	return ms, nil
}

// Update applies the given column changes to one record and refreshes it in
// place.
func (s *Store[M]) Update(m *M, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	previous := *m
	if err := s.db.Model(m).Updates(changes).Error; err != nil {
		return err
	}
	logger.Audit(s.table(), (*m).PrimaryKey(), actionUpdate, previous, changes)
	return nil
}

// UpdateBulk applies changes to every record matching the predicate. An empty
// predicate is rejected to prevent an accidental full-table rewrite.
func (s *Store[M]) UpdateBulk(query string, args []any, changes map[string]any) error {
	if strings.TrimSpace(query) == "" {
		return &apperr.NoFilterError{Model: s.table()}
	}
	current, err := s.Filter(query, args...)
	if err != nil {
		return err
	}
	if err := s.query().Where(query, args...).Updates(changes).Error; err != nil {
		return err
	}
	for i := range current {
		logger.Audit(s.table(), current[i].PrimaryKey(), actionUpdate, current[i], changes)
	}
	return nil
}

// Delete removes one record: a flag flip for soft stores, a row delete
// otherwise.
func (s *Store[M]) Delete(id uuid.UUID) (*M, error) {
	m, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if s.soft {
		// flip the flag directly so the mutation emits exactly one audit
		// record, the delete one
		if err := s.db.Model(m).Updates(map[string]any{"is_deleted": true}).Error; err != nil {
			return nil, err
		}
		logger.Audit(s.table(), id, actionDelete, map[string]any{"is_deleted": false}, map[string]any{"is_deleted": true})
		return m, nil
	}
	if err := s.db.Delete(m).Error; err != nil {
		return nil, err
	}
	logger.Audit(s.table(), id, actionDelete, m, nil)
	return m, nil
}

// Filter fetches records matching a predicate.
func (s *Store[M]) Filter(query string, args ...any) ([]M, error) {
	var ms []M
	err := s.query().Where(query, args...).Find(&ms).Error
	return ms, err
}

// FilterPage fetches an ordered page of records matching a predicate, along
// with the unpaginated total.
func (s *Store[M]) FilterPage(page Page, query string, args ...any) ([]M, int64, error) {
	q := s.query()
	if query != "" {
		q = q.Where(query, args...)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page.OrderBy != "" {
		dir := "ASC"
		if page.Desc {
			dir = "DESC"
		}
		q = q.Order(page.OrderBy + " " + dir)
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	if page.Offset > 0 {
		q = q.Offset(page.Offset)
	}
	var ms []M
	err := q.Find(&ms).Error
	return ms, total, err
}
