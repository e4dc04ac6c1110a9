package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// jsonColumn maps a document's field set onto a MySQL JSON column.
type jsonColumn []byte

func (j jsonColumn) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *jsonColumn) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	*j = append((*j)[0:0], s...)
	return nil
}

// documentRow is the storage shape: one row per document, keyed by
// collection name plus document id.
type documentRow struct {
	Collection string     `gorm:"primaryKey;size:64"`
	DocID      string     `gorm:"primaryKey;size:64;column:doc_id"`
	Fields     jsonColumn `gorm:"type:json"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

// GormStore persists documents in MySQL through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the documents table.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&documentRow{})
}

func (s *GormStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	var rows []documentRow
	if err := s.db.WithContext(ctx).Where("collection = ?", collection).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := rowToDocument(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *GormStore) GetByID(ctx context.Context, collection, id string) (Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return rowToDocument(row)
}

func (s *GormStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}
	row := documentRow{Collection: collection, DocID: id, Fields: data}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}
	return id, nil
}

// SetMerge merges the given top-level fields into the document, creating it
// when absent. The read-modify-write runs in a transaction so two merges to
// the same document cannot interleave mid-write; concurrent merges still
// resolve last-write-wins at the field level.
func (s *GormStore) SetMerge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow
		err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			data, merr := json.Marshal(fields)
			if merr != nil {
				return fmt.Errorf("encode %s/%s: %w", collection, id, merr)
			}
			row = documentRow{Collection: collection, DocID: id, Fields: data}
			if cerr := tx.Create(&row).Error; cerr != nil {
				return fmt.Errorf("create %s/%s: %w", collection, id, cerr)
			}
			return nil
		case err != nil:
			return fmt.Errorf("get %s/%s: %w", collection, id, err)
		}

		merged := make(map[string]interface{})
		if len(row.Fields) > 0 {
			if uerr := json.Unmarshal(row.Fields, &merged); uerr != nil {
				return fmt.Errorf("decode %s/%s: %w", collection, id, uerr)
			}
		}
		for k, v := range fields {
			merged[k] = v
		}
		data, merr := json.Marshal(merged)
		if merr != nil {
			return fmt.Errorf("encode %s/%s: %w", collection, id, merr)
		}
		update := tx.Model(&documentRow{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Update("fields", jsonColumn(data))
		if update.Error != nil {
			return fmt.Errorf("merge %s/%s: %w", collection, id, update.Error)
		}
		return nil
	})
}

// DeleteByID removes a document. Deleting a missing document is a no-op.
func (s *GormStore) DeleteByID(ctx context.Context, collection, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&documentRow{}).Error
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func rowToDocument(row documentRow) (Document, error) {
	fields := make(map[string]interface{})
	if len(row.Fields) > 0 {
		if err := json.Unmarshal(row.Fields, &fields); err != nil {
			return Document{}, fmt.Errorf("decode %s/%s: %w", row.Collection, row.DocID, err)
		}
	}
	return Document{ID: row.DocID, Fields: fields}, nil
}
