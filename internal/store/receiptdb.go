package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"jweber/bonscan/internal/models"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const (
	receiptBucket       = "receipts"
	categoryCountBucket = "category_counts"
)

// BoltReceiptStore persists parsed receipts in a bbolt database. It
// implements the pipeline's Repository contract: the parsing core never
// manages transactions itself, it hands structured results to this layer.
type BoltReceiptStore struct {
	db *bbolt.DB
}

// NewBoltReceiptStore opens (or creates) the receipt database at path.
func NewBoltReceiptStore(path string) (*BoltReceiptStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening receipt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(receiptBucket)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(categoryCountBucket)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("creating buckets: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltReceiptStore{db: db}, nil
}

// AddReceipt stores a receipt and returns its assigned ID. An ID already set
// on the receipt is kept, so a re-save after appending items is an update.
func (s *BoltReceiptStore) AddReceipt(receipt *models.ParsedReceipt) (string, error) {
	if receipt.ID == "" {
		receipt.ID = uuid.NewString()
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucket))
		data, err := json.Marshal(receipt)
		if err != nil {
			return fmt.Errorf("marshaling receipt: %w", err)
		}
		return bucket.Put([]byte(receipt.ID), data)
	})
	if err != nil {
		return "", err
	}
	return receipt.ID, nil
}

// AddItems appends items to a stored receipt and re-saves it.
func (s *BoltReceiptStore) AddItems(receiptID string, items []models.ReceiptItem) error {
	receipt, err := s.GetReceipt(receiptID)
	if err != nil {
		return err
	}
	receipt.Items = append(receipt.Items, items...)
	_, err = s.AddReceipt(receipt)
	return err
}

// GetReceipt retrieves a receipt by ID.
func (s *BoltReceiptStore) GetReceipt(id string) (*models.ParsedReceipt, error) {
	var receipt *models.ParsedReceipt
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucket))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("receipt not found: %s", id)
		}
		return json.Unmarshal(data, &receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// DeleteReceipt removes a receipt, typically after a failed extraction so no
// orphaned partial data remains.
func (s *BoltReceiptStore) DeleteReceipt(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucket))
		return bucket.Delete([]byte(id))
	})
}

// IncrementCategoryCount bumps the usage counter for a category.
func (s *BoltReceiptStore) IncrementCategoryCount(category models.Category) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(categoryCountBucket))
		key := []byte(category)
		count := uint64(0)
		if data := bucket.Get(key); len(data) == 8 {
			count = binary.BigEndian.Uint64(data)
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, count+1)
		return bucket.Put(key, buf)
	})
}

// DecrementCategoryCount lowers the usage counter for a category, flooring
// at zero. Re-extraction uses it when a fresh attempt replaces items whose
// categories were already counted.
func (s *BoltReceiptStore) DecrementCategoryCount(category models.Category) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(categoryCountBucket))
		key := []byte(category)
		count := uint64(0)
		if data := bucket.Get(key); len(data) == 8 {
			count = binary.BigEndian.Uint64(data)
		}
		if count > 0 {
			count--
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, count)
		return bucket.Put(key, buf)
	})
}

// CategoryCount reads the usage counter for a category.
func (s *BoltReceiptStore) CategoryCount(category models.Category) (uint64, error) {
	var count uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(categoryCountBucket))
		if data := bucket.Get([]byte(category)); len(data) == 8 {
			count = binary.BigEndian.Uint64(data)
		}
		return nil
	})
	return count, err
}

// Close closes the underlying database.
func (s *BoltReceiptStore) Close() error {
	return s.db.Close()
}
