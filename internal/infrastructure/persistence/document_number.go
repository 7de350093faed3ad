package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// nextDocumentNumber produces the next sequential document number for a
// tenant, formatted <prefix>-YYYY-NNNNN. The sequence restarts every year.
// Concurrent writers may race on the same number; the unique index on the
// number column turns that race into a retryable insert failure.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, table, column string, tenantID uuid.UUID, prefix string) (string, error) {
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, time.Now().Year())

	var last string
	err := db.WithContext(ctx).
		Table(table).
		Select(column).
		Where("tenant_id = ? AND "+column+" LIKE ?", tenantID, yearPrefix+"%").
		Order(column + " DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var next int64 = 1
	if last != "" {
		parts := strings.Split(last, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				next = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", yearPrefix, next), nil
}
