package services

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/slicelab/pizzeria-api/models"
	"github.com/slicelab/pizzeria-api/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Single connection so concurrent writes serialize instead of hitting
	// sqlite's locked-database errors.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.CatalogItem{}, &models.Order{}, &models.OrderItem{}))
	return db
}

// recordingMailer captures outbound mail instead of talking to a relay.
type recordingMailer struct {
	mu    sync.Mutex
	sends []recordedMail
}

type recordedMail struct {
	To      string
	Subject string
	Data    utils.EmailData
}

func (m *recordingMailer) Send(to, subject string, data utils.EmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, recordedMail{To: to, Subject: subject, Data: data})
	return nil
}

func (m *recordingMailer) Sent() []recordedMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]recordedMail, len(m.sends))
	copy(out, m.sends)
	return out
}

func seedItem(t *testing.T, db *gorm.DB, category models.Category, name string, price float64, quantity, threshold int) models.CatalogItem {
	t.Helper()
	item := models.CatalogItem{
		Category:  category,
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		Threshold: threshold,
		Available: true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		Name:       "Test Customer",
		Email:      email,
		Password:   "not-a-real-hash",
		Role:       "customer",
		IsVerified: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
