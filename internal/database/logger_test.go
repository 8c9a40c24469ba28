package database

import (
	"fmt"
	"testing"

	"tokostore/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingWriter struct {
	lines []string
}

func (w *recordingWriter) Printf(format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func TestGormLoggerIgnoresRecordNotFound(t *testing.T) {
	w := &recordingWriter{}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: newGormLogger(w)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	w.lines = nil

	var product models.Product
	err = db.First(&product, "id = ?", "missing").Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, w.lines, "a miss must not be logged")

	err = db.Exec("SELECT * FROM no_such_table").Error
	assert.Error(t, err)
	assert.NotEmpty(t, w.lines, "a failing query is logged")
}
