package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

type shelf struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type widget struct {
	ID      uint `gorm:"primaryKey"`
	ShelfID uint
	Label   string
	Shelf   *shelf `gorm:"constraint:OnDelete:CASCADE"`
}

func tables() []migration.Table {
	return []migration.Table{
		{Name: "shelves", Model: &shelf{}},
		{Name: "widgets", Model: &widget{}},
	}
}

func TestRunner_FirstRunBuildsSchema(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	res, err := migration.NewWithTables(db, 1, tables()...).Run()
	require.NoError(t, err)
	assert.True(t, res.FirstBuild)
	assert.False(t, res.Recreated)

	st, err := migration.NewWithTables(db, 1, tables()...).Status()
	require.NoError(t, err)
	assert.True(t, st.Recorded)
	assert.Equal(t, 1, st.Version)
	assert.True(t, st.Tables["shelves"])
	assert.True(t, st.Tables["widgets"])
}

func TestRunner_SameVersionKeepsData(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	_, err = migration.NewWithTables(db, 2, tables()...).Run()
	require.NoError(t, err)
	require.NoError(t, db.Create(&shelf{Name: "top"}).Error)

	res, err := migration.NewWithTables(db, 2, tables()...).Run()
	require.NoError(t, err)
	assert.False(t, res.Recreated)

	var n int64
	require.NoError(t, db.Model(&shelf{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRunner_VersionChangeIsDestructive(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	_, err = migration.NewWithTables(db, 1, tables()...).Run()
	require.NoError(t, err)
	s := shelf{Name: "top"}
	require.NoError(t, db.Create(&s).Error)
	require.NoError(t, db.Create(&widget{ShelfID: s.ID, Label: "w"}).Error)

	res, err := migration.NewWithTables(db, 2, tables()...).Run()
	require.NoError(t, err)
	assert.True(t, res.Recreated)
	assert.Equal(t, 1, res.From)
	assert.Equal(t, 2, res.To)

	var n int64
	require.NoError(t, db.Model(&widget{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRunner_NoTables(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	_, err = migration.NewWithTables(db, 1).Run()
	assert.ErrorIs(t, err, migration.ErrNoTables)
}
