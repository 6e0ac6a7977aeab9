package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategoryCanonicalValue(t *testing.T) {
	category, ok := ParseCategory("Yarn")
	assert.True(t, ok)
	assert.Equal(t, CategoryYarn, category)
}

func TestParseCategoryIsCaseInsensitive(t *testing.T) {
	category, ok := ParseCategory("dYeInG")
	assert.True(t, ok)
	assert.Equal(t, CategoryDyeing, category)
}

func TestParseCategoryRejectsUnknownValue(t *testing.T) {
	category, ok := ParseCategory("Dirigibles")
	assert.False(t, ok)
	assert.Equal(t, Category(""), category)
}

func TestParseCategoryRejectsEmptyValue(t *testing.T) {
	_, ok := ParseCategory("")
	assert.False(t, ok)
}
