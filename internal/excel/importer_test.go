package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnIndex(t *testing.T) {
	assert.Equal(t, 0, columnIndex("A"))
	assert.Equal(t, 1, columnIndex("B"))
	assert.Equal(t, 25, columnIndex("Z"))
	assert.Equal(t, 26, columnIndex("AA"))
	assert.Equal(t, 0, columnIndex(" a "))
	assert.Equal(t, -1, columnIndex(""))
	assert.Equal(t, -1, columnIndex("1"))
}

func TestCellValue(t *testing.T) {
	row := []string{" hola ", "hello", ""}
	assert.Equal(t, "hola", cellValue(row, "A"))
	assert.Equal(t, "hello", cellValue(row, "B"))
	assert.Equal(t, "", cellValue(row, "C"))
	assert.Equal(t, "", cellValue(row, "F"), "short rows read as empty")
}
