package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []Row {
	return []Row{
		{English: "cat", Translation: "кот", Category: "Животные"},
		{English: "apple", Translation: "яблоко", Category: "Еда"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "English,Russian,Category", lines[0])
	assert.Equal(t, "cat,кот,Животные", lines[1])
	assert.Equal(t, "apple,яблоко,Еда", lines[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "English,Russian,Category\n", buf.String())
}

func TestReadCSV_SkipsHeaderAndBlankLines(t *testing.T) {
	input := "English,Russian,Category\ncat,кот,Животные\n\napple,яблоко\n"
	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Record{English: "cat", Translation: "кот", Category: "Животные", Line: 2}, records[0])
	assert.Equal(t, Record{English: "apple", Translation: "яблоко", Line: 3}, records[1])
}

func TestReadCSV_NoHeader(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("cat,кот,Животные\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cat", records[0].English)
}

func TestReadCSV_TrimsWhitespace(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(" cat , кот , Животные \n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cat", records[0].English)
	assert.Equal(t, "кот", records[0].Translation)
	assert.Equal(t, "Животные", records[0].Category)
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRows()))

	records, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "cat", records[0].English)
	assert.Equal(t, "кот", records[0].Translation)
	assert.Equal(t, "Животные", records[0].Category)
	assert.Equal(t, "apple", records[1].English)
}
