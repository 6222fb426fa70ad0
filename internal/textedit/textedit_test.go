package textedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertBreakAtCaret(t *testing.T) {
	// Caret between a and b.
	out, caret := InsertBreak("ab", 1, 1)
	assert.Equal(t, "a\nb", out)
	assert.Equal(t, 2, caret)
}

func TestInsertBreakReplacesSelection(t *testing.T) {
	out, caret := InsertBreak("hello world", 5, 11)
	assert.Equal(t, "hello\n", out)
	assert.Equal(t, 6, caret)
}

func TestInsertBreakAtEnds(t *testing.T) {
	out, caret := InsertBreak("abc", 0, 0)
	assert.Equal(t, "\nabc", out)
	assert.Equal(t, 1, caret)

	out, caret = InsertBreak("abc", 3, 3)
	assert.Equal(t, "abc\n", out)
	assert.Equal(t, 4, caret)
}

func TestInsertBreakEmptyValue(t *testing.T) {
	out, caret := InsertBreak("", 0, 0)
	assert.Equal(t, "\n", out)
	assert.Equal(t, 1, caret)
}

func TestInsertBreakClampsOffsets(t *testing.T) {
	out, caret := InsertBreak("ab", 5, 99)
	assert.Equal(t, "ab\n", out)
	assert.Equal(t, 3, caret)

	out, caret = InsertBreak("ab", -3, -1)
	assert.Equal(t, "\nab", out)
	assert.Equal(t, 1, caret)
}

func TestInsertBreakReversedSelection(t *testing.T) {
	out, caret := InsertBreak("abcd", 3, 1)
	assert.Equal(t, "a\nd", out)
	assert.Equal(t, 2, caret)
}

func TestInsertBreakUTF16Offsets(t *testing.T) {
	// "😀" is two UTF-16 code units; DOM selection offsets count units.
	out, caret := InsertBreak("😀b", 2, 2)
	assert.Equal(t, "😀\nb", out)
	assert.Equal(t, 3, caret)
}
