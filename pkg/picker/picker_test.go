package picker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liuhuapiaoyuan/activepieces/pkg/picker"
)

func TestPreviewDoesNotCommit(t *testing.T) {
	sel := picker.New("#112233")
	sel.Open()

	sel.Preview("#445566")
	assert.Equal(t, "#445566", sel.Current())
	assert.Equal(t, "#112233", sel.Saved())
}

func TestCloseDiscardsStagedValue(t *testing.T) {
	sel := picker.New("#112233")
	sel.Open()
	sel.Preview("#445566")

	sel.Close()
	assert.False(t, sel.IsOpen())
	assert.Equal(t, "#112233", sel.Saved())
	assert.Equal(t, "#112233", sel.Current())
}

func TestConfirmSavesOnceAndCloses(t *testing.T) {
	sel := picker.New("#112233")
	sel.Open()
	sel.Preview("#445566")

	var got []string
	sel.Confirm(func(hex string) {
		got = append(got, hex)
	})

	assert.Equal(t, []string{"#445566"}, got)
	assert.Equal(t, "#445566", sel.Saved())
	assert.False(t, sel.IsOpen())
}

func TestPreviewTruncatesLongInput(t *testing.T) {
	sel := picker.New("")
	sel.Preview("#11223344556677")
	assert.Equal(t, "#112233", sel.Current())
}

func TestParseHex(t *testing.T) {
	r, g, b, err := picker.ParseHex("#1A2B3C")
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x1A), r)
	assert.Equal(t, uint8(0x2B), g)
	assert.Equal(t, uint8(0x3C), b)

	r, g, b, err = picker.ParseHex("fff")
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xFF), r)
	assert.Equal(t, uint8(0xFF), g)
	assert.Equal(t, uint8(0xFF), b)

	_, _, _, err = picker.ParseHex("#12")
	assert.ErrorIs(t, err, picker.ErrInvalidHex)

	_, _, _, err = picker.ParseHex("#GGGGGG")
	assert.ErrorIs(t, err, picker.ErrInvalidHex)
}

func TestContrastColor(t *testing.T) {
	assert.Equal(t, "#000000", picker.ContrastColor("#FFFFFF"))
	assert.Equal(t, "#FFFFFF", picker.ContrastColor("#000000"))
	assert.Equal(t, "#FFFFFF", picker.ContrastColor("#1E3A8A"))
	assert.Equal(t, "#000000", picker.ContrastColor("#FDE047"))
	assert.Equal(t, "#000000", picker.ContrastColor("not-a-color"))
}
