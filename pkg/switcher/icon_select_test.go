package switcher

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildIconContainer assembles a syntactically valid container whose image
// data regions are just the stored width repeated, so tests can tell which
// entry was picked
func buildIconContainer(t *testing.T, widths ...int) []byte {
	t.Helper()

	const imageSize = 8

	header := make([]byte, icoHeaderSize)
	binary.LittleEndian.PutUint16(header[2:4], icoTypeIcon)
	binary.LittleEndian.PutUint16(header[4:6], uint16(len(widths)))

	directory := make([]byte, 0, len(widths)*icoEntrySize)
	images := make([]byte, 0, len(widths)*imageSize)
	offset := icoHeaderSize + len(widths)*icoEntrySize

	for _, width := range widths {
		entry := make([]byte, icoEntrySize)

		stored := width
		if stored == 256 {
			stored = 0
		}
		entry[0] = byte(stored)

		binary.LittleEndian.PutUint32(entry[8:12], imageSize)
		binary.LittleEndian.PutUint32(entry[12:16], uint32(offset))
		directory = append(directory, entry...)

		for i := 0; i < imageSize; i++ {
			images = append(images, byte(width))
		}
		offset += imageSize
	}

	container := append(header, directory...)
	return append(container, images...)
}

func pickedWidth(t *testing.T, image []byte) int {
	t.Helper()
	require.NotEmpty(t, image)
	return int(image[0])
}

func TestSelectIconImage(t *testing.T) {
	container := buildIconContainer(t, 8, 16, 32, 48, 256)

	tests := []struct {
		name        string
		targetWidth int
		wantWidth   int
	}{
		{"exact match", 16, 16},
		{"smallest not below target", 20, 32},
		// the 256px entry stores width 0, which is also its marker byte
		{"nothing large enough falls back to largest", 300, 0},
		{"target below all picks exact smallest", 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image, err := SelectIconImage(container, tt.targetWidth)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, pickedWidth(t, image))
		})
	}
}

func TestSelectIconImageZeroWidthMeans256(t *testing.T) {
	container := buildIconContainer(t, 16, 256)

	image, err := SelectIconImage(container, 200)
	require.NoError(t, err)

	// the 256px entry stores width 0, so its marker byte is 0 as well
	assert.Equal(t, 0, pickedWidth(t, image))
}

func TestSelectIconImageOrderIndependent(t *testing.T) {
	forward := buildIconContainer(t, 16, 32)
	reversed := buildIconContainer(t, 32, 16)

	a, err := SelectIconImage(forward, 16)
	require.NoError(t, err)
	b, err := SelectIconImage(reversed, 16)
	require.NoError(t, err)

	assert.Equal(t, pickedWidth(t, a), pickedWidth(t, b))
}

func TestSelectIconImageRejectsBadContainers(t *testing.T) {
	t.Run("truncated header", func(t *testing.T) {
		_, err := SelectIconImage([]byte{0, 0, 1}, 16)
		assert.Error(t, err)
	})

	t.Run("wrong resource type", func(t *testing.T) {
		container := buildIconContainer(t, 16)
		binary.LittleEndian.PutUint16(container[2:4], 2) // cursor, not icon
		_, err := SelectIconImage(container, 16)
		assert.Error(t, err)
	})

	t.Run("no entries", func(t *testing.T) {
		container := make([]byte, icoHeaderSize)
		binary.LittleEndian.PutUint16(container[2:4], icoTypeIcon)
		_, err := SelectIconImage(container, 16)
		assert.ErrorIs(t, err, errEmptyIconContainer)
	})

	t.Run("truncated directory", func(t *testing.T) {
		container := buildIconContainer(t, 16, 32)
		_, err := SelectIconImage(container[:icoHeaderSize+icoEntrySize], 16)
		assert.Error(t, err)
	})

	t.Run("image data out of bounds", func(t *testing.T) {
		container := buildIconContainer(t, 16)
		binary.LittleEndian.PutUint32(container[icoHeaderSize+12:icoHeaderSize+16], uint32(len(container)))
		_, err := SelectIconImage(container, 16)
		assert.Error(t, err)
	})
}
