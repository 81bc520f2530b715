package switcher

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ICO container layout: a 6-byte header (reserved, type, entry count)
// followed by 16-byte directory entries. A stored width of 0 means 256.
const (
	icoHeaderSize = 6
	icoEntrySize  = 16
	icoTypeIcon   = 1
)

var errEmptyIconContainer = errors.New("icon container holds no images")

// SelectIconImage picks the best-fitting image out of a multi-resolution
// icon container and returns its raw data region. An exact width match wins;
// otherwise the smallest width >= targetWidth (shrinking a larger bitmap
// beats stretching a smaller one); otherwise the largest available width.
func SelectIconImage(ico []byte, targetWidth int) ([]byte, error) {
	if len(ico) < icoHeaderSize {
		return nil, fmt.Errorf("icon container truncated: %d bytes", len(ico))
	}

	if imageType := binary.LittleEndian.Uint16(ico[2:4]); imageType != icoTypeIcon {
		return nil, fmt.Errorf("not an icon container: resource type %d", imageType)
	}

	count := int(binary.LittleEndian.Uint16(ico[4:6]))
	if count == 0 {
		return nil, errEmptyIconContainer
	}

	if len(ico) < icoHeaderSize+count*icoEntrySize {
		return nil, fmt.Errorf("icon directory truncated: %d entries declared, %d bytes total", count, len(ico))
	}

	bestWidth := -1
	var bestOffset, bestSize int

	for i := 0; i < count; i++ {
		entry := ico[icoHeaderSize+i*icoEntrySize:]

		width := int(entry[0])
		if width == 0 {
			width = 256
		}

		if !betterFit(width, bestWidth, targetWidth) {
			continue
		}

		bestWidth = width
		bestSize = int(binary.LittleEndian.Uint32(entry[8:12]))
		bestOffset = int(binary.LittleEndian.Uint32(entry[12:16]))
	}

	if bestOffset < 0 || bestSize < 0 || bestOffset+bestSize > len(ico) {
		return nil, fmt.Errorf("icon image out of bounds: offset %d size %d in %d-byte container", bestOffset, bestSize, len(ico))
	}

	return ico[bestOffset : bestOffset+bestSize], nil
}

// betterFit reports whether an entry of the given width beats the current
// best candidate for the target width. best == -1 means no candidate yet.
func betterFit(width, best, target int) bool {
	switch {
	case best == -1:
		return true
	case best == target:
		return false
	case width == target:
		return true
	case width >= target && best >= target:
		return width < best
	case width >= target:
		return true
	case best >= target:
		return false
	default:
		return width > best
	}
}
