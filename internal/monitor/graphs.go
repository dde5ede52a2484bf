package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '\u2800'

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// findMinMax returns the minimum and maximum values in a slice.
// For percentage data (all values 0-100), returns fixed range 0-100.
func findMinMax(data []float64) (minVal, maxVal float64, isPercentage bool) {
	if len(data) == 0 {
		return 0, 100, true
	}

	minVal, maxVal = data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	isPercentage = maxVal <= 100 && minVal >= 0
	if isPercentage {
		minVal = 0
		maxVal = 100
	}

	return minVal, maxVal, isPercentage
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3}, // Row 0: dots 1 and 4
	{1, 4}, // Row 1: dots 2 and 5
	{2, 5}, // Row 2: dots 3 and 6
	{6, 7}, // Row 3: dots 7 and 8
}

// RenderBrailleSparkline renders percentage data as a braille graph.
// Each character holds 2 data points horizontally and 4 levels vertically.
// Columns are colored by the severity of their highest value under lvl.
// Fewer points than the graph can hold are right-aligned so the newest
// sample is always at the right edge.
func RenderBrailleSparkline(data []float64, width, height int, lvl threshold.Level, theme Theme) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	totalDots := height * 4
	targetPoints := width * 2

	resampled := data
	if len(data) > targetPoints {
		resampled = resampleData(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	colMaxValues := make([]float64, width)

	horizOffset := targetPoints - len(resampled)
	if horizOffset < 0 {
		horizOffset = 0
	}

	for i, val := range resampled {
		normalized := normalizeValue(val, 0, 100)
		dotHeight := clampInt(int(normalized*float64(totalDots)), totalDots)
		// Non-zero values always show at least one dot.
		if dotHeight == 0 && val > 0 {
			dotHeight = 1
		}

		charCol := (i + horizOffset) / 2
		if charCol >= width {
			continue
		}
		if val > colMaxValues[charCol] {
			colMaxValues[charCol] = val
		}

		subCol := (i + horizOffset) % 2

		// Fill dots from bottom up
		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - (dot / 4)
			if row < 0 {
				continue
			}
			subRow := 3 - (dot % 4)
			bitOffset := brailleDots[subRow][subCol]
			grid[row][charCol] |= rune(1 << bitOffset)
		}
	}

	severities := make([]threshold.Severity, width)
	for i, v := range colMaxValues {
		severities[i] = threshold.Classify(v, lvl)
	}

	// Runs of equal severity share one styled span.
	lines := make([]string, 0, height)
	for _, row := range grid {
		var line strings.Builder
		start := 0
		for col := 1; col <= width; col++ {
			if col < width && severities[col] == severities[start] {
				continue
			}
			line.WriteString(theme.Paint(string(row[start:col]), severities[start]))
			start = col
		}
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

// RenderMiniSparkline renders a single-row sparkline using block characters.
// Non-percentage data (byte rates) is scaled to its own min and max.
func RenderMiniSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	minVal, maxVal, _ := findMinMax(data)
	resampled := resampleData(data, width)

	var result strings.Builder
	for _, val := range resampled {
		normalized := normalizeValue(val, minVal, maxVal)
		idx := clampInt(int(normalized*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		result.WriteRune(sparklineBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(ColorGraph).Render(result.String())
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	// Downsampling: use max within each bucket to preserve peaks
	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	// Upsampling: linear interpolation
	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}
