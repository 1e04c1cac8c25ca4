package models

import "math"

// Severity weights for the file-level risk score.
const (
	fileWeightCritical = 40
	fileWeightHigh     = 25
	fileWeightMedium   = 10
	fileWeightLow      = 5
)

// Severity weights for the folder-level risk score and file ranking.
const (
	folderWeightCritical = 10
	folderWeightHigh     = 5
	folderWeightMedium   = 2
	folderWeightLow      = 1
)

// perFileCeiling normalizes the folder score: a folder where every file
// carries 50 weighted points saturates at 100.
const perFileCeiling = 50

// FileRiskScore converts a file's severity histogram into a 0-100 score.
func FileRiskScore(c SeverityCounts) int {
	score := c.Critical*fileWeightCritical +
		c.High*fileWeightHigh +
		c.Medium*fileWeightMedium +
		c.Low*fileWeightLow
	if score > 100 {
		return 100
	}
	return score
}

// FolderRiskScore converts aggregate severity counts over totalFiles files
// into a 0-100 score. Zero files or zero issues score 0.
func FolderRiskScore(c SeverityCounts, totalFiles int) int {
	if totalFiles == 0 || c.Total() == 0 {
		return 0
	}
	weighted := c.Critical*folderWeightCritical +
		c.High*folderWeightHigh +
		c.Medium*folderWeightMedium +
		c.Low*folderWeightLow
	score := int(math.Round(100 * float64(weighted) / float64(totalFiles*perFileCeiling)))
	if score > 100 {
		return 100
	}
	return score
}
