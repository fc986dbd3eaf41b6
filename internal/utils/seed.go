package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"marketplace-properties/internal/models"
)

// SeedData is the file format accepted by the memory driver.
type SeedData struct {
	Properties []models.Property         `json:"properties"`
	Photos     []models.Photo            `json:"photos"`
	Appraisals []models.AppraisalSummary `json:"appraisals"`
}

// ReadSeedData loads listings, photos and appraisals from a JSON file.
func ReadSeedData(filename string) (*SeedData, error) {
	filePath, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var result SeedData
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", filePath, err)
	}
	return &result, nil
}
