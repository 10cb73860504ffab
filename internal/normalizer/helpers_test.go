package normalizer

import "sheetsync/internal/models"

const testDriveURL = "https://drive.google.com/file/d/" + testDriveID + "/view"

// completedRecord builds an accepted record with one Vocals PDF.
func completedRecord(row int, title string, extra map[string]string) models.RawRecord {
	rec := models.NewRawRecord(row)
	rec.Cells[ColumnTitle] = title
	rec.Cells[ColumnStatus] = "Completed"
	rec.Cells["Vocals"] = testDriveURL

	for k, v := range extra {
		rec.Cells[k] = v
	}

	return rec
}
