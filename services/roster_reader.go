// services/roster_reader.go - Faculty roster workbook parsing
package services

import (
	"fmt"
	"strings"
)

// ParseFacultyRoster reads faculty records from an uploaded XLSX workbook.
// The header row is located by its "name" column, so leading title rows are
// tolerated; department and position columns are optional.
func ParseFacultyRoster(data []byte) ([]*FacultyRecord, error) {
	rows, err := readXLSXRows(data)
	if err != nil {
		return nil, fmt.Errorf("read roster workbook: %w", err)
	}

	headerIdx, nameCol, deptCol, posCol := locateRosterHeader(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("no header row with a name column found")
	}

	var records []*FacultyRecord
	for _, row := range rows[headerIdx+1:] {
		name := cellAt(row, nameCol)
		if name == "" {
			continue
		}
		records = append(records, &FacultyRecord{
			Name:         name,
			Department:   cellAt(row, deptCol),
			Position:     cellAt(row, posCol),
			NameVariants: GenerateNameVariants(name),
		})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("roster workbook has no data rows")
	}
	return records, nil
}

// locateRosterHeader scans the leading rows for the header and resolves the
// column positions. Returns headerIdx -1 when no name column exists.
func locateRosterHeader(rows [][]string) (headerIdx, nameCol, deptCol, posCol int) {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		nameCol, deptCol, posCol = -1, -1, -1
		for j, cell := range rows[i] {
			h := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case nameCol < 0 && strings.Contains(h, "name") && !strings.Contains(h, "department"):
				nameCol = j
			case deptCol < 0 && strings.Contains(h, "department"):
				deptCol = j
			case posCol < 0 && strings.Contains(h, "position"):
				posCol = j
			}
		}
		if nameCol >= 0 {
			return i, nameCol, deptCol, posCol
		}
	}
	return -1, -1, -1, -1
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
