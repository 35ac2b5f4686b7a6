// services/faculty_service.go - Faculty roster storage
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"research-metrics-api/models"

	"gorm.io/gorm"
)

// FacultyRepository supplies the roster the attribution pipeline matches
// against. The implementation is chosen once at process start: the database
// service in the API, a static roster in the CLI tools.
type FacultyRepository interface {
	ListAll(ctx context.Context) ([]*FacultyRecord, error)
}

// StaticRoster is an in-memory FacultyRepository.
type StaticRoster []*FacultyRecord

func (r StaticRoster) ListAll(context.Context) ([]*FacultyRecord, error) { return r, nil }

// FacultyService stores the roster in the faculty table. Name variants are
// regenerated on every write that touches the name.
type FacultyService struct {
	db *gorm.DB
}

func NewFacultyService(db *gorm.DB) *FacultyService {
	return &FacultyService{db: db}
}

// ListAll returns the full roster in matcher form.
func (s *FacultyService) ListAll(ctx context.Context) ([]*FacultyRecord, error) {
	var rows []models.Faculty
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]*FacultyRecord, 0, len(rows))
	for i := range rows {
		records = append(records, facultyModelToRecord(&rows[i]))
	}
	return records, nil
}

func facultyModelToRecord(m *models.Faculty) *FacultyRecord {
	rec := &FacultyRecord{
		ID:         m.ID,
		Name:       m.Name,
		Department: m.Department,
		Position:   m.Position,
	}
	if len(m.NameVariants) > 0 {
		if err := json.Unmarshal(m.NameVariants, &rec.NameVariants); err != nil {
			rec.NameVariants = nil
		}
	}
	if len(rec.NameVariants) == 0 {
		rec.NameVariants = GenerateNameVariants(m.Name)
	}
	return rec
}

func variantsJSON(name string) []byte {
	data, err := json.Marshal(GenerateNameVariants(name))
	if err != nil {
		return nil
	}
	return data
}

// Count returns the roster size.
func (s *FacultyService) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Faculty{}).Count(&count).Error
	return count, err
}

// DistinctDepartments lists the departments present in the roster.
func (s *FacultyService) DistinctDepartments(ctx context.Context) ([]string, error) {
	var departments []string
	err := s.db.WithContext(ctx).Model(&models.Faculty{}).
		Distinct("department").
		Where("department <> ''").
		Order("department").
		Pluck("department", &departments).Error
	return departments, err
}

// GetByID fetches one faculty row.
func (s *FacultyService) GetByID(ctx context.Context, id uint64) (*models.Faculty, error) {
	var row models.Faculty
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Add inserts a faculty member. With skipDuplicate set, an existing member
// with the same name and department is returned unchanged instead of being
// duplicated; the second return value reports whether a row was created.
func (s *FacultyService) Add(ctx context.Context, name, department, position string, skipDuplicate bool) (*models.Faculty, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, errors.New("faculty name is required")
	}

	if skipDuplicate {
		var existing models.Faculty
		err := s.db.WithContext(ctx).
			Where("name = ? AND department = ?", name, strings.TrimSpace(department)).
			First(&existing).Error
		if err == nil {
			return &existing, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	row := &models.Faculty{
		Name:         name,
		Department:   strings.TrimSpace(department),
		Position:     strings.TrimSpace(position),
		NameVariants: variantsJSON(name),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// Update rewrites a faculty row. Variants follow the new name.
func (s *FacultyService) Update(ctx context.Context, id uint64, name, department, position string) (*models.Faculty, error) {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("faculty name is required")
	}

	row.Name = name
	row.Department = strings.TrimSpace(department)
	row.Position = strings.TrimSpace(position)
	row.NameVariants = variantsJSON(name)

	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a faculty row.
func (s *FacultyService) Delete(ctx context.Context, id uint64) error {
	result := s.db.WithContext(ctx).Delete(&models.Faculty{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ImportSummary reports the outcome of a roster import.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Cleared  int `json:"cleared"`
}

// ImportRecords loads a parsed roster into the table. clearExisting wipes the
// table first; skipDuplicates keeps the first of any repeated name within the
// same department.
func (s *FacultyService) ImportRecords(ctx context.Context, records []*FacultyRecord, clearExisting, skipDuplicates bool) (*ImportSummary, error) {
	summary := &ImportSummary{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clearExisting {
			result := tx.Where("1 = 1").Delete(&models.Faculty{})
			if result.Error != nil {
				return result.Error
			}
			summary.Cleared = int(result.RowsAffected)
		}

		for _, rec := range records {
			name := strings.TrimSpace(rec.Name)
			if name == "" {
				summary.Skipped++
				continue
			}

			if skipDuplicates {
				var count int64
				if err := tx.Model(&models.Faculty{}).
					Where("name = ? AND department = ?", name, strings.TrimSpace(rec.Department)).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					summary.Skipped++
					continue
				}
			}

			row := &models.Faculty{
				Name:         name,
				Department:   strings.TrimSpace(rec.Department),
				Position:     strings.TrimSpace(rec.Position),
				NameVariants: variantsJSON(name),
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			summary.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import faculty records: %w", err)
	}
	return summary, nil
}

// RefreshVariants regenerates stored name variants for every row.
func (s *FacultyService) RefreshVariants(ctx context.Context) (int, error) {
	var rows []models.Faculty
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return 0, err
	}

	updated := 0
	for i := range rows {
		rows[i].NameVariants = variantsJSON(rows[i].Name)
		if err := s.db.WithContext(ctx).Model(&rows[i]).
			Update("name_variants", rows[i].NameVariants).Error; err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
