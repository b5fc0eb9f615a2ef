package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	ColumnName        = "Name"
	ColumnSkillset    = "Skillset"
	ColumnLevel       = "Skillset Level"
	ColumnDescription = "Skillsets.Description"
	ColumnCategory    = "Skillsets.Category"
)

var RequiredColumns = []string{ColumnName, ColumnSkillset, ColumnLevel}

var (
	ErrEmptySheet     = errors.New("the Excel file is empty")
	ErrUnreadableFile = errors.New("unable to read the Excel file")
)

type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "Missing required columns: " + strings.Join(e.Columns, ", ")
}

// Sheet 是工作簿第一个工作表的内容，第一行为表头
type Sheet struct {
	Header []string
	Rows   [][]string

	columns map[string]int
}

// ReadSheet 只支持 OOXML 格式的工作簿
func ReadSheet(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptySheet
	}

	return newSheet(rows), nil
}

func newSheet(rows [][]string) *Sheet {
	sheet := &Sheet{
		Header:  rows[0],
		Rows:    rows[1:],
		columns: make(map[string]int, len(rows[0])),
	}
	for i, name := range sheet.Header {
		// 重复的列名以第一次出现的为准
		if _, ok := sheet.columns[name]; !ok {
			sheet.columns[name] = i
		}
	}
	return sheet
}

func (s *Sheet) HasColumn(name string) bool {
	_, ok := s.columns[name]
	return ok
}

func (s *Sheet) MissingColumns(required []string) []string {
	missing := make([]string, 0)
	for _, col := range required {
		if !s.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Value 返回某行某列的值，列不存在或该行较短时返回空字符串
func (s *Sheet) Value(row []string, column string) string {
	idx, ok := s.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
