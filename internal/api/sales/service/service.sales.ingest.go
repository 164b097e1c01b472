package salessvc

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/Nanford/crossborder-sales-analysis/internal/common"

	"github.com/xuri/excelize/v2"
)

// ParseTabularFile đọc nội dung file xlsx/xls/xlsm hoặc csv thành header + các dòng dữ liệu.
// Đuôi file quyết định parser; đuôi khác bị từ chối trước khi đọc nội dung.
func ParseTabularFile(filename string, content []byte) (header []string, rows [][]string, err error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls", ".xlsm":
		return parseExcel(content)
	case ".csv":
		return parseCSV(content)
	default:
		return nil, nil, common.ErrUnsupportedFileType
	}
}

// parseExcel đọc sheet đầu tiên của workbook. Dòng đầu là tiêu đề.
func parseExcel(content []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, nil, common.ErrFileUnreadable
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, common.ErrEmptyFile
	}

	allRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, common.ErrFileUnreadable
	}
	if len(allRows) == 0 {
		return nil, nil, common.ErrEmptyFile
	}

	return allRows[0], allRows[1:], nil
}

// parseCSV đọc file csv với số cột linh hoạt (dòng thiếu ô vẫn được chấp nhận).
func parseCSV(content []byte) ([]string, [][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var allRows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, common.ErrFileUnreadable
		}
		allRows = append(allRows, record)
	}
	if len(allRows) == 0 {
		return nil, nil, common.ErrEmptyFile
	}

	return allRows[0], allRows[1:], nil
}
