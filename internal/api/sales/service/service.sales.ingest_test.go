// Package salessvc - Test đọc file xlsx/csv thành header + dòng dữ liệu.
package salessvc

import (
	"errors"
	"testing"

	"github.com/Nanford/crossborder-sales-analysis/internal/common"

	"github.com/xuri/excelize/v2"
)

func TestParseTabularFile_CSV(t *testing.T) {
	content := []byte("sku,名称,销量,销售额,周\nSKU-1,Áo thun,10,199.5,本周\nSKU-2,Quần jean,5,99,上周\n")

	header, rows, err := ParseTabularFile("weekly.csv", content)
	if err != nil {
		t.Fatalf("ParseTabularFile trả về lỗi: %v", err)
	}
	if len(header) != 5 || header[1] != "名称" {
		t.Errorf("header sai: %v", header)
	}
	if len(rows) != 2 || rows[0][0] != "SKU-1" || rows[1][3] != "99" {
		t.Errorf("rows sai: %v", rows)
	}
}

func TestParseTabularFile_CSVFlexibleColumns(t *testing.T) {
	// Dòng thiếu ô cuối không được làm hỏng parse
	content := []byte("sku,sales_volume,sales_amount,week\nSKU-1,1\n")
	_, rows, err := ParseTabularFile("data.csv", content)
	if err != nil {
		t.Fatalf("csv số cột linh hoạt phải được chấp nhận: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Errorf("rows sai: %v", rows)
	}
}

func TestParseTabularFile_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"sku", "名称", "销量", "销售额", "周"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"SKU-1", "Áo thun", 10, 199.5, "本周"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("không dựng được workbook test: %v", err)
	}

	header, rows, err := ParseTabularFile("weekly.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("ParseTabularFile trả về lỗi: %v", err)
	}
	if len(header) != 5 || header[0] != "sku" {
		t.Errorf("header sai: %v", header)
	}
	if len(rows) != 1 || rows[0][0] != "SKU-1" {
		t.Errorf("rows sai: %v", rows)
	}
}

func TestParseTabularFile_UnsupportedExtension(t *testing.T) {
	_, _, err := ParseTabularFile("data.txt", []byte("noop"))
	if !errors.Is(err, common.ErrUnsupportedFileType) {
		t.Errorf("muốn ErrUnsupportedFileType, nhận %v", err)
	}
}

func TestParseTabularFile_ExtensionCaseInsensitive(t *testing.T) {
	content := []byte("sku,week\nSKU-1,本周\n")
	if _, _, err := ParseTabularFile("DATA.CSV", content); err != nil {
		t.Errorf("đuôi file viết hoa phải được chấp nhận: %v", err)
	}
}

func TestParseTabularFile_EmptyCSV(t *testing.T) {
	_, _, err := ParseTabularFile("empty.csv", []byte(""))
	if !errors.Is(err, common.ErrEmptyFile) {
		t.Errorf("muốn ErrEmptyFile, nhận %v", err)
	}
}

func TestParseTabularFile_CorruptXLSX(t *testing.T) {
	_, _, err := ParseTabularFile("fake.xlsx", []byte("đây không phải zip"))
	if !errors.Is(err, common.ErrFileUnreadable) {
		t.Errorf("muốn ErrFileUnreadable, nhận %v", err)
	}
}
