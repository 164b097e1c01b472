// Package salesdto chứa DTO cho domain Sales (truy vấn tuần/tháng, phân trang).
package salesdto

// WeekQuery query cho các endpoint tuần một kỳ: week (nhãn kỳ), limit.
type WeekQuery struct {
	Week  string `query:"week" validate:"omitempty,no_xss"` // Nhãn tuần (vd: 本周); rỗng = 本周
	Limit int    `query:"limit"`                            // Số dòng tối đa; <=0 = mặc định
}

// WeekComparisonQuery query cho các endpoint so sánh hai kỳ tuần.
type WeekComparisonQuery struct {
	Current  string `query:"current" validate:"omitempty,no_xss"`  // Nhãn kỳ hiện tại; rỗng = 本周
	Previous string `query:"previous" validate:"omitempty,no_xss"` // Nhãn kỳ trước; rỗng = 上周
	Limit    int    `query:"limit"`                                // Số dòng tối đa; <=0 = mặc định
}

// MonthQuery query cho các endpoint tháng một kỳ: month dạng YYYY-MM.
type MonthQuery struct {
	Month string `query:"month" validate:"omitempty,month_label"` // Nhãn tháng; rỗng = tháng mới nhất
	Limit int    `query:"limit"`                                  // Số dòng tối đa; <=0 = mặc định
}

// MonthComparisonQuery query cho các endpoint so sánh hai tháng.
// Cả hai rỗng = tự chọn hai tháng mới nhất trong dữ liệu.
type MonthComparisonQuery struct {
	CurrentMonth  string `query:"current_month" validate:"omitempty,month_label"`
	PreviousMonth string `query:"previous_month" validate:"omitempty,month_label"`
	Limit         int    `query:"limit"` // Số dòng tối đa; <=0 = mặc định
}

// RecordsQuery query cho GET danh sách bản ghi thô có phân trang.
type RecordsQuery struct {
	Week  string `query:"week" validate:"omitempty,no_xss"` // Lọc theo nhãn tuần (optional)
	Page  int64  `query:"page"`                             // Trang, mặc định 1
	Limit int64  `query:"limit"`                            // Kích thước trang, mặc định 50, max 200
}
