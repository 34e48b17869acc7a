package pagination

import (
	"fmt"

	"recipe-finder/internal/pkg/common"
)

// Paginate 將有序序列切成每頁最多 pageSize 筆的連續頁面
//
// 頁數為 ceil(len(items)/pageSize)，最後一頁可能較短；空序列回傳零頁。
// pageSize < 1 屬於呼叫端違約，回傳 common.ErrInvalidArgument。
func Paginate[T any](items []T, pageSize int) ([][]T, error) {
	if pageSize < 1 {
		return nil, common.ErrInvalidArgument.Wrap(fmt.Errorf("page size must be positive, got %d", pageSize))
	}

	pages := make([][]T, 0, (len(items)+pageSize-1)/pageSize)
	for start := 0; start < len(items); start += pageSize {
		end := min(start+pageSize, len(items))
		pages = append(pages, items[start:end:end])
	}
	return pages, nil
}

// Formatter 固定頁面大小的分頁器，頁面大小在建立時驗證
type Formatter struct {
	pageSize int
}

// NewFormatter 創建分頁器
func NewFormatter(pageSize int) (*Formatter, error) {
	if pageSize < 1 {
		return nil, common.ErrInvalidArgument.Wrap(fmt.Errorf("page size must be positive, got %d", pageSize))
	}
	return &Formatter{pageSize: pageSize}, nil
}

// PageSize 回傳頁面大小
func (f *Formatter) PageSize() int {
	return f.pageSize
}

// Rows 將選項切成鍵盤列
func (f *Formatter) Rows(labels []string) [][]string {
	// pageSize 已於建立時驗證
	rows, _ := Paginate(labels, f.pageSize)
	return rows
}
