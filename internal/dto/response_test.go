package dto

import "testing"

func TestPaginationRequest(t *testing.T) {
	tests := []struct {
		name               string
		req                PaginationRequest
		page, size, offset int
	}{
		{"defaults", PaginationRequest{}, 1, 20, 0},
		{"explicit", PaginationRequest{Page: 3, PageSize: 10}, 3, 10, 20},
		{"negative", PaginationRequest{Page: -1, PageSize: -5}, 1, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.GetPage(); got != tt.page {
				t.Errorf("GetPage=%d, want %d", got, tt.page)
			}
			if got := tt.req.GetPageSize(); got != tt.size {
				t.Errorf("GetPageSize=%d, want %d", got, tt.size)
			}
			if got := tt.req.GetOffset(); got != tt.offset {
				t.Errorf("GetOffset=%d, want %d", got, tt.offset)
			}
		})
	}
}
