package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/JaimeStill/jurispanel/pkg/pagination"
	"github.com/JaimeStill/jurispanel/pkg/query"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("JP_PAGE_SIZE", "50")

	cfg := pagination.Config{}
	if err := cfg.Finalize(&pagination.ConfigEnv{DefaultPageSize: "JP_PAGE_SIZE"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.DefaultPageSize != 50 || cfg.MaxPageSize != 100 {
		t.Errorf("config = %+v", cfg)
	}

	bad := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error when default exceeds max")
	}

	merged := defaultConfig()
	merged.Merge(&pagination.Config{MaxPageSize: 1000})
	if merged.DefaultPageSize != 20 || merged.MaxPageSize != 1000 {
		t.Errorf("merge = %+v", merged)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
		wantSearch   string
		wantSort     int
	}{
		{"empty", "", 1, 20, "", 0},
		{"explicit", "page=3&page_size=10&search=turma&sort=-createdAt,orgao", 3, 10, "turma", 2},
		{"clamped", "page=-1&page_size=5000", 1, 100, "", 0},
		{"garbage", "page=abc&page_size=xyz", 1, 20, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req := pagination.PageRequestFromQuery(values, defaultConfig())

			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("page/size = %d/%d, want %d/%d", req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
			search := ""
			if req.Search != nil {
				search = *req.Search
			}
			if search != tt.wantSearch {
				t.Errorf("search = %q, want %q", search, tt.wantSearch)
			}
			if len(req.Sort) != tt.wantSort {
				t.Errorf("sort = %v, want %d fields", req.Sort, tt.wantSort)
			}
		})
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	var fromString struct {
		Sort pagination.SortFields `json:"sort"`
	}
	if err := json.Unmarshal([]byte(`{"sort":"-createdAt"}`), &fromString); err != nil {
		t.Fatal(err)
	}
	if len(fromString.Sort) != 1 || fromString.Sort[0] != (query.SortField{Field: "createdAt", Descending: true}) {
		t.Errorf("string form = %v", fromString.Sort)
	}

	var fromArray struct {
		Sort pagination.SortFields `json:"sort"`
	}
	if err := json.Unmarshal([]byte(`{"sort":[{"field":"orgao"}]}`), &fromArray); err != nil {
		t.Fatal(err)
	}
	if len(fromArray.Sort) != 1 || fromArray.Sort[0].Field != "orgao" {
		t.Errorf("array form = %v", fromArray.Sort)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		wantPages int
	}{
		{"empty", 0, 20, 1},
		{"exact", 40, 20, 2},
		{"remainder", 41, 20, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pagination.NewPageResult[string](nil, tt.total, 1, tt.pageSize)
			if res.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", res.TotalPages, tt.wantPages)
			}
			if res.Data == nil {
				t.Error("Data should never be nil")
			}
		})
	}
}

func TestSlice(t *testing.T) {
	items := []string{"LOG-005", "LOG-004", "LOG-003", "LOG-002", "LOG-001"}

	tests := []struct {
		name string
		page int
		want []string
	}{
		{"first", 1, []string{"LOG-005", "LOG-004"}},
		{"last partial", 3, []string{"LOG-001"}},
		{"past end", 4, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pagination.Slice(items, pagination.PageRequest{Page: tt.page, PageSize: 2})
			if len(res.Data) != len(tt.want) {
				t.Fatalf("data = %v, want %v", res.Data, tt.want)
			}
			for i := range tt.want {
				if res.Data[i] != tt.want[i] {
					t.Errorf("data[%d] = %s, want %s", i, res.Data[i], tt.want[i])
				}
			}
			if res.Total != 5 || res.TotalPages != 3 {
				t.Errorf("total/pages = %d/%d", res.Total, res.TotalPages)
			}
		})
	}
}
