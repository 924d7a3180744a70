package main

import (
	"testing"

	"github.com/gonewx/driftfield/pkg/utils"
)

func TestParsePanels(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []utils.Bounds
		wantErr bool
	}{
		{"单个面板", "100,100,300,200", []utils.Bounds{utils.NewBounds(100, 100, 300, 200)}, false},
		{"多个面板和空白", " 0,0,10,10 ; 5.5,6,7,8 ;", []utils.Bounds{
			utils.NewBounds(0, 0, 10, 10),
			utils.NewBounds(5.5, 6, 7, 8),
		}, false},
		{"字段数量错误", "1,2,3", nil, true},
		{"非数字", "a,2,3,4", nil, true},
		{"尺寸为零", "0,0,0,10", nil, true},
		{"空字符串", " ; ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePanels(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePanels(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d panels, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("panel %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
