package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gonewx/driftfield/pkg/utils"
)

// parsePanels 解析 "x,y,w,h;x,y,w,h" 形式的面板布局
func parsePanels(layout string) ([]utils.Bounds, error) {
	var out []utils.Bounds
	for _, item := range strings.Split(layout, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fields := strings.Split(item, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("invalid panel %q: want x,y,w,h", item)
		}
		var v [4]float64
		for i, f := range fields {
			n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid panel %q: %w", item, err)
			}
			v[i] = n
		}
		if v[2] <= 0 || v[3] <= 0 {
			return nil, fmt.Errorf("invalid panel %q: size must be positive", item)
		}
		out = append(out, utils.NewBounds(v[0], v[1], v[2], v[3]))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no panels in %q", layout)
	}
	return out, nil
}
