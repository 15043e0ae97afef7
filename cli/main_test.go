package main

import (
	"testing"

	"github.com/biotinker/cloudreg/feature"
)

func TestSearchParam_FlagCombinations(t *testing.T) {
	tests := []struct {
		name   string
		knn    int
		radius float64
		want   feature.SearchParam
	}{
		{"neither flag", 0, 0, feature.KNNSearch(defaultKNN)},
		{"knn only", 12, 0, feature.KNNSearch(12)},
		{"radius only", 0, 2.5, feature.RadiusSearch(2.5)},
		{"both", 12, 2.5, feature.HybridSearch(2.5, 12)},
	}
	for _, tc := range tests {
		if got := searchParam(tc.knn, tc.radius); got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}
