package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkbookYear(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/visa_2018.xlsx", "2018"},
		{"schengen-2023-consulates.xlsx", "2023"},
		{"stats.xlsx", "stats"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, workbookYear(tt.path), tt.path)
	}
}

func TestFilterByYear(t *testing.T) {
	workbooks := []string{"in/visa_2018.xlsx", "in/visa_2019.xlsx", "in/visa_2020.xlsx"}

	assert.Equal(t, []string{"in/visa_2019.xlsx"}, filterByYear(workbooks, "2019"))
	assert.Empty(t, filterByYear(workbooks, "2021"))
}
