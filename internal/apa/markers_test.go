// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apa

import (
	"reflect"
	"testing"

	"github.com/pdiddy/paper-forge/pkg/types"
)

func TestExtractKeys(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single marker",
			text: "As shown in [Smith2020], results vary.",
			want: []string{"Smith2020"},
		},
		{
			name: "multiple and repeated",
			text: "[Smith2020] said X. Later [Doe2019; Smith2020] agreed.",
			want: []string{"Smith2020", "Doe2019"},
		},
		{
			name: "page marker",
			text: "Quoted in [Smith2020:14].",
			want: []string{"Smith2020"},
		},
		{
			name: "non-key brackets ignored",
			text: "See [the appendix] and [1] for details.",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractKeys(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	citations := map[string]*types.Citation{
		"Smith2020": {Key: "Smith2020", Authors: []string{"Smith, J."}, Year: 2020},
		"Doe2019":   {Key: "Doe2019", Authors: []string{"Doe, A."}, Year: 2019},
	}
	resolve := func(key string) (*types.Citation, bool) {
		c, ok := citations[key]
		return c, ok
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single",
			text: "As [Smith2020] shows.",
			want: "As (Smith, 2020) shows.",
		},
		{
			name: "with page",
			text: "Quoted [Smith2020:14] here.",
			want: "Quoted (Smith, 2020, p. 14) here.",
		},
		{
			name: "multiple keys in one marker",
			text: "Prior work [Doe2019; Smith2020] agrees.",
			want: "Prior work (Doe, 2019; Smith, 2020) agrees.",
		},
		{
			name: "unresolved left intact",
			text: "See [Unknown2021] here.",
			want: "See [Unknown2021] here.",
		},
		{
			name: "non-key brackets untouched",
			text: "See [the appendix].",
			want: "See [the appendix].",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.text, resolve); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCitationKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"Smith2020", true},
		{"smith_2020", true},
		{"garcia-vidal2019", true},
		{"2020", false},
		{"Smith", false},
		{"has spaces 2020", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isCitationKey(tt.key); got != tt.want {
			t.Errorf("isCitationKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
