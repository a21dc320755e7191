package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	cases := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"vacía", PageRequest{}, PageRequest{Limit: DefaultPageLimit}},
		{"dentro de rango", PageRequest{Limit: 10, Offset: 30}, PageRequest{Limit: 10, Offset: 30}},
		{"tope", PageRequest{Limit: 5000}, PageRequest{Limit: MaxPageLimit}},
		{"negativos", PageRequest{Limit: -1, Offset: -4}, PageRequest{Limit: DefaultPageLimit}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.DefaultPage()
			assert.Equal(t, tc.want, p)
		})
	}
}
