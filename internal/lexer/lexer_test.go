package lexer_test

import (
	"testing"

	"github.com/gmofishsauce/tas/internal/lexer"
	"github.com/stretchr/testify/assert"
)

func TestCleanLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"blank", "", ""},
		{"only whitespace", "   \t  ", ""},
		{"leading whitespace stripped", "   MAIN: mov r1,r2", "MAIN: mov r1,r2"},
		{"comment stripped", "mov r1 ; move it", "mov r1"},
		{"tab becomes space", "mov\tr1", "mov r1"},
		{"space after comma dropped", "mov r1, r2", "mov r1,r2"},
		{"space after digit dropped", "mov #1 , r2", "mov #1,r2"},
		{"runs of spaces collapsed", "mov     r1", "mov r1"},
		{"all spaces after a digit are dropped, not just the first", "mov r1     r2", "mov r1r2"},
		{"trailing whitespace stripped", "hlt   \r\n", "hlt"},
		{"whole-line comment keeps leading semicolon", ";a comment", ";a comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lexer.CleanLine(tt.in))
		})
	}
}

func TestColumn(t *testing.T) {
	line := "MOV #-1 r2"
	assert.Equal(t, "MOV", lexer.Column(line, 0))
	assert.Equal(t, "#-1", lexer.Column(line, 1))
	assert.Equal(t, "r2", lexer.Column(line, 2))
	assert.Equal(t, "", lexer.Column(line, 3))
	assert.Equal(t, "", lexer.Column(line, -1))
}

func TestSubcolumn(t *testing.T) {
	assert.Equal(t, "A", lexer.Subcolumn("A,B,C", ',', 0))
	assert.Equal(t, "B", lexer.Subcolumn("A,B,C", ',', 1))
	assert.Equal(t, "C", lexer.Subcolumn("A,B,C", ',', 2))
	assert.Equal(t, "", lexer.Subcolumn("A,B,C", ',', 3))
	assert.Equal(t, "", lexer.Subcolumn("", ',', 0))
}
